package stats

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/aripa/fish_stats_app/internal/core/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// PresentationRules lists the label markers of the first two processing levels.
// Anything matching neither list is LevelProcessed.
type PresentationRules struct {
	Whole  []string `yaml:"whole"`
	Gutted []string `yaml:"gutted"`
}

// DefaultPresentationRules are the markers used by the auction's labels.
func DefaultPresentationRules() PresentationRules {
	return PresentationRules{
		Whole:  []string{"Entier"},
		Gutted: []string{"Éviscéré"},
	}
}

// LoadPresentationRules reads rules from a YAML file. An empty path returns the
// defaults; a list left empty in the file keeps its default markers.
func LoadPresentationRules(path string) (PresentationRules, error) {
	rules := DefaultPresentationRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read presentation rules %s: %w", path, err)
	}
	var override PresentationRules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return rules, fmt.Errorf("failed to parse presentation rules %s: %w", path, err)
	}

	if len(override.Whole) > 0 {
		rules.Whole = override.Whole
	}
	if len(override.Gutted) > 0 {
		rules.Gutted = override.Gutted
	}
	return rules, rules.validate()
}

func (r PresentationRules) validate() error {
	for _, m := range append(append([]string{}, r.Whole...), r.Gutted...) {
		if strings.TrimSpace(m) == "" {
			return errors.New("presentation rules: empty marker")
		}
	}
	return nil
}

// Classifier maps presentation labels to levels. Matching ignores case and accents,
// and the whole markers are checked before the gutted ones.
type Classifier struct {
	whole  []string
	gutted []string
}

// NewClassifier folds the markers of rules once.
func NewClassifier(rules PresentationRules) *Classifier {
	c := &Classifier{}
	for _, m := range rules.Whole {
		c.whole = append(c.whole, fold(m))
	}
	for _, m := range rules.Gutted {
		c.gutted = append(c.gutted, fold(m))
	}
	return c
}

// Classify returns the level of label. Every label maps to exactly one level.
func (c *Classifier) Classify(label string) domain.PresentationLevel {
	folded := fold(label)
	if containsAny(folded, c.whole) {
		return domain.LevelWhole
	}
	if containsAny(folded, c.gutted) {
		return domain.LevelGutted
	}
	return domain.LevelProcessed
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// fold strips combining marks and case-folds s. Transformers hold state, so a
// fresh chain is built per call.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}
