package stats_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aripa/fish_stats_app/internal/core/domain"
	"github.com/aripa/fish_stats_app/internal/core/stats"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(m, weight, amount string) domain.MonthlyTotal {
	return domain.MonthlyTotal{Month: m, TotalWeight: dec(weight), TotalAmount: dec(amount), NbFactures: 1}
}

func TestMonthlyTrends(t *testing.T) {
	months := []domain.MonthlyTotal{
		month("2024-01", "100", "1000"),
		month("2024-02", "150", "500"),
		month("2024-03", "0", "500"),
		month("2024-04", "40", "1000"),
	}

	got := stats.MonthlyTrends(months)

	require.Len(t, got, 4)
	assert.Equal(t, months[0], got[0].MonthlyTotal)
	require.True(t, got[0].WeightGrowth.Valid, "first month has a defined growth of 0")
	assert.True(t, got[0].WeightGrowth.Decimal.IsZero())
	assert.True(t, got[0].AmountGrowth.Decimal.IsZero())

	assert.Equal(t, "50.0", got[1].WeightGrowth.Decimal.StringFixed(1))
	assert.Equal(t, "-50.0", got[1].AmountGrowth.Decimal.StringFixed(1))
	assert.Equal(t, "-100.0", got[2].WeightGrowth.Decimal.StringFixed(1))
	assert.False(t, got[3].WeightGrowth.Valid, "growth from a zero month is undefined")
	assert.Equal(t, "100.0", got[3].AmountGrowth.Decimal.StringFixed(1))
}

func TestMonthlyTrends_RoundsToOneDecimal(t *testing.T) {
	got := stats.MonthlyTrends([]domain.MonthlyTotal{
		month("2024-01", "3", "3"),
		month("2024-02", "4", "3"),
	})

	assert.Equal(t, "33.3", got[1].WeightGrowth.Decimal.String())
}

func TestMonthlyTrends_DoesNotMutateInput(t *testing.T) {
	months := []domain.MonthlyTotal{month("2024-01", "1", "1"), month("2024-02", "2", "2")}
	before := append([]domain.MonthlyTotal(nil), months...)

	stats.MonthlyTrends(months)

	assert.Equal(t, before, months)
}

func TestEntityPerformance(t *testing.T) {
	entities := []domain.EntityTotal{
		{Name: "B", TotalAmount: dec("300")},
		{Name: "A", TotalAmount: dec("100")},
	}

	got := stats.EntityPerformance(entities)

	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "75.0", got[0].MarketShare.Decimal.StringFixed(1))
	assert.Equal(t, "A", got[1].Name)
	assert.Equal(t, "25.0", got[1].MarketShare.Decimal.StringFixed(1))
}

func TestEntityPerformance_SharesSumToHundred(t *testing.T) {
	entities := []domain.EntityTotal{
		{Name: "A", TotalAmount: dec("1")},
		{Name: "B", TotalAmount: dec("1")},
		{Name: "C", TotalAmount: dec("1")},
	}

	sum := decimal.Zero
	for _, row := range stats.EntityPerformance(entities) {
		require.True(t, row.MarketShare.Valid)
		sum = sum.Add(row.MarketShare.Decimal)
	}

	assert.True(t, sum.Sub(dec("100")).Abs().LessThanOrEqual(dec("0.15")), "sum was %s", sum)
}

func TestEntityPerformance_ZeroTotal(t *testing.T) {
	got := stats.EntityPerformance([]domain.EntityTotal{
		{Name: "A", TotalAmount: decimal.Zero},
		{Name: "B", TotalAmount: decimal.Zero},
	})

	for _, row := range got {
		assert.False(t, row.MarketShare.Valid)
	}
	assert.Empty(t, stats.EntityPerformance(nil))
}

func TestPresentationBreakdown(t *testing.T) {
	rows := []domain.PresentationWeight{
		{Presentation: "Filet", TotalWeight: dec("50")},
		{Presentation: "Entier frais", TotalWeight: dec("30")},
		{Presentation: "Éviscéré", TotalWeight: dec("20")},
	}

	got := stats.PresentationBreakdown(rows, stats.NewClassifier(stats.DefaultPresentationRules()))

	require.Len(t, got, 3)
	assert.Equal(t, domain.LevelProcessed, got[0].Level)
	assert.Equal(t, "Niveau 2", got[0].LevelLabel)
	assert.Equal(t, "50.0", got[0].Percentage.Decimal.StringFixed(1))
	assert.Equal(t, domain.LevelWhole, got[1].Level)
	assert.Equal(t, "Niveau 0", got[1].LevelLabel)
	assert.Equal(t, domain.LevelGutted, got[2].Level)
	assert.Equal(t, "Niveau 1", got[2].LevelLabel)
	assert.Equal(t, "20.0", got[2].Percentage.Decimal.StringFixed(1))
}

func TestPresentationBreakdown_ZeroWeight(t *testing.T) {
	got := stats.PresentationBreakdown(
		[]domain.PresentationWeight{{Presentation: "Entier", TotalWeight: decimal.Zero}},
		stats.NewClassifier(stats.DefaultPresentationRules()),
	)

	require.Len(t, got, 1)
	assert.False(t, got[0].Percentage.Valid)
}

func TestClassifier_IgnoresCaseAndAccents(t *testing.T) {
	c := stats.NewClassifier(stats.DefaultPresentationRules())

	tests := []struct {
		label string
		want  domain.PresentationLevel
	}{
		{"Entier", domain.LevelWhole},
		{"ENTIER glacé", domain.LevelWhole},
		{"Éviscéré", domain.LevelGutted},
		{"eviscere", domain.LevelGutted},
		{"Poisson éviscéré entier", domain.LevelWhole},
		{"Filet", domain.LevelProcessed},
		{"", domain.LevelProcessed},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.label))
		})
	}
}

func TestLoadPresentationRules(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		rules, err := stats.LoadPresentationRules("")
		require.NoError(t, err)
		assert.Equal(t, stats.DefaultPresentationRules(), rules)
	})

	t.Run("file overrides one level", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("whole:\n  - Whole\n  - Entier\n"), 0o600))

		rules, err := stats.LoadPresentationRules(path)

		require.NoError(t, err)
		assert.Equal(t, []string{"Whole", "Entier"}, rules.Whole)
		assert.Equal(t, stats.DefaultPresentationRules().Gutted, rules.Gutted)
		assert.Equal(t, domain.LevelWhole, stats.NewClassifier(rules).Classify("whole fish"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := stats.LoadPresentationRules(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("blank marker", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("gutted:\n  - \"  \"\n"), 0o600))

		_, err := stats.LoadPresentationRules(path)
		assert.Error(t, err)
	})
}

func TestBuildKPIs(t *testing.T) {
	summary := domain.Summary{NbFactures: 3, MontantTotal: dec("1000"), QuantiteTotale: dec("80")}
	entities := []domain.EntityTotal{{Name: "B", TotalAmount: dec("700")}, {Name: "A", TotalAmount: dec("300")}}
	months := []domain.MonthlyTotal{month("2024-01", "40", "400"), month("2024-02", "40", "600")}

	got := stats.BuildKPIs(summary, entities, months)

	assert.Equal(t, int64(3), got.TotalOrders)
	assert.Equal(t, "1000", got.TotalRevenue.String())
	assert.Equal(t, "333.33", got.AvgOrderValue.Decimal.String())
	assert.Equal(t, "26.67", got.AvgKgPerOrder.Decimal.String())
	assert.Equal(t, "12.5", got.AvgPricePerKg.Decimal.String())
	assert.Equal(t, "B", got.TopClient)
	assert.Equal(t, 2, got.MonthsCovered)
	assert.Equal(t, "50", got.LatestAmountGrowth.Decimal.String())
	assert.True(t, got.LatestWeightGrowth.Decimal.IsZero())
}

func TestBuildKPIs_Empty(t *testing.T) {
	got := stats.BuildKPIs(domain.Summary{}, nil, nil)

	assert.Equal(t, domain.NoTopClient, got.TopClient)
	assert.False(t, got.AvgOrderValue.Valid)
	assert.False(t, got.AvgKgPerOrder.Valid)
	assert.False(t, got.AvgPricePerKg.Valid)
	assert.False(t, got.LatestAmountGrowth.Valid)
	assert.Equal(t, 0, got.MonthsCovered)
}

func TestToggleSelection(t *testing.T) {
	assert.Equal(t, "Chèque", stats.ToggleSelection("", "Chèque"))
	assert.Equal(t, "", stats.ToggleSelection("Chèque", "Chèque"))
	assert.Equal(t, "Espèces", stats.ToggleSelection("Chèque", "Espèces"))
	assert.Equal(t, "", stats.ToggleSelection("", ""))
}
