// Package stats is the aggregation engine behind every analytical view.
//
// Views are declared as GroupSpec values and evaluated by Run:
// WHERE -> GROUP BY -> aggregate -> HAVING -> ORDER BY -> LIMIT.
// Groups are visited in ascending key order and then stable-sorted by the
// view's ordering, so rows that tie on the ordering metric stay in key order
// and repeated runs over the same input produce identical output.
package stats

import (
	"cmp"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// GroupSpec declares one grouped view over rows of type T producing rows of type R.
type GroupSpec[T, R any] struct {
	Where  func(T) bool                 // optional row predicate
	Key    func(T) string               // grouping key; its string order is the tie-breaker
	Reduce func(key string, rows []T) R // builds the aggregate row of one group
	Having func(R) bool                 // optional group predicate
	Order  func(a, b R) int             // optional primary ordering
	Limit  int                          // 0 means no limit
}

// Run evaluates spec over rows. It never returns nil.
func Run[T, R any](rows []T, spec GroupSpec[T, R]) []R {
	grouped := make(map[string][]T)
	for _, row := range rows {
		if spec.Where != nil && !spec.Where(row) {
			continue
		}
		key := spec.Key(row)
		grouped[key] = append(grouped[key], row)
	}

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]R, 0, len(keys))
	for _, key := range keys {
		r := spec.Reduce(key, grouped[key])
		if spec.Having != nil && !spec.Having(r) {
			continue
		}
		out = append(out, r)
	}

	if spec.Order != nil {
		slices.SortStableFunc(out, spec.Order)
	}
	if spec.Limit > 0 && len(out) > spec.Limit {
		out = out[:spec.Limit]
	}
	return out
}

// DescDecimal orders rows by a decimal metric, largest first.
func DescDecimal[R any](metric func(R) decimal.Decimal) func(a, b R) int {
	return func(a, b R) int {
		return metric(b).Cmp(metric(a))
	}
}

// DescCount orders rows by an integer metric, largest first.
func DescCount[R any](metric func(R) int64) func(a, b R) int {
	return func(a, b R) int {
		return cmp.Compare(metric(b), metric(a))
	}
}
