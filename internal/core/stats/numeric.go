package stats

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// percentPlaces is the rounding applied to every percentage the engine emits.
const percentPlaces = 1

// undefined is the sentinel for a ratio whose denominator is zero.
var undefined = decimal.NullDecimal{}

func defined(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Ratio returns num/den, or an invalid NullDecimal when den is zero.
func Ratio(num, den decimal.Decimal) decimal.NullDecimal {
	if den.IsZero() {
		return undefined
	}
	return defined(num.Div(den))
}

// Mean returns sum/n, or an invalid NullDecimal for an empty group.
func Mean(sum decimal.Decimal, n int64) decimal.NullDecimal {
	if n <= 0 {
		return undefined
	}
	return defined(sum.Div(decimal.NewFromInt(n)))
}

// Percent returns part/whole*100 rounded to one decimal place.
func Percent(part, whole decimal.Decimal) decimal.NullDecimal {
	if whole.IsZero() {
		return undefined
	}
	return defined(part.Mul(hundred).Div(whole).Round(percentPlaces))
}

// Growth returns (current-previous)/previous*100 rounded to one decimal place.
func Growth(current, previous decimal.Decimal) decimal.NullDecimal {
	if previous.IsZero() {
		return undefined
	}
	return defined(current.Sub(previous).Mul(hundred).Div(previous).Round(percentPlaces))
}

// SumBy adds up f over rows.
func SumBy[T any](rows []T, f func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(f(row))
	}
	return total
}

// CountDistinct counts the distinct keys f yields. Rows for which f returns
// false are ignored, mirroring COUNT(DISTINCT col) skipping NULLs.
func CountDistinct[T any, K comparable](rows []T, f func(T) (K, bool)) int64 {
	seen := make(map[K]struct{}, len(rows))
	for _, row := range rows {
		if k, ok := f(row); ok {
			seen[k] = struct{}{}
		}
	}
	return int64(len(seen))
}
