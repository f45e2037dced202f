package stats

import (
	"github.com/aripa/fish_stats_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// kpiPlaces is the rounding of the averaged KPI figures.
const kpiPlaces = 2

// MonthlyTrends adds period-over-period growth on weight and amount.
// The first month has a growth of 0.
func MonthlyTrends(months []domain.MonthlyTotal) []domain.MonthlyTrend {
	out := make([]domain.MonthlyTrend, len(months))
	for i, m := range months {
		out[i] = domain.MonthlyTrend{MonthlyTotal: m}
		if i == 0 {
			out[i].WeightGrowth = defined(decimal.Zero)
			out[i].AmountGrowth = defined(decimal.Zero)
			continue
		}
		prev := months[i-1]
		out[i].WeightGrowth = Growth(m.TotalWeight, prev.TotalWeight)
		out[i].AmountGrowth = Growth(m.TotalAmount, prev.TotalAmount)
	}
	return out
}

// EntityPerformance adds each buyer's share of the total amount.
func EntityPerformance(entities []domain.EntityTotal) []domain.EntityShare {
	total := SumBy(entities, func(e domain.EntityTotal) decimal.Decimal { return e.TotalAmount })
	out := make([]domain.EntityShare, len(entities))
	for i, e := range entities {
		out[i] = domain.EntityShare{EntityTotal: e, MarketShare: Percent(e.TotalAmount, total)}
	}
	return out
}

// PresentationBreakdown adds the processing level and the share of total weight.
func PresentationBreakdown(rows []domain.PresentationWeight, c *Classifier) []domain.PresentationShare {
	total := SumBy(rows, func(p domain.PresentationWeight) decimal.Decimal { return p.TotalWeight })
	out := make([]domain.PresentationShare, len(rows))
	for i, p := range rows {
		level := c.Classify(p.Presentation)
		out[i] = domain.PresentationShare{
			PresentationWeight: p,
			Level:              level,
			LevelLabel:         level.Label(),
			Percentage:         Percent(p.TotalWeight, total),
		}
	}
	return out
}

// BuildKPIs combines the summary, the ranked buyers and the monthly series.
// entities must already be ordered by total amount, largest first.
func BuildKPIs(summary domain.Summary, entities []domain.EntityTotal, months []domain.MonthlyTotal) domain.KPIs {
	kpis := domain.KPIs{
		TotalOrders:   summary.NbFactures,
		TotalRevenue:  summary.MontantTotal,
		AvgOrderValue: round(Mean(summary.MontantTotal, summary.NbFactures), kpiPlaces),
		AvgKgPerOrder: round(Mean(summary.QuantiteTotale, summary.NbFactures), kpiPlaces),
		AvgPricePerKg: round(Ratio(summary.MontantTotal, summary.QuantiteTotale), kpiPlaces),
		TopClient:     domain.NoTopClient,
		MonthsCovered: len(months),
	}
	if len(entities) > 0 {
		kpis.TopClient = entities[0].Name
	}
	if trends := MonthlyTrends(months); len(trends) > 0 {
		last := trends[len(trends)-1]
		kpis.LatestAmountGrowth = last.AmountGrowth
		kpis.LatestWeightGrowth = last.WeightGrowth
	}
	return kpis
}

// ToggleSelection returns the selection after clicking clicked. Clicking the
// current selection clears it; "" means nothing is selected.
func ToggleSelection(current, clicked string) string {
	if clicked == current {
		return ""
	}
	return clicked
}

func round(d decimal.NullDecimal, places int32) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return defined(d.Decimal.Round(places))
}
