package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aripa/fish_stats_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	monthKeyLayout = "2006-01"

	// TopFishLimit is the row cap of the TopFish view.
	TopFishLimit = 10
	// PriceAnalysisLimit is the row cap of the PriceAnalysis view.
	PriceAnalysisLimit = 15
	// ProfitabilityLimit is the row cap of the ProfitabilityAnalysis view.
	ProfitabilityLimit = 20
	// SeasonalWindowMonths is the trailing window of the SeasonalAnalysis view.
	SeasonalWindowMonths = 12
)

// priceAnalysisMinWeight is the HAVING threshold: a species is kept only when
// its summed quantity is strictly greater than this.
var priceAnalysisMinWeight = decimal.NewFromInt(10)

func billTotal(b domain.BillFact) decimal.Decimal { return b.Total }

func billWeight(b domain.BillFact) decimal.Decimal { return b.TotalKg }

func lineQuantity(l domain.LineFact) decimal.Decimal { return l.Quantity }

func linePrice(l domain.LineFact) decimal.Decimal { return l.Price }

func lineBill(l domain.LineFact) (int64, bool) { return l.BillID, true }

// Summary counts bills and sums their totals and weights.
func Summary(bills []domain.BillFact) domain.Summary {
	return domain.Summary{
		NbFactures:     int64(len(bills)),
		MontantTotal:   SumBy(bills, billTotal),
		QuantiteTotale: SumBy(bills, billWeight),
	}
}

var byEntitySpec = GroupSpec[domain.BillFact, domain.EntityTotal]{
	Where: domain.BillFact.HasBuyer,
	Key:   func(b domain.BillFact) string { return *b.BuyerName },
	Reduce: func(name string, rows []domain.BillFact) domain.EntityTotal {
		return domain.EntityTotal{Name: name, TotalAmount: SumBy(rows, billTotal)}
	},
	Order: DescDecimal(func(r domain.EntityTotal) decimal.Decimal { return r.TotalAmount }),
}

// ByEntity sums bill totals per buyer name. Bills without a buyer are skipped.
func ByEntity(bills []domain.BillFact) []domain.EntityTotal {
	return Run(bills, byEntitySpec)
}

func speciesSpec(limit int) GroupSpec[domain.LineFact, domain.SpeciesWeight] {
	return GroupSpec[domain.LineFact, domain.SpeciesWeight]{
		Key: func(l domain.LineFact) string { return l.FishName },
		Reduce: func(species string, rows []domain.LineFact) domain.SpeciesWeight {
			return domain.SpeciesWeight{Species: species, TotalWeight: SumBy(rows, lineQuantity)}
		},
		Order: DescDecimal(func(r domain.SpeciesWeight) decimal.Decimal { return r.TotalWeight }),
		Limit: limit,
	}
}

// BySpecies sums line quantities per species.
func BySpecies(lines []domain.LineFact) []domain.SpeciesWeight {
	return Run(lines, speciesSpec(0))
}

// TopFish is BySpecies capped at TopFishLimit rows.
func TopFish(lines []domain.LineFact) []domain.SpeciesWeight {
	return Run(lines, speciesSpec(TopFishLimit))
}

func monthKey(t time.Time) string { return t.Format(monthKeyLayout) }

var monthlyBillsSpec = GroupSpec[domain.BillFact, domain.MonthlyTotal]{
	Key: func(b domain.BillFact) string { return monthKey(b.BillingDate) },
	Reduce: func(month string, rows []domain.BillFact) domain.MonthlyTotal {
		total := SumBy(rows, billTotal)
		n := int64(len(rows))
		return domain.MonthlyTotal{
			Month:         month,
			TotalWeight:   decimal.Zero,
			TotalAmount:   total,
			NbFactures:    n,
			AvgOrderValue: Mean(total, n),
		}
	},
}

type monthWeight struct {
	month  string
	weight decimal.Decimal
}

var monthlyLinesSpec = GroupSpec[domain.LineFact, monthWeight]{
	Key: func(l domain.LineFact) string { return monthKey(l.BillingDate) },
	Reduce: func(month string, rows []domain.LineFact) monthWeight {
		return monthWeight{month: month, weight: SumBy(rows, lineQuantity)}
	},
}

// ByMonth buckets bills by YYYY-MM in ascending order. Amount, bill count and
// average order value come from the bills; weight is the sum of line quantities.
func ByMonth(bills []domain.BillFact, lines []domain.LineFact) []domain.MonthlyTotal {
	months := Run(bills, monthlyBillsSpec)
	weights := make(map[string]decimal.Decimal, len(months))
	for _, w := range Run(lines, monthlyLinesSpec) {
		weights[w.month] = w.weight
	}
	for i := range months {
		if w, ok := weights[months[i].Month]; ok {
			months[i].TotalWeight = w
		}
	}
	return months
}

var byPresentationSpec = GroupSpec[domain.LineFact, domain.PresentationWeight]{
	Key: func(l domain.LineFact) string { return l.Presentation },
	Reduce: func(p string, rows []domain.LineFact) domain.PresentationWeight {
		return domain.PresentationWeight{Presentation: p, TotalWeight: SumBy(rows, lineQuantity)}
	},
	Order: DescDecimal(func(r domain.PresentationWeight) decimal.Decimal { return r.TotalWeight }),
}

// ByPresentation sums line quantities per presentation label.
func ByPresentation(lines []domain.LineFact) []domain.PresentationWeight {
	return Run(lines, byPresentationSpec)
}

var byBoatSpec = GroupSpec[domain.BillFact, domain.BoatActivity]{
	Key: func(b domain.BillFact) string { return b.BoatName },
	Reduce: func(boat string, rows []domain.BillFact) domain.BoatActivity {
		return domain.BoatActivity{
			Boat:         boat,
			NbFactures:   int64(len(rows)),
			TotalRevenue: SumBy(rows, billTotal),
			TotalWeight:  SumBy(rows, billWeight),
		}
	},
	Order: DescCount(func(r domain.BoatActivity) int64 { return r.NbFactures }),
}

// ByBoat counts bills per boat.
func ByBoat(bills []domain.BillFact) []domain.BoatActivity {
	return Run(bills, byBoatSpec)
}

var byPaymentMethodSpec = GroupSpec[domain.BillFact, domain.PaymentMethodTotal]{
	Key: func(b domain.BillFact) string { return b.PaymentMethod },
	Reduce: func(method string, rows []domain.BillFact) domain.PaymentMethodTotal {
		return domain.PaymentMethodTotal{PaymentMethod: method, Count: int64(len(rows)), TotalAmount: SumBy(rows, billTotal)}
	},
	Order: DescCount(func(r domain.PaymentMethodTotal) int64 { return r.Count }),
}

// ByPaymentMethod counts bills per payment method.
func ByPaymentMethod(bills []domain.BillFact) []domain.PaymentMethodTotal {
	return Run(bills, byPaymentMethodSpec)
}

var byStatusSpec = GroupSpec[domain.BillFact, domain.StatusTotal]{
	Key: func(b domain.BillFact) string { return b.Status },
	Reduce: func(status string, rows []domain.BillFact) domain.StatusTotal {
		return domain.StatusTotal{Status: status, Count: int64(len(rows)), TotalAmount: SumBy(rows, billTotal)}
	},
	Order: DescCount(func(r domain.StatusTotal) int64 { return r.Count }),
}

// ByStatus counts bills per status.
func ByStatus(bills []domain.BillFact) []domain.StatusTotal {
	return Run(bills, byStatusSpec)
}

// DetailedAnalytics computes the single-row overview of a window.
func DetailedAnalytics(bills []domain.BillFact) domain.DetailedAnalytics {
	orders := CountDistinct(bills, func(b domain.BillFact) (int64, bool) { return b.BillID, true })
	revenue := SumBy(bills, billTotal)
	weight := SumBy(bills, billWeight)
	n := int64(len(bills))
	return domain.DetailedAnalytics{
		TotalOrders:       orders,
		TotalRevenue:      revenue,
		TotalWeight:       weight,
		AvgOrderValue:     Mean(revenue, n),
		AvgWeightPerOrder: Mean(weight, n),
		UniqueCustomers: CountDistinct(bills, func(b domain.BillFact) (int64, bool) {
			if b.BuyerID == nil {
				return 0, false
			}
			return *b.BuyerID, true
		}),
		ActiveBoats: CountDistinct(bills, func(b domain.BillFact) (int64, bool) { return b.BoatID, true }),
	}
}

var priceAnalysisSpec = GroupSpec[domain.LineFact, domain.SpeciesPrice]{
	Where: func(l domain.LineFact) bool { return l.Quantity.IsPositive() && l.Price.IsPositive() },
	Key:   func(l domain.LineFact) string { return l.FishName },
	Reduce: func(species string, rows []domain.LineFact) domain.SpeciesPrice {
		row := domain.SpeciesPrice{
			Species:     species,
			TotalWeight: SumBy(rows, lineQuantity),
			NbOrders:    CountDistinct(rows, lineBill),
		}
		units := make([]decimal.Decimal, 0, len(rows))
		for _, l := range rows {
			if u, ok := l.UnitPrice(); ok {
				units = append(units, u)
			}
		}
		if len(units) > 0 {
			row.AvgPricePerKg = Mean(decimal.Sum(decimal.Zero, units...), int64(len(units)))
			row.MinPricePerKg = defined(decimal.Min(units[0], units[1:]...))
			row.MaxPricePerKg = defined(decimal.Max(units[0], units[1:]...))
		}
		return row
	},
	Having: func(r domain.SpeciesPrice) bool { return r.TotalWeight.GreaterThan(priceAnalysisMinWeight) },
	Order:  DescDecimal(func(r domain.SpeciesPrice) decimal.Decimal { return r.TotalWeight }),
	Limit:  PriceAnalysisLimit,
}

// PriceAnalysis reports unit-price statistics for species with more than 10 kg
// sold, using only lines with a positive quantity and price.
func PriceAnalysis(lines []domain.LineFact) []domain.SpeciesPrice {
	return Run(lines, priceAnalysisSpec)
}

func seasonalSpec(since time.Time) GroupSpec[domain.BillFact, domain.SeasonalMonth] {
	return GroupSpec[domain.BillFact, domain.SeasonalMonth]{
		Where: func(b domain.BillFact) bool { return !b.BillingDate.Before(since) },
		Key:   func(b domain.BillFact) string { return fmt.Sprintf("%02d", int(b.BillingDate.Month())) },
		Reduce: func(key string, rows []domain.BillFact) domain.SeasonalMonth {
			num, _ := strconv.Atoi(key)
			revenue := SumBy(rows, billTotal)
			n := int64(len(rows))
			return domain.SeasonalMonth{
				MonthNum:      num,
				MonthName:     time.Month(num).String(),
				TotalWeight:   SumBy(rows, billWeight),
				TotalRevenue:  revenue,
				TotalOrders:   n,
				AvgOrderValue: Mean(revenue, n),
			}
		},
	}
}

// SeasonalAnalysis groups bills billed on or after since by calendar month.
func SeasonalAnalysis(bills []domain.BillFact, since time.Time) []domain.SeasonalMonth {
	return Run(bills, seasonalSpec(since))
}

func paymentMethodDetailSpec(method string) GroupSpec[domain.LineFact, domain.PresentationDetail] {
	return GroupSpec[domain.LineFact, domain.PresentationDetail]{
		Where: func(l domain.LineFact) bool { return l.PaymentMethod == method },
		Key:   func(l domain.LineFact) string { return l.Presentation },
		Reduce: func(p string, rows []domain.LineFact) domain.PresentationDetail {
			return domain.PresentationDetail{
				Presentation: p,
				TotalWeight:  SumBy(rows, lineQuantity),
				TotalAmount:  SumBy(rows, linePrice),
				NbOrders:     CountDistinct(rows, lineBill),
			}
		},
		Order: DescDecimal(func(r domain.PresentationDetail) decimal.Decimal { return r.TotalWeight }),
	}
}

// PaymentMethodDetail breaks the lines paid with method down by presentation.
func PaymentMethodDetail(lines []domain.LineFact, method string) []domain.PresentationDetail {
	return Run(lines, paymentMethodDetailSpec(method))
}

// BillsByBoat lists the bills of the boat named boatName (case-insensitive),
// newest first. Bills on the same date are ordered by bill id.
func BillsByBoat(bills []domain.BillFact, boatName string) []domain.BoatBill {
	out := make([]domain.BoatBill, 0)
	for _, b := range bills {
		if !strings.EqualFold(b.BoatName, boatName) {
			continue
		}
		out = append(out, domain.BoatBill{
			BillID:      b.BillID,
			Type:        b.Status,
			Total:       b.Total,
			BillingDate: b.BillingDate,
			TotalKg:     b.TotalKg,
			BuyerName:   b.BuyerName,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].BillingDate.Equal(out[j].BillingDate) {
			return out[i].BillingDate.After(out[j].BillingDate)
		}
		return out[i].BillID < out[j].BillID
	})
	return out
}

// customerKey sorts by name, then by zero-padded entity id.
func customerKey(b domain.BillFact) string {
	return fmt.Sprintf("%s\x00%020d", *b.BuyerName, *b.BuyerID)
}

var profitabilitySpec = GroupSpec[domain.BillFact, domain.CustomerProfitability]{
	Where: domain.BillFact.HasBuyer,
	Key:   customerKey,
	Reduce: func(_ string, rows []domain.BillFact) domain.CustomerProfitability {
		revenue := SumBy(rows, billTotal)
		n := int64(len(rows))
		first, last := rows[0].BillingDate, rows[0].BillingDate
		for _, b := range rows[1:] {
			if b.BillingDate.Before(first) {
				first = b.BillingDate
			}
			if b.BillingDate.After(last) {
				last = b.BillingDate
			}
		}
		return domain.CustomerProfitability{
			Customer:       *rows[0].BuyerName,
			EntityID:       *rows[0].BuyerID,
			TotalOrders:    n,
			TotalRevenue:   revenue,
			TotalWeight:    SumBy(rows, billWeight),
			AvgOrderValue:  Mean(revenue, n),
			LastOrderDate:  last,
			FirstOrderDate: first,
		}
	},
	Having: func(r domain.CustomerProfitability) bool { return r.TotalOrders > 1 },
	Order:  DescDecimal(func(r domain.CustomerProfitability) decimal.Decimal { return r.TotalRevenue }),
	Limit:  ProfitabilityLimit,
}

// ProfitabilityAnalysis ranks repeat customers (more than one bill) by revenue.
func ProfitabilityAnalysis(bills []domain.BillFact) []domain.CustomerProfitability {
	return Run(bills, profitabilitySpec)
}
