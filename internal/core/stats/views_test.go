package stats_test

import (
	"testing"
	"time"

	"github.com/aripa/fish_stats_app/internal/core/domain"
	"github.com/aripa/fish_stats_app/internal/core/stats"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func int64Ptr(i int64) *int64 { return &i }

type billOpt func(*domain.BillFact)

func withBuyer(id int64, name string) billOpt {
	return func(b *domain.BillFact) {
		b.BuyerID = int64Ptr(id)
		b.BuyerName = strPtr(name)
	}
}

func withBoat(id int64, name string) billOpt {
	return func(b *domain.BillFact) {
		b.BoatID = id
		b.BoatName = name
	}
}

func withPayment(method string) billOpt {
	return func(b *domain.BillFact) { b.PaymentMethod = method }
}

func withStatus(status string) billOpt {
	return func(b *domain.BillFact) { b.Status = status }
}

func bill(id int64, date time.Time, total, kg string, opts ...billOpt) domain.BillFact {
	b := domain.BillFact{
		Bill: domain.Bill{
			BillID:        id,
			BoatID:        1,
			BillingDate:   date,
			Total:         dec(total),
			TotalKg:       dec(kg),
			PaymentMethod: "Espèces",
			Status:        "validated",
		},
		BoatName: "Neptune",
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func line(billID int64, fish, presentation, qty, price string, date time.Time, method string) domain.LineFact {
	return domain.LineFact{
		BillLine: domain.BillLine{
			BillID:       billID,
			Presentation: presentation,
			Quantity:     dec(qty),
			Price:        dec(price),
		},
		FishName:      fish,
		BillingDate:   date,
		PaymentMethod: method,
	}
}

func TestSummary(t *testing.T) {
	bills := []domain.BillFact{
		bill(1, day(2024, 1, 10), "100", "20"),
		bill(2, day(2024, 1, 12), "300", "40"),
	}

	got := stats.Summary(bills)

	assert.Equal(t, int64(2), got.NbFactures)
	assert.Equal(t, "400", got.MontantTotal.String())
	assert.Equal(t, "60", got.QuantiteTotale.String())
}

func TestSummary_Empty(t *testing.T) {
	got := stats.Summary(nil)

	assert.Equal(t, int64(0), got.NbFactures)
	assert.True(t, got.MontantTotal.IsZero())
	assert.True(t, got.QuantiteTotale.IsZero())
}

func TestByEntity(t *testing.T) {
	bills := []domain.BillFact{
		bill(1, day(2024, 1, 1), "100", "10", withBuyer(1, "A")),
		bill(2, day(2024, 1, 2), "300", "10", withBuyer(2, "B")),
		bill(3, day(2024, 1, 3), "50", "10"),
		bill(4, day(2024, 1, 4), "50", "10", withBuyer(1, "A")),
	}

	got := stats.ByEntity(bills)

	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "300", got[0].TotalAmount.String())
	assert.Equal(t, "A", got[1].Name)
	assert.Equal(t, "150", got[1].TotalAmount.String())
}

func TestByEntity_TiesKeepKeyOrder(t *testing.T) {
	bills := []domain.BillFact{
		bill(1, day(2024, 1, 1), "100", "1", withBuyer(3, "Charlie")),
		bill(2, day(2024, 1, 1), "100", "1", withBuyer(1, "Alpha")),
		bill(3, day(2024, 1, 1), "100", "1", withBuyer(2, "Bravo")),
	}

	first := stats.ByEntity(bills)
	second := stats.ByEntity([]domain.BillFact{bills[2], bills[0], bills[1]})

	require.Len(t, first, 3)
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, []string{first[0].Name, first[1].Name, first[2].Name})
	assert.Equal(t, first, second)
}

func TestBySpeciesAndTopFish(t *testing.T) {
	var lines []domain.LineFact
	for i := 0; i < 12; i++ {
		fish := string(rune('a' + i))
		lines = append(lines, line(int64(i), fish, "Entier", decimal.NewFromInt(int64(i+1)).String(), "10", day(2024, 1, 1), "Espèces"))
	}

	all := stats.BySpecies(lines)
	top := stats.TopFish(lines)

	require.Len(t, all, 12)
	require.Len(t, top, stats.TopFishLimit)
	assert.Equal(t, "l", top[0].Species)
	assert.Equal(t, "12", top[0].TotalWeight.String())
	assert.Equal(t, all[:stats.TopFishLimit], top)
}

func TestByMonth(t *testing.T) {
	bills := []domain.BillFact{
		bill(1, day(2024, 2, 3), "300", "30"),
		bill(2, day(2024, 1, 15), "100", "10"),
		bill(3, day(2024, 1, 20), "200", "20"),
	}
	lines := []domain.LineFact{
		line(1, "Sole", "Entier", "25", "150", day(2024, 2, 3), "Espèces"),
		line(1, "Bar", "Entier", "5", "150", day(2024, 2, 3), "Espèces"),
		line(2, "Sole", "Entier", "10", "100", day(2024, 1, 15), "Espèces"),
		line(3, "Sole", "Entier", "20", "200", day(2024, 1, 20), "Espèces"),
	}

	got := stats.ByMonth(bills, lines)

	require.Len(t, got, 2)
	assert.Equal(t, "2024-01", got[0].Month)
	assert.Equal(t, "300", got[0].TotalAmount.String())
	assert.Equal(t, "30", got[0].TotalWeight.String())
	assert.Equal(t, int64(2), got[0].NbFactures)
	require.True(t, got[0].AvgOrderValue.Valid)
	assert.Equal(t, "150", got[0].AvgOrderValue.Decimal.String())

	assert.Equal(t, "2024-02", got[1].Month)
	assert.Equal(t, "300", got[1].TotalAmount.String(), "line fan-out must not inflate the bill total")
	assert.Equal(t, "30", got[1].TotalWeight.String())
	assert.Equal(t, int64(1), got[1].NbFactures)
}

func TestByMonth_MonthWithoutLines(t *testing.T) {
	bills := []domain.BillFact{
		bill(1, day(2024, 1, 15), "100", "10"),
		bill(2, day(2024, 2, 3), "250", "25"),
	}
	lines := []domain.LineFact{
		line(1, "Sole", "Entier", "10", "100", day(2024, 1, 15), "Espèces"),
	}

	got := stats.ByMonth(bills, lines)

	require.Len(t, got, 2, "a billed month is reported even when its bills carry no lines")
	assert.Equal(t, "2024-02", got[1].Month)
	assert.True(t, got[1].TotalWeight.IsZero())
	assert.Equal(t, "250", got[1].TotalAmount.String())
	assert.Equal(t, int64(1), got[1].NbFactures)
}

func TestByBoatPaymentAndStatus(t *testing.T) {
	bills := []domain.BillFact{
		bill(1, day(2024, 1, 1), "100", "10", withBoat(1, "Neptune"), withPayment("Chèque"), withStatus("pending")),
		bill(2, day(2024, 1, 2), "200", "20", withBoat(2, "Aurore"), withPayment("Espèces"), withStatus("validated")),
		bill(3, day(2024, 1, 3), "300", "30", withBoat(2, "Aurore"), withPayment("Espèces"), withStatus("validated")),
	}

	boats := stats.ByBoat(bills)
	require.Len(t, boats, 2)
	assert.Equal(t, "Aurore", boats[0].Boat)
	assert.Equal(t, int64(2), boats[0].NbFactures)
	assert.Equal(t, "500", boats[0].TotalRevenue.String())
	assert.Equal(t, "50", boats[0].TotalWeight.String())

	methods := stats.ByPaymentMethod(bills)
	require.Len(t, methods, 2)
	assert.Equal(t, "Espèces", methods[0].PaymentMethod)
	assert.Equal(t, int64(2), methods[0].Count)

	statuses := stats.ByStatus(bills)
	require.Len(t, statuses, 2)
	assert.Equal(t, "validated", statuses[0].Status)
	assert.Equal(t, "pending", statuses[1].Status)
	assert.Equal(t, "100", statuses[1].TotalAmount.String())
}

func TestDetailedAnalytics(t *testing.T) {
	bills := []domain.BillFact{
		bill(1, day(2024, 1, 1), "100", "10", withBuyer(1, "A"), withBoat(1, "Neptune")),
		bill(2, day(2024, 1, 2), "200", "30", withBuyer(1, "A"), withBoat(2, "Aurore")),
		bill(3, day(2024, 1, 3), "300", "20", withBoat(2, "Aurore")),
	}

	got := stats.DetailedAnalytics(bills)

	assert.Equal(t, int64(3), got.TotalOrders)
	assert.Equal(t, "600", got.TotalRevenue.String())
	assert.Equal(t, "60", got.TotalWeight.String())
	assert.Equal(t, "200", got.AvgOrderValue.Decimal.String())
	assert.Equal(t, "20", got.AvgWeightPerOrder.Decimal.String())
	assert.Equal(t, int64(1), got.UniqueCustomers)
	assert.Equal(t, int64(2), got.ActiveBoats)
}

func TestDetailedAnalytics_EmptyWindowIsUndefined(t *testing.T) {
	got := stats.DetailedAnalytics(nil)

	assert.Equal(t, int64(0), got.TotalOrders)
	assert.False(t, got.AvgOrderValue.Valid)
	assert.False(t, got.AvgWeightPerOrder.Valid)
}

func TestPriceAnalysis(t *testing.T) {
	d := day(2024, 1, 1)
	lines := []domain.LineFact{
		line(1, "Sole", "Entier", "8", "80", d, "Espèces"),
		line(2, "Sole", "Entier", "4", "60", d, "Espèces"),
		line(3, "Sole", "Entier", "0", "50", d, "Espèces"),
		line(4, "Sole", "Entier", "100", "0", d, "Espèces"),
		line(5, "Bar", "Entier", "10", "100", d, "Espèces"),
		line(6, "Thon", "Entier", "30", "90", d, "Espèces"),
	}

	got := stats.PriceAnalysis(lines)

	require.Len(t, got, 2, "Bar has exactly 10 kg and must be excluded")
	assert.Equal(t, "Thon", got[0].Species)
	assert.Equal(t, "Sole", got[1].Species)

	sole := got[1]
	assert.Equal(t, "12", sole.TotalWeight.String(), "rows with zero quantity or price are ignored")
	assert.Equal(t, int64(2), sole.NbOrders)
	assert.Equal(t, "12.5", sole.AvgPricePerKg.Decimal.String())
	assert.Equal(t, "10", sole.MinPricePerKg.Decimal.String())
	assert.Equal(t, "15", sole.MaxPricePerKg.Decimal.String())

	for _, row := range got {
		assert.True(t, row.TotalWeight.GreaterThan(dec("10")))
	}
}

func TestPriceAnalysis_Limit(t *testing.T) {
	var lines []domain.LineFact
	for i := 0; i < 20; i++ {
		lines = append(lines, line(int64(i), string(rune('A'+i)), "Entier", "11", "10", day(2024, 1, 1), "Espèces"))
	}

	assert.Len(t, stats.PriceAnalysis(lines), stats.PriceAnalysisLimit)
}

func TestSeasonalAnalysis(t *testing.T) {
	since := day(2023, 6, 15)
	bills := []domain.BillFact{
		bill(1, day(2023, 6, 1), "999", "99"),
		bill(2, day(2023, 7, 1), "100", "10"),
		bill(3, day(2024, 3, 1), "200", "20"),
		bill(4, day(2024, 3, 20), "400", "40"),
	}

	got := stats.SeasonalAnalysis(bills, since)

	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].MonthNum)
	assert.Equal(t, "March", got[0].MonthName)
	assert.Equal(t, int64(2), got[0].TotalOrders)
	assert.Equal(t, "300", got[0].AvgOrderValue.Decimal.String())
	assert.Equal(t, 7, got[1].MonthNum)
	assert.Equal(t, "July", got[1].MonthName)
}

func TestPaymentMethodDetail(t *testing.T) {
	d := day(2024, 1, 1)
	lines := []domain.LineFact{
		line(1, "Sole", "Entier", "10", "100", d, "Chèque"),
		line(1, "Bar", "Éviscéré", "30", "200", d, "Chèque"),
		line(2, "Sole", "Entier", "15", "150", d, "Chèque"),
		line(3, "Sole", "Entier", "99", "999", d, "Espèces"),
	}

	got := stats.PaymentMethodDetail(lines, "Chèque")

	require.Len(t, got, 2)
	assert.Equal(t, "Éviscéré", got[0].Presentation)
	assert.Equal(t, "Entier", got[1].Presentation)
	assert.Equal(t, "25", got[1].TotalWeight.String())
	assert.Equal(t, "250", got[1].TotalAmount.String())
	assert.Equal(t, int64(2), got[1].NbOrders)

	assert.Empty(t, stats.PaymentMethodDetail(lines, "Virement"))
}

func TestBillsByBoat(t *testing.T) {
	bills := []domain.BillFact{
		bill(3, day(2024, 1, 5), "100", "10", withBoat(1, "neptune")),
		bill(1, day(2024, 2, 1), "200", "20", withBoat(1, "neptune"), withBuyer(1, "A")),
		bill(2, day(2024, 1, 5), "300", "30", withBoat(1, "neptune")),
		bill(4, day(2024, 3, 1), "400", "40", withBoat(2, "Aurore")),
	}

	got := stats.BillsByBoat(bills, "Neptune")

	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{got[0].BillID, got[1].BillID, got[2].BillID})
	assert.Equal(t, "validated", got[0].Type)
	require.NotNil(t, got[0].BuyerName)
	assert.Equal(t, "A", *got[0].BuyerName)
	assert.Nil(t, got[1].BuyerName)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].BillingDate.After(got[i-1].BillingDate))
	}
}

func TestProfitabilityAnalysis(t *testing.T) {
	bills := []domain.BillFact{
		bill(1, day(2024, 1, 1), "100", "10", withBuyer(1, "A")),
		bill(2, day(2024, 3, 1), "300", "30", withBuyer(1, "A")),
		bill(3, day(2024, 2, 1), "900", "90", withBuyer(2, "B")),
		bill(4, day(2024, 1, 1), "50", "5", withBuyer(3, "C")),
		bill(5, day(2024, 4, 1), "50", "5", withBuyer(3, "C")),
		bill(6, day(2024, 4, 1), "50", "5"),
	}

	got := stats.ProfitabilityAnalysis(bills)

	require.Len(t, got, 2, "single-bill customers are excluded")
	assert.Equal(t, "A", got[0].Customer)
	assert.Equal(t, int64(1), got[0].EntityID)
	assert.Equal(t, int64(2), got[0].TotalOrders)
	assert.Equal(t, "400", got[0].TotalRevenue.String())
	assert.Equal(t, "200", got[0].AvgOrderValue.Decimal.String())
	assert.Equal(t, day(2024, 1, 1), got[0].FirstOrderDate)
	assert.Equal(t, day(2024, 3, 1), got[0].LastOrderDate)
	assert.Equal(t, "C", got[1].Customer)
	for _, row := range got {
		assert.Greater(t, row.TotalOrders, int64(1))
	}
}

func TestProfitabilityAnalysis_SameNameDifferentBuyers(t *testing.T) {
	bills := []domain.BillFact{
		bill(1, day(2024, 1, 1), "100", "10", withBuyer(7, "Dupont")),
		bill(2, day(2024, 1, 2), "100", "10", withBuyer(7, "Dupont")),
		bill(3, day(2024, 1, 3), "100", "10", withBuyer(2, "Dupont")),
		bill(4, day(2024, 1, 4), "100", "10", withBuyer(2, "Dupont")),
	}

	got := stats.ProfitabilityAnalysis(bills)

	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].EntityID)
	assert.Equal(t, int64(7), got[1].EntityID)
}

func TestViewsAreDeterministic(t *testing.T) {
	bills := []domain.BillFact{
		bill(1, day(2024, 1, 1), "100", "10", withBuyer(1, "A"), withBoat(1, "X")),
		bill(2, day(2024, 1, 2), "100", "10", withBuyer(2, "B"), withBoat(2, "Y")),
		bill(3, day(2024, 2, 3), "100", "10", withBuyer(3, "C"), withBoat(3, "Z")),
	}
	reversed := []domain.BillFact{bills[2], bills[1], bills[0]}

	assert.Equal(t, stats.ByEntity(bills), stats.ByEntity(reversed))
	assert.Equal(t, stats.ByBoat(bills), stats.ByBoat(reversed))
	assert.Equal(t, stats.ByMonth(bills, nil), stats.ByMonth(reversed, nil))
}
