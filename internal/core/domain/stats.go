package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ViewName identifies one analytical view.
type ViewName string

const (
	ViewSummary               ViewName = "summary"
	ViewByEntity              ViewName = "by-entity"
	ViewBySpecies             ViewName = "by-species"
	ViewTopFish               ViewName = "top-fish"
	ViewByMonth               ViewName = "by-month"
	ViewByPresentation        ViewName = "by-presentation"
	ViewByBoat                ViewName = "by-boat"
	ViewByPaymentMethod       ViewName = "by-payment-method"
	ViewByStatus              ViewName = "by-status"
	ViewDetailedAnalytics     ViewName = "detailed-analytics"
	ViewPriceAnalysis         ViewName = "price-analysis"
	ViewSeasonalAnalysis      ViewName = "seasonal-analysis"
	ViewPaymentMethodDetail   ViewName = "details-payment-method"
	ViewBillsByBoat           ViewName = "bills-by-boat"
	ViewProfitabilityAnalysis ViewName = "profitability-analysis"

	// Enriched views produced by the derived-metrics pass.
	ViewMonthlyTrends         ViewName = "monthly-trends"
	ViewEntityPerformance     ViewName = "entity-performance"
	ViewPresentationBreakdown ViewName = "presentation-breakdown"
	ViewKPIs                  ViewName = "kpis"
)

// AllViews lists every view RunView can dispatch, in display order.
var AllViews = []ViewName{
	ViewSummary, ViewByEntity, ViewBySpecies, ViewTopFish, ViewByMonth,
	ViewByPresentation, ViewByBoat, ViewByPaymentMethod, ViewByStatus,
	ViewDetailedAnalytics, ViewPriceAnalysis, ViewSeasonalAnalysis,
	ViewPaymentMethodDetail, ViewBillsByBoat, ViewProfitabilityAnalysis,
	ViewMonthlyTrends, ViewEntityPerformance, ViewPresentationBreakdown, ViewKPIs,
}

// ViewOptions are the only caller-supplied parameters of a view.
type ViewOptions struct {
	Timeframe     Timeframe
	PaymentMethod string // required by ViewPaymentMethodDetail
	BoatName      string // required by ViewBillsByBoat

	// Optional keyset pagination for ViewBillsByBoat.
	Limit     int
	PageToken string
}

// Summary is the single-row ledger overview.
type Summary struct {
	NbFactures     int64           `json:"nb_factures"`
	MontantTotal   decimal.Decimal `json:"montant_total"`
	QuantiteTotale decimal.Decimal `json:"quantite_totale"`
}

// EntityTotal is revenue per buyer.
type EntityTotal struct {
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SpeciesWeight is landed weight per species.
type SpeciesWeight struct {
	Species     string          `json:"species"`
	TotalWeight decimal.Decimal `json:"total_weight"`
}

// MonthlyTotal is one YYYY-MM bucket.
type MonthlyTotal struct {
	Month         string              `json:"month"`
	TotalWeight   decimal.Decimal     `json:"total_weight"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	NbFactures    int64               `json:"nb_factures"`
	AvgOrderValue decimal.NullDecimal `json:"avg_order_value"`
}

// PresentationWeight is weight per processing presentation.
type PresentationWeight struct {
	Presentation string          `json:"presentation"`
	TotalWeight  decimal.Decimal `json:"total_weight"`
}

// BoatActivity is bill count, revenue and weight per boat.
type BoatActivity struct {
	Boat         string          `json:"boat"`
	NbFactures   int64           `json:"nb_factures"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalWeight  decimal.Decimal `json:"total_weight"`
}

// PaymentMethodTotal is bill count and amount per payment method.
type PaymentMethodTotal struct {
	PaymentMethod string          `json:"payment_method"`
	Count         int64           `json:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// StatusTotal is bill count and amount per bill status.
type StatusTotal struct {
	Status      string          `json:"status"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// DetailedAnalytics is the single-row window overview.
type DetailedAnalytics struct {
	TotalOrders       int64               `json:"total_orders"`
	TotalRevenue      decimal.Decimal     `json:"total_revenue"`
	TotalWeight       decimal.Decimal     `json:"total_weight"`
	AvgOrderValue     decimal.NullDecimal `json:"avg_order_value"`
	AvgWeightPerOrder decimal.NullDecimal `json:"avg_weight_per_order"`
	UniqueCustomers   int64               `json:"unique_customers"`
	ActiveBoats       int64               `json:"active_boats"`
}

// SpeciesPrice is unit-price statistics per species.
type SpeciesPrice struct {
	Species       string              `json:"species"`
	AvgPricePerKg decimal.NullDecimal `json:"avg_price_per_kg"`
	MinPricePerKg decimal.NullDecimal `json:"min_price_per_kg"`
	MaxPricePerKg decimal.NullDecimal `json:"max_price_per_kg"`
	TotalWeight   decimal.Decimal     `json:"total_weight"`
	NbOrders      int64               `json:"nb_orders"`
}

// SeasonalMonth aggregates one calendar month across the trailing year.
type SeasonalMonth struct {
	MonthNum      int                 `json:"month_num"`
	MonthName     string              `json:"month_name"`
	TotalWeight   decimal.Decimal     `json:"total_weight"`
	TotalRevenue  decimal.Decimal     `json:"total_revenue"`
	TotalOrders   int64               `json:"total_orders"`
	AvgOrderValue decimal.NullDecimal `json:"avg_order_value"`
}

// PresentationDetail is the drill-down of one payment method by presentation.
type PresentationDetail struct {
	Presentation string          `json:"presentation"`
	TotalWeight  decimal.Decimal `json:"total_weight"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	NbOrders     int64           `json:"nb_orders"`
}

// BoatBill is one bill listed for a boat.
type BoatBill struct {
	BillID      int64           `json:"bill_id"`
	Type        string          `json:"type"`
	Total       decimal.Decimal `json:"total"`
	BillingDate time.Time       `json:"billing_date"`
	TotalKg     decimal.Decimal `json:"total_kg"`
	BuyerName   *string         `json:"buyer_name"`
}

// BoatBillsPage is a page of BoatBill rows. NextToken is empty on the last page.
type BoatBillsPage struct {
	Bills     []BoatBill `json:"bills"`
	NextToken string     `json:"nextToken,omitempty"`
}

// CustomerProfitability summarises a repeat customer.
type CustomerProfitability struct {
	Customer       string              `json:"customer"`
	EntityID       int64               `json:"entity_id"`
	TotalOrders    int64               `json:"total_orders"`
	TotalRevenue   decimal.Decimal     `json:"total_revenue"`
	TotalWeight    decimal.Decimal     `json:"total_weight"`
	AvgOrderValue  decimal.NullDecimal `json:"avg_order_value"`
	LastOrderDate  time.Time           `json:"last_order_date"`
	FirstOrderDate time.Time           `json:"first_order_date"`
}

// MonthlyTrend is a MonthlyTotal enriched with period-over-period growth.
type MonthlyTrend struct {
	MonthlyTotal
	WeightGrowth decimal.NullDecimal `json:"weight_growth"`
	AmountGrowth decimal.NullDecimal `json:"amount_growth"`
}

// EntityShare is an EntityTotal enriched with its market share.
type EntityShare struct {
	EntityTotal
	MarketShare decimal.NullDecimal `json:"market_share"`
}

// PresentationLevel is the ordinal processing stage of a presentation.
type PresentationLevel int

const (
	LevelWhole PresentationLevel = iota
	LevelGutted
	LevelProcessed
)

// Label returns the display label used by the dashboard ("Niveau 0", ...).
func (l PresentationLevel) Label() string {
	switch l {
	case LevelWhole:
		return "Niveau 0"
	case LevelGutted:
		return "Niveau 1"
	default:
		return "Niveau 2"
	}
}

// PresentationShare is a PresentationWeight enriched with level and share.
type PresentationShare struct {
	PresentationWeight
	Level      PresentationLevel   `json:"level"`
	LevelLabel string              `json:"level_label"`
	Percentage decimal.NullDecimal `json:"percentage"`
}

// NoTopClient is reported when no buyer has any revenue row.
const NoTopClient = "N/A"

// KPIs combines Summary, ByEntity and ByMonth into headline figures.
type KPIs struct {
	TotalOrders        int64               `json:"total_orders"`
	TotalRevenue       decimal.Decimal     `json:"total_revenue"`
	AvgOrderValue      decimal.NullDecimal `json:"avg_order_value"`
	AvgKgPerOrder      decimal.NullDecimal `json:"avg_kg_per_order"`
	AvgPricePerKg      decimal.NullDecimal `json:"avg_price_per_kg"`
	TopClient          string              `json:"top_client"`
	MonthsCovered      int                 `json:"months_covered"`
	LatestAmountGrowth decimal.NullDecimal `json:"latest_amount_growth"`
	LatestWeightGrowth decimal.NullDecimal `json:"latest_weight_growth"`
}

// DashboardViews are the views refreshed together by a dashboard request.
var DashboardViews = []ViewName{
	ViewSummary, ViewByMonth, ViewByEntity, ViewByBoat,
	ViewByPaymentMethod, ViewByStatus, ViewTopFish, ViewByPresentation,
}

// ViewResult is one slot of a dashboard: either Data or Error is set.
type ViewResult struct {
	View  ViewName `json:"view"`
	Data  any      `json:"data,omitempty"`
	Error string   `json:"error,omitempty"`
}

// Dashboard is the fan-in of a dashboard refresh, in DashboardViews order.
// KPIs is nil when one of its input views failed.
type Dashboard struct {
	Timeframe   Timeframe    `json:"timeframe"`
	GeneratedAt time.Time    `json:"generated_at"`
	Views       []ViewResult `json:"views"`
	KPIs        *KPIs        `json:"kpis,omitempty"`
}
