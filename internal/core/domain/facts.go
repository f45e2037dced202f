package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entity is a buyer registered at the auction.
type Entity struct {
	EntityID int64  `json:"entityID"`
	Name     string `json:"name"`
}

// Boat is a vessel landing fish.
type Boat struct {
	BoatID int64  `json:"boatID"`
	Name   string `json:"name"`
}

// Fish is a traded species.
type Fish struct {
	FishID int64  `json:"fishID"`
	Name   string `json:"name"`
}

// Bill is one invoice as stored in the fact store. It is never mutated by the engine.
type Bill struct {
	BillID        int64           `json:"billID"`
	BuyerID       *int64          `json:"buyerID"` // Nullable FK -> entity.entity_id
	BoatID        int64           `json:"boatID"`
	BillingDate   time.Time       `json:"billingDate"`
	Total         decimal.Decimal `json:"total"`
	TotalKg       decimal.Decimal `json:"totalKg"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
}

// BillLine is one species line inside a bill.
type BillLine struct {
	BillID       int64           `json:"billID"`
	FishID       int64           `json:"fishID"`
	Presentation string          `json:"presentation"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

// BillFact is a bill joined with the names of its buyer and boat.
type BillFact struct {
	Bill
	BuyerName *string `json:"buyerName"` // nil when the bill has no buyer
	BoatName  string  `json:"boatName"`
}

// HasBuyer reports whether the bill references a buyer.
func (b BillFact) HasBuyer() bool {
	return b.BuyerID != nil && b.BuyerName != nil
}

// LineFact is a bill line joined with its species name and the bill attributes
// the line-level views group or filter on.
type LineFact struct {
	BillLine
	FishName      string    `json:"fishName"`
	BillingDate   time.Time `json:"billingDate"`
	PaymentMethod string    `json:"paymentMethod"`
}

// UnitPrice returns price/quantity and false when quantity is not positive.
func (l LineFact) UnitPrice() (decimal.Decimal, bool) {
	if !l.Quantity.IsPositive() {
		return decimal.Zero, false
	}
	return l.Price.Div(l.Quantity), true
}

// FactFilter restricts which fact rows the store returns.
// Zero values mean "no restriction".
type FactFilter struct {
	Since         *time.Time // billing_date >= Since
	PaymentMethod string     // exact match on bill.payment_method
	BoatName      string     // case-insensitive match on boat.name
}
