package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillRow is a bill row joined with its buyer and boat names.
type BillRow struct {
	BillID        int64           `json:"billID"`
	BuyerID       *int64          `json:"buyerID"` // NULL when the bill has no buyer
	BoatID        int64           `json:"boatID"`
	BillingDate   time.Time       `json:"billingDate"`
	Total         decimal.Decimal `json:"total"`
	TotalKg       decimal.Decimal `json:"totalKg"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	BuyerName     *string         `json:"buyerName"`
	BoatName      string          `json:"boatName"`
}

// LineRow is a bill_line row joined with its species and parent bill.
type LineRow struct {
	BillID        int64           `json:"billID"`
	FishID        int64           `json:"fishID"`
	Presentation  string          `json:"presentation"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	FishName      string          `json:"fishName"`
	BillingDate   time.Time       `json:"billingDate"`
	PaymentMethod string          `json:"paymentMethod"`
}

// Boat represents a boat row.
type Boat struct {
	BoatID int64  `json:"boatID"`
	Name   string `json:"name"`
}
