package mapping

import (
	"github.com/aripa/fish_stats_app/internal/core/domain"
	"github.com/aripa/fish_stats_app/internal/models"
)

// ToDomainBillFact converts a model BillRow to a domain BillFact
func ToDomainBillFact(m models.BillRow) domain.BillFact {
	return domain.BillFact{
		Bill: domain.Bill{
			BillID:        m.BillID,
			BuyerID:       m.BuyerID,
			BoatID:        m.BoatID,
			BillingDate:   m.BillingDate,
			Total:         m.Total,
			TotalKg:       m.TotalKg,
			PaymentMethod: m.PaymentMethod,
			Status:        m.Status,
		},
		BuyerName: m.BuyerName,
		BoatName:  m.BoatName,
	}
}

// ToDomainBillFactSlice converts a slice of model BillRows to domain BillFacts
func ToDomainBillFactSlice(ms []models.BillRow) []domain.BillFact {
	ds := make([]domain.BillFact, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBillFact(m)
	}
	return ds
}

// ToDomainLineFact converts a model LineRow to a domain LineFact
func ToDomainLineFact(m models.LineRow) domain.LineFact {
	return domain.LineFact{
		BillLine: domain.BillLine{
			BillID:       m.BillID,
			FishID:       m.FishID,
			Presentation: m.Presentation,
			Quantity:     m.Quantity,
			Price:        m.Price,
		},
		FishName:      m.FishName,
		BillingDate:   m.BillingDate,
		PaymentMethod: m.PaymentMethod,
	}
}

// ToDomainLineFactSlice converts a slice of model LineRows to domain LineFacts
func ToDomainLineFactSlice(ms []models.LineRow) []domain.LineFact {
	ds := make([]domain.LineFact, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLineFact(m)
	}
	return ds
}

// ToDomainBoat converts a model Boat to a domain Boat
func ToDomainBoat(m models.Boat) domain.Boat {
	return domain.Boat{
		BoatID: m.BoatID,
		Name:   m.Name,
	}
}
