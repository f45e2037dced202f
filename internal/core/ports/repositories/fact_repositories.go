package repositories

import (
	"context"

	"github.com/aripa/fish_stats_app/internal/core/domain"
)

// BillReader reads bills joined with their buyer and boat names.
type BillReader interface {
	// ListBills returns the bills matching filter in no particular order.
	ListBills(ctx context.Context, filter domain.FactFilter) ([]domain.BillFact, error)
}

// BillLineReader reads bill lines joined with species and bill attributes.
type BillLineReader interface {
	// ListBillLines returns the lines of the bills matching filter.
	ListBillLines(ctx context.Context, filter domain.FactFilter) ([]domain.LineFact, error)
}

// FactSnapshotReader reads bills and lines from a single consistent snapshot.
type FactSnapshotReader interface {
	ListBillsAndLines(ctx context.Context, filter domain.FactFilter) ([]domain.BillFact, []domain.LineFact, error)
}

// BoatReader resolves boats by name.
type BoatReader interface {
	// FindBoatByName matches name case-insensitively. It returns apperrors.ErrNotFound
	// when no boat has that name.
	FindBoatByName(ctx context.Context, name string) (*domain.Boat, error)
}

// FactRepositoryFacade is the read-only fact store the statistics service depends on.
type FactRepositoryFacade interface {
	BillReader
	BillLineReader
	FactSnapshotReader
	BoatReader
}
