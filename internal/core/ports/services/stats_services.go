package services

import (
	"context"

	"github.com/aripa/fish_stats_app/internal/core/domain"
)

// StatsViewSvc computes one analytical view per method.
type StatsViewSvc interface {
	Summary(ctx context.Context, tf domain.Timeframe) (domain.Summary, error)
	ByEntity(ctx context.Context, tf domain.Timeframe) ([]domain.EntityTotal, error)
	BySpecies(ctx context.Context, tf domain.Timeframe) ([]domain.SpeciesWeight, error)
	TopFish(ctx context.Context, tf domain.Timeframe) ([]domain.SpeciesWeight, error)
	ByMonth(ctx context.Context, tf domain.Timeframe) ([]domain.MonthlyTotal, error)
	ByPresentation(ctx context.Context, tf domain.Timeframe) ([]domain.PresentationWeight, error)
	ByBoat(ctx context.Context, tf domain.Timeframe) ([]domain.BoatActivity, error)
	ByPaymentMethod(ctx context.Context, tf domain.Timeframe) ([]domain.PaymentMethodTotal, error)
	ByStatus(ctx context.Context, tf domain.Timeframe) ([]domain.StatusTotal, error)
	DetailedAnalytics(ctx context.Context, tf domain.Timeframe) (domain.DetailedAnalytics, error)
	PriceAnalysis(ctx context.Context, tf domain.Timeframe) ([]domain.SpeciesPrice, error)
	SeasonalAnalysis(ctx context.Context, tf domain.Timeframe) ([]domain.SeasonalMonth, error)
	ProfitabilityAnalysis(ctx context.Context, tf domain.Timeframe) ([]domain.CustomerProfitability, error)

	// PaymentMethodDetail fails with apperrors.ErrValidation for an empty method
	// and apperrors.ErrNotFound when no line was paid with it.
	PaymentMethodDetail(ctx context.Context, method string, tf domain.Timeframe) ([]domain.PresentationDetail, error)

	// BillsByBoat fails with apperrors.ErrValidation for an empty boat name and
	// apperrors.ErrNotFound when no boat has that name.
	BillsByBoat(ctx context.Context, opts domain.ViewOptions) (domain.BoatBillsPage, error)
}

// StatsEnrichedSvc returns base views enriched with second-pass metrics.
type StatsEnrichedSvc interface {
	MonthlyTrends(ctx context.Context, tf domain.Timeframe) ([]domain.MonthlyTrend, error)
	EntityPerformance(ctx context.Context, tf domain.Timeframe) ([]domain.EntityShare, error)
	PresentationBreakdown(ctx context.Context, tf domain.Timeframe) ([]domain.PresentationShare, error)
	KPIs(ctx context.Context, tf domain.Timeframe) (domain.KPIs, error)
}

// StatsSvcFacade is the query façade of the statistics engine.
type StatsSvcFacade interface {
	StatsViewSvc
	StatsEnrichedSvc

	// RunView dispatches to the typed method of name. Unknown names fail with
	// apperrors.ErrValidation.
	RunView(ctx context.Context, name domain.ViewName, opts domain.ViewOptions) (any, error)

	// Dashboard evaluates the dashboard views concurrently. A failing view is
	// reported in its own slot and never fails the whole call.
	Dashboard(ctx context.Context, tf domain.Timeframe) (*domain.Dashboard, error)
}
