package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/aripa/fish_stats_app/internal/apperrors"
	"github.com/aripa/fish_stats_app/internal/core/domain"
	portsrepo "github.com/aripa/fish_stats_app/internal/core/ports/repositories"
	portssvc "github.com/aripa/fish_stats_app/internal/core/ports/services"
	"github.com/aripa/fish_stats_app/internal/core/stats"
	"github.com/aripa/fish_stats_app/internal/platform/metrics"
	"github.com/aripa/fish_stats_app/internal/utils/pagination"
)

const defaultDashboardConcurrency = 4

// statsService implements the StatsSvcFacade interface
type statsService struct {
	BaseService
	factRepo             portsrepo.FactRepositoryFacade
	classifier           *stats.Classifier
	now                  func() time.Time
	storeTimeout         time.Duration
	dashboardConcurrency int
}

// StatsServiceOption is a functional option for configuring the stats service
type StatsServiceOption func(*statsService)

// WithClock sets the clock used to resolve timeframes.
func WithClock(now func() time.Time) StatsServiceOption {
	return func(s *statsService) {
		s.now = now
	}
}

// WithPresentationRules sets the markers used to classify presentations.
func WithPresentationRules(rules stats.PresentationRules) StatsServiceOption {
	return func(s *statsService) {
		s.classifier = stats.NewClassifier(rules)
	}
}

// WithStoreTimeout bounds every fact store round trip. Zero disables the bound.
func WithStoreTimeout(d time.Duration) StatsServiceOption {
	return func(s *statsService) {
		s.storeTimeout = d
	}
}

// WithDashboardConcurrency caps the number of views a dashboard evaluates at once.
func WithDashboardConcurrency(n int) StatsServiceOption {
	return func(s *statsService) {
		if n > 0 {
			s.dashboardConcurrency = n
		}
	}
}

// NewStatsService creates a new stats service with the provided options
func NewStatsService(repo portsrepo.FactRepositoryFacade, options ...StatsServiceOption) portssvc.StatsSvcFacade {
	svc := &statsService{
		factRepo:             repo,
		classifier:           stats.NewClassifier(stats.DefaultPresentationRules()),
		now:                  time.Now,
		dashboardConcurrency: defaultDashboardConcurrency,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure statsService implements the StatsSvcFacade interface
var _ portssvc.StatsSvcFacade = (*statsService)(nil)

// observe runs fn and records its outcome under view.
func observe[T any](ctx context.Context, s *statsService, view domain.ViewName, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	rows := rowCount(out)
	metrics.ObserveView(string(view), metrics.ResultOf(err), rows, time.Since(start))
	if err != nil {
		return out, err
	}
	s.LogDebug(ctx, "View computed",
		slog.String("view", string(view)),
		slog.Int("row_count", rows),
		slog.Duration("duration", time.Since(start)))
	return out, nil
}

func rowCount(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Len()
	case reflect.Invalid:
		return 0
	}
	if page, ok := v.(domain.BoatBillsPage); ok {
		return len(page.Bills)
	}
	return 1
}

// window resolves tf into a store filter relative to the service clock.
func (s *statsService) window(tf domain.Timeframe) (domain.FactFilter, error) {
	parsed, err := domain.ParseTimeframe(string(tf))
	if err != nil {
		return domain.FactFilter{}, apperrors.Validationf("%s", err.Error())
	}
	var filter domain.FactFilter
	if since, ok := parsed.Since(s.now()); ok {
		filter.Since = &since
	}
	return filter, nil
}

func (s *statsService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func filterAttrs(view domain.ViewName, filter domain.FactFilter) []any {
	attrs := []any{slog.String("view", string(view))}
	if filter.Since != nil {
		attrs = append(attrs, slog.String("since", filter.Since.Format(time.DateOnly)))
	}
	if filter.PaymentMethod != "" {
		attrs = append(attrs, slog.String("payment_method", filter.PaymentMethod))
	}
	if filter.BoatName != "" {
		attrs = append(attrs, slog.String("boat", filter.BoatName))
	}
	return attrs
}

func (s *statsService) bills(ctx context.Context, view domain.ViewName, filter domain.FactFilter) ([]domain.BillFact, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	bills, err := s.factRepo.ListBills(storeCtx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve bills", filterAttrs(view, filter)...)
		return nil, fmt.Errorf("failed to retrieve bills for %s: %w", view, err)
	}
	return bills, nil
}

func (s *statsService) lines(ctx context.Context, view domain.ViewName, filter domain.FactFilter) ([]domain.LineFact, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	lines, err := s.factRepo.ListBillLines(storeCtx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve bill lines", filterAttrs(view, filter)...)
		return nil, fmt.Errorf("failed to retrieve bill lines for %s: %w", view, err)
	}
	return lines, nil
}

func (s *statsService) snapshot(ctx context.Context, view domain.ViewName, filter domain.FactFilter) ([]domain.BillFact, []domain.LineFact, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	bills, lines, err := s.factRepo.ListBillsAndLines(storeCtx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve fact snapshot", filterAttrs(view, filter)...)
		return nil, nil, fmt.Errorf("failed to retrieve fact snapshot for %s: %w", view, err)
	}
	return bills, lines, nil
}

// billView builds a view computed from bills only.
func billView[T any](ctx context.Context, s *statsService, view domain.ViewName, tf domain.Timeframe, compute func([]domain.BillFact) T) (T, error) {
	return observe(ctx, s, view, func() (T, error) {
		var zero T
		filter, err := s.window(tf)
		if err != nil {
			return zero, err
		}
		bills, err := s.bills(ctx, view, filter)
		if err != nil {
			return zero, err
		}
		return compute(bills), nil
	})
}

// lineView builds a view computed from bill lines only.
func lineView[T any](ctx context.Context, s *statsService, view domain.ViewName, tf domain.Timeframe, compute func([]domain.LineFact) T) (T, error) {
	return observe(ctx, s, view, func() (T, error) {
		var zero T
		filter, err := s.window(tf)
		if err != nil {
			return zero, err
		}
		lines, err := s.lines(ctx, view, filter)
		if err != nil {
			return zero, err
		}
		return compute(lines), nil
	})
}

// Summary returns the bill count, total amount and total weight.
func (s *statsService) Summary(ctx context.Context, tf domain.Timeframe) (domain.Summary, error) {
	return billView(ctx, s, domain.ViewSummary, tf, stats.Summary)
}

// ByEntity returns revenue per buyer.
func (s *statsService) ByEntity(ctx context.Context, tf domain.Timeframe) ([]domain.EntityTotal, error) {
	return billView(ctx, s, domain.ViewByEntity, tf, stats.ByEntity)
}

// BySpecies returns weight per species.
func (s *statsService) BySpecies(ctx context.Context, tf domain.Timeframe) ([]domain.SpeciesWeight, error) {
	return lineView(ctx, s, domain.ViewBySpecies, tf, stats.BySpecies)
}

// TopFish returns the heaviest species.
func (s *statsService) TopFish(ctx context.Context, tf domain.Timeframe) ([]domain.SpeciesWeight, error) {
	return lineView(ctx, s, domain.ViewTopFish, tf, stats.TopFish)
}

// ByMonth returns the monthly series, oldest month first.
func (s *statsService) ByMonth(ctx context.Context, tf domain.Timeframe) ([]domain.MonthlyTotal, error) {
	return observe(ctx, s, domain.ViewByMonth, func() ([]domain.MonthlyTotal, error) {
		return s.byMonth(ctx, domain.ViewByMonth, tf)
	})
}

func (s *statsService) byMonth(ctx context.Context, view domain.ViewName, tf domain.Timeframe) ([]domain.MonthlyTotal, error) {
	filter, err := s.window(tf)
	if err != nil {
		return nil, err
	}
	bills, lines, err := s.snapshot(ctx, view, filter)
	if err != nil {
		return nil, err
	}
	return stats.ByMonth(bills, lines), nil
}

// ByPresentation returns weight per presentation label.
func (s *statsService) ByPresentation(ctx context.Context, tf domain.Timeframe) ([]domain.PresentationWeight, error) {
	return lineView(ctx, s, domain.ViewByPresentation, tf, stats.ByPresentation)
}

// ByBoat returns activity per boat.
func (s *statsService) ByBoat(ctx context.Context, tf domain.Timeframe) ([]domain.BoatActivity, error) {
	return billView(ctx, s, domain.ViewByBoat, tf, stats.ByBoat)
}

// ByPaymentMethod returns bill count and amount per payment method.
func (s *statsService) ByPaymentMethod(ctx context.Context, tf domain.Timeframe) ([]domain.PaymentMethodTotal, error) {
	return billView(ctx, s, domain.ViewByPaymentMethod, tf, stats.ByPaymentMethod)
}

// ByStatus returns bill count and amount per status.
func (s *statsService) ByStatus(ctx context.Context, tf domain.Timeframe) ([]domain.StatusTotal, error) {
	return billView(ctx, s, domain.ViewByStatus, tf, stats.ByStatus)
}

// DetailedAnalytics returns the single-row overview of the window.
func (s *statsService) DetailedAnalytics(ctx context.Context, tf domain.Timeframe) (domain.DetailedAnalytics, error) {
	return billView(ctx, s, domain.ViewDetailedAnalytics, tf, stats.DetailedAnalytics)
}

// PriceAnalysis returns unit-price statistics per species.
func (s *statsService) PriceAnalysis(ctx context.Context, tf domain.Timeframe) ([]domain.SpeciesPrice, error) {
	return lineView(ctx, s, domain.ViewPriceAnalysis, tf, stats.PriceAnalysis)
}

// SeasonalAnalysis groups the trailing twelve months by calendar month. A
// narrower timeframe shortens the window further.
func (s *statsService) SeasonalAnalysis(ctx context.Context, tf domain.Timeframe) ([]domain.SeasonalMonth, error) {
	return observe(ctx, s, domain.ViewSeasonalAnalysis, func() ([]domain.SeasonalMonth, error) {
		filter, err := s.window(tf)
		if err != nil {
			return nil, err
		}
		since := domain.SubtractMonths(domain.StartOfDay(s.now()), stats.SeasonalWindowMonths)
		if filter.Since != nil && filter.Since.After(since) {
			since = *filter.Since
		}
		filter.Since = &since

		bills, err := s.bills(ctx, domain.ViewSeasonalAnalysis, filter)
		if err != nil {
			return nil, err
		}
		return stats.SeasonalAnalysis(bills, since), nil
	})
}

// ProfitabilityAnalysis ranks repeat customers by revenue.
func (s *statsService) ProfitabilityAnalysis(ctx context.Context, tf domain.Timeframe) ([]domain.CustomerProfitability, error) {
	return billView(ctx, s, domain.ViewProfitabilityAnalysis, tf, stats.ProfitabilityAnalysis)
}

// PaymentMethodDetail breaks one payment method down by presentation.
func (s *statsService) PaymentMethodDetail(ctx context.Context, method string, tf domain.Timeframe) ([]domain.PresentationDetail, error) {
	return observe(ctx, s, domain.ViewPaymentMethodDetail, func() ([]domain.PresentationDetail, error) {
		method = strings.TrimSpace(method)
		if method == "" {
			return nil, apperrors.Validationf("payment method is required")
		}
		filter, err := s.window(tf)
		if err != nil {
			return nil, err
		}
		filter.PaymentMethod = method

		lines, err := s.lines(ctx, domain.ViewPaymentMethodDetail, filter)
		if err != nil {
			return nil, err
		}
		rows := stats.PaymentMethodDetail(lines, method)
		if len(rows) == 0 {
			s.LogInfo(ctx, "No sales found for payment method", slog.String("payment_method", method))
			return nil, apperrors.NotFoundf("no sales recorded for payment method %q", method)
		}
		return rows, nil
	})
}

// BillsByBoat lists the bills of one boat, newest first. With opts.Limit set the
// result is paginated and NextToken points after the last returned bill.
func (s *statsService) BillsByBoat(ctx context.Context, opts domain.ViewOptions) (domain.BoatBillsPage, error) {
	return observe(ctx, s, domain.ViewBillsByBoat, func() (domain.BoatBillsPage, error) {
		name := strings.TrimSpace(opts.BoatName)
		if name == "" {
			return domain.BoatBillsPage{}, apperrors.Validationf("boat name is required")
		}
		if opts.Limit < 0 {
			return domain.BoatBillsPage{}, apperrors.Validationf("limit must not be negative")
		}
		filter, err := s.window(opts.Timeframe)
		if err != nil {
			return domain.BoatBillsPage{}, err
		}

		storeCtx, cancel := s.storeCtx(ctx)
		boat, err := s.factRepo.FindBoatByName(storeCtx, name)
		cancel()
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				s.LogError(ctx, err, "Failed to look up boat", slog.String("boat", name))
			}
			return domain.BoatBillsPage{}, fmt.Errorf("failed to find boat %q: %w", name, err)
		}
		filter.BoatName = boat.Name

		bills, err := s.bills(ctx, domain.ViewBillsByBoat, filter)
		if err != nil {
			return domain.BoatBillsPage{}, err
		}
		return paginateBoatBills(stats.BillsByBoat(bills, boat.Name), opts.Limit, opts.PageToken)
	})
}

// paginateBoatBills cuts rows, ordered by billing date desc then bill id asc,
// into the page that follows token.
func paginateBoatBills(rows []domain.BoatBill, limit int, token string) (domain.BoatBillsPage, error) {
	if token != "" {
		afterDate, afterID, err := pagination.DecodeToken(token)
		if err != nil {
			return domain.BoatBillsPage{}, apperrors.Validationf("%s", err.Error())
		}
		start := len(rows)
		for i, row := range rows {
			if row.BillingDate.Before(afterDate) || (row.BillingDate.Equal(afterDate) && row.BillID > afterID) {
				start = i
				break
			}
		}
		rows = rows[start:]
	}

	if limit <= 0 || len(rows) <= limit {
		return domain.BoatBillsPage{Bills: rows}, nil
	}
	page := rows[:limit]
	last := page[len(page)-1]
	return domain.BoatBillsPage{
		Bills:     page,
		NextToken: pagination.EncodeToken(last.BillingDate, last.BillID),
	}, nil
}

// MonthlyTrends returns the monthly series with growth on weight and amount.
func (s *statsService) MonthlyTrends(ctx context.Context, tf domain.Timeframe) ([]domain.MonthlyTrend, error) {
	return observe(ctx, s, domain.ViewMonthlyTrends, func() ([]domain.MonthlyTrend, error) {
		months, err := s.byMonth(ctx, domain.ViewMonthlyTrends, tf)
		if err != nil {
			return nil, err
		}
		return stats.MonthlyTrends(months), nil
	})
}

// EntityPerformance returns revenue per buyer with market share.
func (s *statsService) EntityPerformance(ctx context.Context, tf domain.Timeframe) ([]domain.EntityShare, error) {
	return billView(ctx, s, domain.ViewEntityPerformance, tf, func(bills []domain.BillFact) []domain.EntityShare {
		return stats.EntityPerformance(stats.ByEntity(bills))
	})
}

// PresentationBreakdown returns weight per presentation with level and share.
func (s *statsService) PresentationBreakdown(ctx context.Context, tf domain.Timeframe) ([]domain.PresentationShare, error) {
	return lineView(ctx, s, domain.ViewPresentationBreakdown, tf, func(lines []domain.LineFact) []domain.PresentationShare {
		return stats.PresentationBreakdown(stats.ByPresentation(lines), s.classifier)
	})
}

// KPIs returns the headline figures computed from one fact snapshot.
func (s *statsService) KPIs(ctx context.Context, tf domain.Timeframe) (domain.KPIs, error) {
	return observe(ctx, s, domain.ViewKPIs, func() (domain.KPIs, error) {
		filter, err := s.window(tf)
		if err != nil {
			return domain.KPIs{}, err
		}
		bills, lines, err := s.snapshot(ctx, domain.ViewKPIs, filter)
		if err != nil {
			return domain.KPIs{}, err
		}
		return stats.BuildKPIs(stats.Summary(bills), stats.ByEntity(bills), stats.ByMonth(bills, lines)), nil
	})
}

// RunView dispatches name to its typed method.
func (s *statsService) RunView(ctx context.Context, name domain.ViewName, opts domain.ViewOptions) (any, error) {
	tf := opts.Timeframe
	switch name {
	case domain.ViewSummary:
		return s.Summary(ctx, tf)
	case domain.ViewByEntity:
		return s.ByEntity(ctx, tf)
	case domain.ViewBySpecies:
		return s.BySpecies(ctx, tf)
	case domain.ViewTopFish:
		return s.TopFish(ctx, tf)
	case domain.ViewByMonth:
		return s.ByMonth(ctx, tf)
	case domain.ViewByPresentation:
		return s.ByPresentation(ctx, tf)
	case domain.ViewByBoat:
		return s.ByBoat(ctx, tf)
	case domain.ViewByPaymentMethod:
		return s.ByPaymentMethod(ctx, tf)
	case domain.ViewByStatus:
		return s.ByStatus(ctx, tf)
	case domain.ViewDetailedAnalytics:
		return s.DetailedAnalytics(ctx, tf)
	case domain.ViewPriceAnalysis:
		return s.PriceAnalysis(ctx, tf)
	case domain.ViewSeasonalAnalysis:
		return s.SeasonalAnalysis(ctx, tf)
	case domain.ViewPaymentMethodDetail:
		return s.PaymentMethodDetail(ctx, opts.PaymentMethod, tf)
	case domain.ViewBillsByBoat:
		return s.BillsByBoat(ctx, opts)
	case domain.ViewProfitabilityAnalysis:
		return s.ProfitabilityAnalysis(ctx, tf)
	case domain.ViewMonthlyTrends:
		return s.MonthlyTrends(ctx, tf)
	case domain.ViewEntityPerformance:
		return s.EntityPerformance(ctx, tf)
	case domain.ViewPresentationBreakdown:
		return s.PresentationBreakdown(ctx, tf)
	case domain.ViewKPIs:
		return s.KPIs(ctx, tf)
	}
	return nil, apperrors.Validationf("unknown view %q", name)
}
