package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/aripa/fish_stats_app/internal/core/domain"
	"github.com/aripa/fish_stats_app/internal/core/stats"
	"github.com/aripa/fish_stats_app/internal/platform/metrics"
	"golang.org/x/sync/errgroup"
)

// Dashboard evaluates domain.DashboardViews concurrently over the same window.
// Each view fills its own slot, so a failing view leaves the others untouched.
func (s *statsService) Dashboard(ctx context.Context, tf domain.Timeframe) (*domain.Dashboard, error) {
	start := time.Now()
	// Reject a bad timeframe once instead of once per view
	if _, err := s.window(tf); err != nil {
		return nil, err
	}
	parsed, _ := domain.ParseTimeframe(string(tf))

	results := make([]domain.ViewResult, len(domain.DashboardViews))
	data := make([]any, len(domain.DashboardViews))
	failed := make([]bool, len(domain.DashboardViews))

	var g errgroup.Group
	g.SetLimit(s.dashboardConcurrency)
	for i, view := range domain.DashboardViews {
		i, view := i, view
		g.Go(func() error {
			out, err := s.RunView(ctx, view, domain.ViewOptions{Timeframe: parsed})
			results[i] = domain.ViewResult{View: view}
			if err != nil {
				failed[i] = true
				results[i].Error = err.Error()
				s.LogError(ctx, err, "Dashboard view failed", slog.String("view", string(view)))
				return nil
			}
			data[i] = out
			results[i].Data = out
			return nil
		})
	}
	// Workers never return an error; failures live in their slots.
	_ = g.Wait()

	dashboard := &domain.Dashboard{
		Timeframe:   parsed,
		GeneratedAt: s.now(),
		Views:       results,
		KPIs:        dashboardKPIs(data, failed),
	}

	failures := 0
	for _, f := range failed {
		if f {
			failures++
		}
	}
	metrics.ObserveDashboard(time.Since(start))
	s.LogInfo(ctx, "Dashboard generated",
		slog.String("timeframe", string(parsed)),
		slog.Int("view_count", len(results)),
		slog.Int("failed_views", failures))
	return dashboard, nil
}

// dashboardKPIs builds the KPI composite from the dashboard's own Summary,
// ByEntity and ByMonth slots. It returns nil when any of them failed.
func dashboardKPIs(data []any, failed []bool) *domain.KPIs {
	var (
		summary  domain.Summary
		entities []domain.EntityTotal
		months   []domain.MonthlyTotal
		found    int
	)
	for i := range domain.DashboardViews {
		if failed[i] {
			continue
		}
		switch v := data[i].(type) {
		case domain.Summary:
			summary = v
			found++
		case []domain.EntityTotal:
			entities = v
			found++
		case []domain.MonthlyTotal:
			months = v
			found++
		}
	}
	if found < 3 {
		return nil
	}
	kpis := stats.BuildKPIs(summary, entities, months)
	return &kpis
}
