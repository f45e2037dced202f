package services

import (
	portsrepo "github.com/aripa/fish_stats_app/internal/core/ports/repositories"
	portssvc "github.com/aripa/fish_stats_app/internal/core/ports/services"
	"github.com/aripa/fish_stats_app/internal/core/stats"
	"github.com/aripa/fish_stats_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, rules stats.PresentationRules) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Stats = NewStatsService(
		repos.FactRepo,
		WithPresentationRules(rules),
		WithStoreTimeout(cfg.StoreTimeout),
		WithDashboardConcurrency(cfg.DashboardConcurrency),
	)

	return container
}
