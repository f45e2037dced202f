package pgsql

import (
	portsrepo "github.com/aripa/fish_stats_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx-backed repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		FactRepo: newPgxFactRepository(dbPool),
	}
}
