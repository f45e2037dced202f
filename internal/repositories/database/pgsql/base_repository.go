package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/aripa/fish_stats_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// BeginReadOnly starts a read-only repeatable-read transaction so that several
// queries observe the same snapshot.
func (r *BaseRepository) BeginReadOnly(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, storeError("failed to begin read-only transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return storeError("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return storeError("failed to rollback transaction", err)
	}
	return nil
}

// storeError marks err as a fact store failure.
func storeError(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, msg, err)
}
