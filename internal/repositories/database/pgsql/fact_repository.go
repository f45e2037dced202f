package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aripa/fish_stats_app/internal/apperrors"
	"github.com/aripa/fish_stats_app/internal/core/domain"
	portsrepo "github.com/aripa/fish_stats_app/internal/core/ports/repositories"
	"github.com/aripa/fish_stats_app/internal/models"
	"github.com/aripa/fish_stats_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const billFactsQuery = `
	SELECT
		b.bill_id,
		b.buyer_id,
		b.boat_id,
		b.billing_date,
		b.total,
		b.total_kg,
		b.payment_method,
		b.status,
		e.name AS buyer_name,
		bt.name AS boat_name
	FROM bill b
	JOIN boat bt ON b.boat_id = bt.boat_id
	LEFT JOIN entity e ON b.buyer_id = e.entity_id`

const lineFactsQuery = `
	SELECT
		bl.bill_id,
		bl.fish_id,
		bl.presentation,
		bl.quantity,
		bl.price,
		f.name AS fish_name,
		b.billing_date,
		b.payment_method
	FROM bill_line bl
	JOIN fish f ON bl.fish_id = f.fish_id
	JOIN bill b ON bl.bill_id = b.bill_id
	JOIN boat bt ON b.boat_id = bt.boat_id`

// PgxFactRepository reads the auction's fact tables.
type PgxFactRepository struct {
	BaseRepository
}

func newPgxFactRepository(pool *pgxpool.Pool) portsrepo.FactRepositoryFacade {
	return &PgxFactRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.FactRepositoryFacade = (*PgxFactRepository)(nil)

// whereClause renders filter as a WHERE clause over the b (bill) and bt (boat) aliases.
func whereClause(filter domain.FactFilter) (string, []any) {
	var conds []string
	args := []any{}
	argNum := 1

	if filter.Since != nil {
		conds = append(conds, fmt.Sprintf("b.billing_date >= $%d", argNum))
		args = append(args, *filter.Since)
		argNum++
	}
	if filter.PaymentMethod != "" {
		conds = append(conds, fmt.Sprintf("b.payment_method = $%d", argNum))
		args = append(args, filter.PaymentMethod)
		argNum++
	}
	if filter.BoatName != "" {
		conds = append(conds, fmt.Sprintf("LOWER(bt.name) = LOWER($%d)", argNum))
		args = append(args, filter.BoatName)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListBills returns the bills matching filter joined with buyer and boat names.
func (r *PgxFactRepository) ListBills(ctx context.Context, filter domain.FactFilter) ([]domain.BillFact, error) {
	return listBills(ctx, r.Pool, filter)
}

// ListBillLines returns the lines of the bills matching filter.
func (r *PgxFactRepository) ListBillLines(ctx context.Context, filter domain.FactFilter) ([]domain.LineFact, error) {
	return listBillLines(ctx, r.Pool, filter)
}

// ListBillsAndLines reads bills and lines inside one read-only transaction.
func (r *PgxFactRepository) ListBillsAndLines(ctx context.Context, filter domain.FactFilter) ([]domain.BillFact, []domain.LineFact, error) {
	tx, err := r.BeginReadOnly(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	bills, err := listBills(ctx, tx, filter)
	if err != nil {
		return nil, nil, err
	}
	lines, err := listBillLines(ctx, tx, filter)
	if err != nil {
		return nil, nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return bills, lines, nil
}

// FindBoatByName returns the boat whose name matches case-insensitively.
// When several boats share a name the lowest id wins.
func (r *PgxFactRepository) FindBoatByName(ctx context.Context, name string) (*domain.Boat, error) {
	query := `SELECT boat_id, name FROM boat WHERE LOWER(name) = LOWER($1) ORDER BY boat_id LIMIT 1`

	var boat models.Boat
	err := r.Pool.QueryRow(ctx, query, name).Scan(&boat.BoatID, &boat.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("boat %q not found", name)
		}
		return nil, storeError("failed to query boat", err)
	}
	domainBoat := mapping.ToDomainBoat(boat)
	return &domainBoat, nil
}

func listBills(ctx context.Context, q querier, filter domain.FactFilter) ([]domain.BillFact, error) {
	where, args := whereClause(filter)
	rows, err := q.Query(ctx, billFactsQuery+where, args...)
	if err != nil {
		return nil, storeError("error querying bills", err)
	}
	defer rows.Close()

	result := []models.BillRow{}
	for rows.Next() {
		var row models.BillRow
		if err := rows.Scan(
			&row.BillID,
			&row.BuyerID,
			&row.BoatID,
			&row.BillingDate,
			&row.Total,
			&row.TotalKg,
			&row.PaymentMethod,
			&row.Status,
			&row.BuyerName,
			&row.BoatName,
		); err != nil {
			return nil, storeError("error scanning bill row", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("error iterating bill rows", err)
	}
	return mapping.ToDomainBillFactSlice(result), nil
}

func listBillLines(ctx context.Context, q querier, filter domain.FactFilter) ([]domain.LineFact, error) {
	where, args := whereClause(filter)
	rows, err := q.Query(ctx, lineFactsQuery+where, args...)
	if err != nil {
		return nil, storeError("error querying bill lines", err)
	}
	defer rows.Close()

	result := []models.LineRow{}
	for rows.Next() {
		var row models.LineRow
		if err := rows.Scan(
			&row.BillID,
			&row.FishID,
			&row.Presentation,
			&row.Quantity,
			&row.Price,
			&row.FishName,
			&row.BillingDate,
			&row.PaymentMethod,
		); err != nil {
			return nil, storeError("error scanning bill line row", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("error iterating bill line rows", err)
	}
	return mapping.ToDomainLineFactSlice(result), nil
}
