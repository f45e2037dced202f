package pgsql

import (
	"errors"
	"testing"
	"time"

	"github.com/aripa/fish_stats_app/internal/apperrors"
	"github.com/aripa/fish_stats_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestWhereClause(t *testing.T) {
	since := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    domain.FactFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no restriction",
			filter:    domain.FactFilter{},
			wantWhere: "",
			wantArgs:  []any{},
		},
		{
			name:      "window only",
			filter:    domain.FactFilter{Since: &since},
			wantWhere: " WHERE b.billing_date >= $1",
			wantArgs:  []any{since},
		},
		{
			name:      "all filters",
			filter:    domain.FactFilter{Since: &since, PaymentMethod: "Chèque", BoatName: "Neptune"},
			wantWhere: " WHERE b.billing_date >= $1 AND b.payment_method = $2 AND LOWER(bt.name) = LOWER($3)",
			wantArgs:  []any{since, "Chèque", "Neptune"},
		},
		{
			name:      "boat only",
			filter:    domain.FactFilter{BoatName: "neptune"},
			wantWhere: " WHERE LOWER(bt.name) = LOWER($1)",
			wantArgs:  []any{"neptune"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := whereClause(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset by peer")

	err := storeError("error querying bills", cause)

	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "error querying bills")
}
