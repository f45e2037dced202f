package dto_test

import (
	"testing"

	"github.com/aripa/fish_stats_app/internal/core/domain"
	"github.com/aripa/fish_stats_app/internal/dto"
	"github.com/stretchr/testify/assert"
)

func TestViewQuery_TimeframeValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.Timeframe
	}{
		{name: "empty means all", raw: "", want: domain.TimeframeAll},
		{name: "none means all", raw: "none", want: domain.TimeframeAll},
		{name: "normalized", raw: " 3M ", want: domain.Timeframe3M},
		{name: "invalid passed through", raw: "2y", want: domain.Timeframe("2y")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dto.ViewQuery{Timeframe: tt.raw}.TimeframeValue())
		})
	}
}

func TestViewQuery_InvalidTimeframeStaysInvalid(t *testing.T) {
	tf := dto.ViewQuery{Timeframe: "weekly"}.TimeframeValue()

	_, err := domain.ParseTimeframe(string(tf))
	assert.Error(t, err)
	assert.NotEqual(t, domain.TimeframeAll, tf)
}

func TestBoatBillsQuery_OptionsCarriesInvalidTimeframe(t *testing.T) {
	q := dto.BoatBillsQuery{ViewQuery: dto.ViewQuery{Timeframe: "12m"}, Boat: "Aurora"}

	opts := q.Options()

	assert.Equal(t, domain.Timeframe("12m"), opts.Timeframe)
	assert.Equal(t, "Aurora", opts.BoatName)
}
