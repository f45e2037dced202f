package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aripa/fish_stats_app/internal/platform/metrics"
	"github.com/stretchr/testify/assert"
)

func TestResultOf(t *testing.T) {
	assert.Equal(t, "success", metrics.ResultOf(nil))
	assert.Equal(t, "error", metrics.ResultOf(errors.New("boom")))
}

func TestObserve_BeforeInitIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.ObserveView("summary", metrics.ResultOf(nil), 1, time.Millisecond)
		metrics.ObserveExport("csv", "", time.Millisecond)
		metrics.ObserveDashboard(time.Millisecond)
	})
}
