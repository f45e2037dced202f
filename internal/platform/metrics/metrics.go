package metrics

import (
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "fish_stats_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	viewTotal   *prometheus.CounterVec
	viewLatency *prometheus.HistogramVec
	viewRows    *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	dashboardLatency prometheus.Histogram
)

// Init registers the statistics metrics and, when pool is not nil, pool gauges.
func Init(pool *pgxpool.Pool) {
	registerOnce.Do(func() {
		viewTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "view_compute_total",
				Help: "Total view computations by view and result",
			},
			[]string{"view", "result"},
		)
		viewLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "view_compute_latency_seconds",
				Help:    "View computation latency in seconds, store round trip included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"view", "result"},
		)
		viewRows = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "view_rows",
				Help:    "Number of rows returned per view",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"view"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total view exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "View export rendering latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		dashboardLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "dashboard_latency_seconds",
				Help:    "Dashboard fan-out latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)

		prometheus.MustRegister(
			viewTotal,
			viewLatency,
			viewRows,
			exportTotal,
			exportLatency,
			dashboardLatency,
		)

		if pool != nil {
			registerPoolMetrics(pool)
		}
	})
}

func registerPoolMetrics(pool *pgxpool.Pool) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "db_pool_acquired_conns",
			Help: "Connections currently acquired from the pool",
		},
		func() float64 { return float64(pool.Stat().AcquiredConns()) },
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "db_pool_idle_conns",
			Help: "Idle connections in the pool",
		},
		func() float64 { return float64(pool.Stat().IdleConns()) },
	))
}

// ResultOf maps an error to a result label.
func ResultOf(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

// ObserveView records a view computation.
func ObserveView(view, result string, rows int, duration time.Duration) {
	if view == "" {
		view = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if viewTotal != nil {
		viewTotal.WithLabelValues(view, result).Inc()
	}
	if viewLatency != nil {
		viewLatency.WithLabelValues(view, result).Observe(duration.Seconds())
	}
	if viewRows != nil && result == resultSuccess {
		viewRows.WithLabelValues(view).Observe(float64(rows))
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ObserveDashboard records the duration of a dashboard refresh.
func ObserveDashboard(duration time.Duration) {
	if dashboardLatency != nil {
		dashboardLatency.Observe(duration.Seconds())
	}
}
