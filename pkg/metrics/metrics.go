// Package metrics provides performance tracking for disease-sync using
// Prometheus collectors plus a lightweight checkpoint monitor for per-run
// stage timing.
//
// The collectors are registered with the default registry via promauto and
// recorded in-process only; the CLI exposes no metrics endpoint. They exist
// so the same binary can be embedded or scraped later without touching the
// sync code.
//
// # Basic Usage
//
//	metrics.RowsSynced.WithLabelValues("full").Add(float64(stats.Processed))
//
//	timer := metrics.NewTimer("full_insert")
//	res, err := dest.Exec(ctx, insertSQL, limit)
//	metrics.StageDuration.WithLabelValues("full_insert").Observe(timer.Stop().Seconds())
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsSynced counts rows written to the training table, labeled by run
	// mode (full, incremental). Incremental runs count MySQL affected rows,
	// so an updated row contributes 2 and an untouched duplicate 0.
	RowsSynced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disease_sync_rows_synced_total",
			Help: "Total rows written to the training table",
		},
		[]string{"mode"},
	)

	// StageDuration tracks how long each run stage takes. Buckets span the
	// observed range from sub-second schema checks to multi-minute full
	// syncs on the production dataset.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "disease_sync_stage_duration_seconds",
			Help: "Duration of each sync stage in seconds",
			Buckets: []float64{
				0.01, // schema no-op
				0.05,
				0.1,
				0.5,
				1,
				5,
				15,
				60,
				300, // full sync on a quiet server
				900,
			},
		},
		[]string{"stage"},
	)

	// TableRows records the last observed row count per probed table.
	TableRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "disease_sync_table_rows",
			Help: "Last observed row count per table",
		},
		[]string{"role", "table"},
	)

	// PoolOpenConnections tracks open connections per pool role.
	PoolOpenConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "disease_sync_pool_open_connections",
			Help: "Open connections in the database/sql pool",
		},
		[]string{"role"},
	)
)

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop returns the elapsed duration since creation. Stopping more than once
// returns the total elapsed time each call.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
