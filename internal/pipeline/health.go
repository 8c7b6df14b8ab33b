package pipeline

import (
	"context"

	"go.uber.org/zap"

	"disease-sync/pkg/errors"
	"disease-sync/pkg/metrics"
)

// scalarQuerier is the read surface health probes need from either pool.
type scalarQuerier interface {
	ScalarInt64(ctx context.Context, query string, args ...interface{}) (int64, error)
}

// TableStatus is the result of one health probe.
type TableStatus struct {
	Database string `json:"database"`
	Table    string `json:"table"`
	Role     string `json:"role"`
	Rows     int64  `json:"rows"`
	Empty    bool   `json:"empty"`
	Error    string `json:"error,omitempty"`
}

// HealthReport aggregates every probe of one health run, in probe order.
type HealthReport struct {
	Tables []TableStatus `json:"tables"`
}

// EmptyCount returns how many probed tables held zero rows.
func (r HealthReport) EmptyCount() int {
	n := 0
	for _, t := range r.Tables {
		if t.Error == "" && t.Empty {
			n++
		}
	}
	return n
}

// FailedCount returns how many probes errored.
func (r HealthReport) FailedCount() int {
	n := 0
	for _, t := range r.Tables {
		if t.Error != "" {
			n++
		}
	}
	return n
}

// HealthChecker probes the six source tables and the training table. A
// failing probe is recorded and never stops the remaining probes.
type HealthChecker interface {
	Run(ctx context.Context) (HealthReport, error)
}

type healthChecker struct {
	source scalarQuerier
	dest   scalarQuerier
	q      QueryBuilder
	log    *zap.Logger
}

// NewHealthChecker returns the production checker bound to both pools.
func NewHealthChecker(source, dest scalarQuerier, q QueryBuilder, log *zap.Logger) HealthChecker {
	return &healthChecker{source: source, dest: dest, q: q, log: log}
}

func (h *healthChecker) Run(ctx context.Context) (HealthReport, error) {
	h.log.Info("running health check",
		zap.String("source_database", h.q.SrcDB),
		zap.String("destination_database", h.q.DstDB))

	var report HealthReport

	for _, table := range SourceTables {
		st := TableStatus{Database: h.q.SrcDB, Table: table, Role: "source"}

		n, err := h.source.ScalarInt64(ctx, h.q.SourceTableCount(table))
		switch {
		case err != nil:
			st.Error = err.Error()
			h.log.Error("health probe failed",
				zap.String("table", table),
				zap.Error(err))
		case n == 0:
			st.Empty = true
			h.log.Warn("source table is empty", zap.String("table", table))
			metrics.TableRows.WithLabelValues("source", table).Set(0)
		default:
			st.Rows = n
			h.log.Info("source table status",
				zap.String("table", table),
				zap.Int64("rows", n))
			metrics.TableRows.WithLabelValues("source", table).Set(float64(n))
		}

		report.Tables = append(report.Tables, st)
	}

	st := TableStatus{Database: h.q.DstDB, Table: TrainingTable, Role: "destination"}
	n, err := h.dest.ScalarInt64(ctx, h.q.DestinationCount())
	if err != nil {
		st.Error = err.Error()
		h.log.Error("health probe failed",
			zap.String("table", TrainingTable),
			zap.Error(err))
	} else {
		st.Rows = n
		st.Empty = n == 0
		h.log.Info("destination table status",
			zap.String("table", TrainingTable),
			zap.Int64("rows", n))
		metrics.TableRows.WithLabelValues("destination", TrainingTable).Set(float64(n))
	}
	report.Tables = append(report.Tables, st)

	if report.FailedCount() == len(report.Tables) {
		return report, errors.New(errors.ErrorTypeHealth, "all health probes failed").
			WithDetail("probes", len(report.Tables))
	}

	h.log.Info("health check completed",
		zap.Int("tables", len(report.Tables)),
		zap.Int("empty", report.EmptyCount()),
		zap.Int("failed", report.FailedCount()))

	return report, nil
}
