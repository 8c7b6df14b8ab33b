package pipeline

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"disease-sync/pkg/errors"
)

// metricQuerier is the read surface verification needs from the destination.
type metricQuerier interface {
	ScalarNullString(ctx context.Context, query string, args ...interface{}) (sql.NullString, error)
}

// MetricResult is one verification metric. Value holds "N/A" when the
// aggregate returned SQL NULL, which average age does on an empty table.
type MetricResult struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Error string `json:"error,omitempty"`
}

// VerifyReport lists the destination quality metrics in fixed order.
type VerifyReport struct {
	Metrics []MetricResult `json:"metrics"`
}

// FailedCount returns how many metric queries errored.
func (r VerifyReport) FailedCount() int {
	n := 0
	for _, m := range r.Metrics {
		if m.Error != "" {
			n++
		}
	}
	return n
}

// Verifier computes aggregate quality metrics over the training table. A
// failing metric is recorded and never stops the remaining metrics.
type Verifier interface {
	Run(ctx context.Context) (VerifyReport, error)
}

type verifier struct {
	dest metricQuerier
	q    QueryBuilder
	log  *zap.Logger
}

// NewVerifier returns the production verifier bound to the destination pool.
func NewVerifier(dest metricQuerier, q QueryBuilder, log *zap.Logger) Verifier {
	return &verifier{dest: dest, q: q, log: log}
}

func (v *verifier) Run(ctx context.Context) (VerifyReport, error) {
	v.log.Info("verifying training data integrity",
		zap.String("database", v.q.DstDB),
		zap.String("table", TrainingTable))

	var report VerifyReport

	for _, m := range v.q.VerifyMetrics() {
		res := MetricResult{Name: m.Name, Value: "N/A"}

		val, err := v.dest.ScalarNullString(ctx, m.SQL)
		if err != nil {
			res.Error = err.Error()
			v.log.Error("verification metric failed",
				zap.String("metric", m.Name),
				zap.Error(err))
		} else {
			if val.Valid {
				res.Value = val.String
			}
			v.log.Info("verification metric",
				zap.String("metric", m.Name),
				zap.String("value", res.Value))
		}

		report.Metrics = append(report.Metrics, res)
	}

	if report.FailedCount() == len(report.Metrics) {
		return report, errors.New(errors.ErrorTypeQuery, "all verification queries failed").
			WithDetail("metrics", len(report.Metrics))
	}

	return report, nil
}
