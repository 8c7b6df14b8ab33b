package pipeline

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"disease-sync/pkg/errors"
)

// destTable is the slice of the destination client the table manager needs.
type destTable interface {
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	ScalarInt64(ctx context.Context, query string, args ...interface{}) (int64, error)
}

// SchemaManager owns the destination table lifecycle. Every mode ensures the
// table before dispatch; only full sync ever truncates it.
type SchemaManager interface {
	EnsureTrainingTable(ctx context.Context) error
	Truncate(ctx context.Context) error
	DestinationCount(ctx context.Context) (int64, error)
}

type tableManager struct {
	dest destTable
	q    QueryBuilder
	log  *zap.Logger
}

// NewSchemaManager returns the production table manager bound to the
// destination pool.
func NewSchemaManager(dest destTable, q QueryBuilder, log *zap.Logger) SchemaManager {
	return &tableManager{dest: dest, q: q, log: log}
}

func (t *tableManager) EnsureTrainingTable(ctx context.Context) error {
	t.log.Info("creating or verifying training table",
		zap.String("database", t.q.DstDB),
		zap.String("table", TrainingTable))

	if _, err := t.dest.Exec(ctx, t.q.CreateTrainingTable()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeSchema, "failed to create training table").
			WithDetail("table", TrainingTable)
	}

	t.log.Info("training table ready")
	return nil
}

func (t *tableManager) Truncate(ctx context.Context) error {
	t.log.Info("clearing training table")

	if _, err := t.dest.Exec(ctx, t.q.Truncate()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeSchema, "failed to clear training table").
			WithDetail("table", TrainingTable)
	}

	t.log.Info("training table cleared")
	return nil
}

func (t *tableManager) DestinationCount(ctx context.Context) (int64, error) {
	n, err := t.dest.ScalarInt64(ctx, t.q.DestinationCount())
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeQuery, "failed to count training table")
	}
	return n, nil
}
