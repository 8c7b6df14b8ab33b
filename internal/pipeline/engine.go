package pipeline

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"disease-sync/pkg/errors"
	"disease-sync/pkg/metrics"
)

// sourceConn is the read surface the engine needs from the source pool.
type sourceConn interface {
	ScalarInt64(ctx context.Context, query string, args ...interface{}) (int64, error)
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// destConn is the write surface the engine needs from the destination pool.
type destConn interface {
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	ScalarInt64(ctx context.Context, query string, args ...interface{}) (int64, error)
}

// TransformationEngine executes the SQL transformation in its three shapes:
// bulk reload, windowed upsert and read-only preview.
type TransformationEngine interface {
	RunFull(ctx context.Context) (Stats, error)
	RunIncremental(ctx context.Context, windowHours int) (Stats, error)
	Preview(ctx context.Context) ([]Record, error)
}

type sqlEngine struct {
	source   sourceConn
	dest     destConn
	q        QueryBuilder
	rowLimit int
	log      *zap.Logger
}

// NewEngine returns the production engine bound to both pools.
func NewEngine(source sourceConn, dest destConn, q QueryBuilder, rowLimit int, log *zap.Logger) TransformationEngine {
	return &sqlEngine{
		source:   source,
		dest:     dest,
		q:        q,
		rowLimit: rowLimit,
		log:      log,
	}
}

// RunFull bulk-loads up to rowLimit eligible visits, newest first. The
// caller clears the table beforehand; an empty source short-circuits to
// zero stats without touching the destination again.
func (e *sqlEngine) RunFull(ctx context.Context) (Stats, error) {
	start := time.Now()

	e.log.Info("starting full sync",
		zap.Strings("source_tables", SourceTables),
		zap.Int("row_limit", e.rowLimit))

	sourceCount, err := e.source.ScalarInt64(ctx, e.q.SourceCount())
	if err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrorTypeQuery, "failed to count source visits").
			WithDetail("table", "opdscreen")
	}
	e.log.Info("source visit count", zap.Int64("rows", sourceCount))

	if sourceCount == 0 {
		e.log.Warn("no source data found, nothing to sync")
		return Stats{Duration: time.Since(start)}, nil
	}

	timer := metrics.NewTimer("full_insert")
	res, err := e.dest.Exec(ctx, e.q.FullInsert(), e.rowLimit)
	if err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrorTypeQuery, "full sync insert failed")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrorTypeQuery, "failed to read affected rows")
	}
	insertDuration := timer.Stop()
	metrics.StageDuration.WithLabelValues("full_insert").Observe(insertDuration.Seconds())

	finalCount, err := e.dest.ScalarInt64(ctx, e.q.DestinationCount())
	if err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrorTypeQuery, "failed to count training table")
	}

	e.log.Info("full sync insert complete",
		zap.Int64("rows_affected", affected),
		zap.Int64("destination_rows", finalCount),
		zap.Duration("insert_duration", insertDuration))

	return Stats{
		Processed: affected,
		Inserted:  affected,
		Duration:  time.Since(start),
	}, nil
}

// RunIncremental upserts visits from the trailing window. Affected rows are
// surfaced untouched, so one changed row counts 2 and an identical one 0.
func (e *sqlEngine) RunIncremental(ctx context.Context, windowHours int) (Stats, error) {
	start := time.Now()

	e.log.Info("starting incremental sync", zap.Int("window_hours", windowHours))

	timer := metrics.NewTimer("incremental_upsert")
	res, err := e.dest.Exec(ctx, e.q.IncrementalUpsert(), windowHours)
	if err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrorTypeQuery, "incremental upsert failed").
			WithDetail("window_hours", windowHours)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrorTypeQuery, "failed to read affected rows")
	}
	upsertDuration := timer.Stop()
	metrics.StageDuration.WithLabelValues("incremental_upsert").Observe(upsertDuration.Seconds())

	e.log.Info("incremental sync complete",
		zap.Int64("rows_affected", affected),
		zap.Duration("upsert_duration", upsertDuration))

	return Stats{
		Processed: affected,
		Inserted:  affected,
		Duration:  time.Since(start),
	}, nil
}

// Preview runs the transformation against the source pool only and returns
// the top 10 rows for display. Nothing is persisted.
func (e *sqlEngine) Preview(ctx context.Context) ([]Record, error) {
	e.log.Info("previewing transformed source rows")

	rows, err := e.source.Query(ctx, e.q.Preview())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "preview query failed")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to scan preview row")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "preview rows failed")
	}

	e.log.Info("preview complete", zap.Int("rows", len(out)))
	return out, nil
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		visitID   sql.NullString
		hn        sql.NullString
		vn        sql.NullString
		symptoms  string
		icd10     string
		disease   string
		medicines string
		age       sql.NullInt64
		sex       string
		visitDate sql.NullTime
	)

	err := rows.Scan(&visitID, &hn, &vn, &symptoms, &icd10, &disease, &medicines, &age, &sex, &visitDate)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		VisitID:     visitID.String,
		HN:          hn.String,
		VN:          vn.String,
		Symptoms:    symptoms,
		ICD10Code:   icd10,
		DiseaseName: disease,
		Medicines:   medicines,
		Age:         age.Int64,
		Sex:         sex,
	}
	if visitDate.Valid {
		rec.VisitDate = visitDate.Time.Format("2006-01-02")
	}
	return rec, nil
}
