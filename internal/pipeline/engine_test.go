package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	syncerrors "disease-sync/pkg/errors"
)

type fakeResult struct {
	affected int64
	err      error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.affected, r.err }

type fakeSource struct {
	count    int64
	countErr error
	queries  []string
}

func (f *fakeSource) ScalarInt64(_ context.Context, query string, _ ...interface{}) (int64, error) {
	f.queries = append(f.queries, query)
	return f.count, f.countErr
}

func (f *fakeSource) Query(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, fmt.Errorf("unexpected Query call")
}

type execCall struct {
	query string
	args  []interface{}
}

type fakeDest struct {
	result   fakeResult
	execErr  error
	count    int64
	countErr error
	execs    []execCall
}

func (f *fakeDest) Exec(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.execs = append(f.execs, execCall{query: query, args: args})
	if f.execErr != nil {
		return nil, f.execErr
	}
	return f.result, nil
}

func (f *fakeDest) ScalarInt64(context.Context, string, ...interface{}) (int64, error) {
	return f.count, f.countErr
}

func newTestEngine(source *fakeSource, dest *fakeDest, rowLimit int) TransformationEngine {
	q := NewQueryBuilder("hos", "hos_ai")
	return NewEngine(source, dest, q, rowLimit, zap.NewNop())
}

func TestRunFullEmptySourceSkipsInsert(t *testing.T) {
	source := &fakeSource{count: 0}
	dest := &fakeDest{}
	engine := newTestEngine(source, dest, 50000)

	stats, err := engine.RunFull(context.Background())

	require.NoError(t, err)
	assert.Zero(t, stats.Processed)
	assert.Zero(t, stats.Inserted)
	assert.Empty(t, dest.execs, "empty source must not reach the destination")
}

func TestRunFullReportsAffectedRows(t *testing.T) {
	source := &fakeSource{count: 120000}
	dest := &fakeDest{result: fakeResult{affected: 50000}, count: 50000}
	engine := newTestEngine(source, dest, 50000)

	stats, err := engine.RunFull(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(50000), stats.Processed)
	assert.Equal(t, int64(50000), stats.Inserted)

	require.Len(t, dest.execs, 1)
	call := dest.execs[0]
	assert.Equal(t, NewQueryBuilder("hos", "hos_ai").FullInsert(), call.query)
	assert.Equal(t, []interface{}{50000}, call.args)
}

func TestRunFullSourceCountError(t *testing.T) {
	source := &fakeSource{countErr: fmt.Errorf("table missing")}
	dest := &fakeDest{}
	engine := newTestEngine(source, dest, 50000)

	_, err := engine.RunFull(context.Background())

	require.Error(t, err)
	assert.True(t, syncerrors.IsType(err, syncerrors.ErrorTypeQuery))
	assert.Empty(t, dest.execs)
}

func TestRunFullInsertError(t *testing.T) {
	source := &fakeSource{count: 10}
	dest := &fakeDest{execErr: fmt.Errorf("lock wait timeout")}
	engine := newTestEngine(source, dest, 50000)

	_, err := engine.RunFull(context.Background())

	require.Error(t, err)
	assert.True(t, syncerrors.IsType(err, syncerrors.ErrorTypeQuery))
	assert.Contains(t, err.Error(), "full sync insert failed")
}

func TestRunIncrementalBindsWindowHours(t *testing.T) {
	dest := &fakeDest{result: fakeResult{affected: 7}}
	engine := newTestEngine(&fakeSource{}, dest, 50000)

	stats, err := engine.RunIncremental(context.Background(), 48)

	require.NoError(t, err)
	// 3 new rows and 2 changed rows: MySQL counts 3*1 + 2*2 = 7.
	assert.Equal(t, int64(7), stats.Processed)

	require.Len(t, dest.execs, 1)
	call := dest.execs[0]
	assert.Equal(t, NewQueryBuilder("hos", "hos_ai").IncrementalUpsert(), call.query)
	assert.Equal(t, []interface{}{48}, call.args)
}

func TestRunIncrementalIdenticalRowsCountZero(t *testing.T) {
	dest := &fakeDest{result: fakeResult{affected: 0}}
	engine := newTestEngine(&fakeSource{}, dest, 50000)

	stats, err := engine.RunIncremental(context.Background(), 24)

	require.NoError(t, err)
	assert.Zero(t, stats.Processed)
	assert.Zero(t, stats.Inserted)
}

func TestRunIncrementalUpsertError(t *testing.T) {
	dest := &fakeDest{execErr: fmt.Errorf("connection reset")}
	engine := newTestEngine(&fakeSource{}, dest, 50000)

	_, err := engine.RunIncremental(context.Background(), 24)

	require.Error(t, err)
	assert.True(t, syncerrors.IsType(err, syncerrors.ErrorTypeQuery))

	var typed *syncerrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, 24, typed.Details["window_hours"])
}
