// Package sqlconn manages the pooled MySQL connections for disease-sync.
// Each run opens two pools, one per endpoint role: "source" for the
// operational HOSxP database and "destination" for the AI training database.
package sqlconn

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"go.uber.org/zap"

	"disease-sync/pkg/config"
	"disease-sync/pkg/errors"
	"disease-sync/pkg/logger"
	"disease-sync/pkg/metrics"
)

// Client wraps one pooled MySQL endpoint with the narrow query surface the
// sync services need. Statement errors come back raw; callers attach the
// typed context because only they know which operation failed.
type Client struct {
	db   *sql.DB
	role string
	log  *zap.Logger
}

// Open builds the pool, applies the configured limits and verifies
// connectivity with a ping bounded by the connect timeout.
func Open(ctx context.Context, role, dsn string, pool config.PoolConfig) (*Client, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to open "+role+" pool")
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pool.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to ping "+role+" database").
			WithDetail("role", role)
	}

	c := &Client{
		db:   db,
		role: role,
		log:  logger.With(zap.String("pool", role)),
	}

	c.log.Info("database pool established",
		zap.Int("max_open_conns", pool.MaxOpenConns),
		zap.Int("max_idle_conns", pool.MaxIdleConns),
		zap.Duration("conn_max_lifetime", pool.ConnMaxLifetime))

	return c, nil
}

// HealthCheck verifies the pool still reaches the server and refreshes the
// open-connection gauge.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, c.role+" ping failed")
	}

	var one int
	if err := c.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, c.role+" health query failed")
	}

	metrics.PoolOpenConnections.WithLabelValues(c.role).Set(float64(c.db.Stats().OpenConnections))
	return nil
}

// ScalarInt64 runs a single-value query and scans the result as int64.
func (c *Client) ScalarInt64(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var v int64
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

// ScalarNullString runs a single-value query and scans the result as a
// nullable string, preserving SQL NULL for the caller to render.
func (c *Client) ScalarNullString(ctx context.Context, query string, args ...interface{}) (sql.NullString, error) {
	var v sql.NullString
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
		return sql.NullString{}, err
	}
	return v, nil
}

// Exec runs a statement and returns the driver result.
func (c *Client) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.db.ExecContext(ctx, query, args...)
}

// Query runs a row-returning query.
func (c *Client) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, query, args...)
}

// PoolStats exposes the database/sql pool counters.
func (c *Client) PoolStats() sql.DBStats {
	return c.db.Stats()
}

// Close releases the pool.
func (c *Client) Close() error {
	if err := c.db.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to close "+c.role+" pool")
	}
	c.log.Info("database pool closed")
	return nil
}
