package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/spf13/viper"

	"disease-sync/pkg/errors"
)

// DB identifies one MySQL endpoint.
type DB struct {
	Host     string
	Port     int
	User     string
	Password string
}

// PoolConfig controls the database/sql pool for one endpoint. The defaults
// mirror the production deployment on the hospital server.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// Config is the complete runtime configuration. It is built once by Load and
// treated as immutable afterwards.
type Config struct {
	// Source is the operational HOSxP database endpoint.
	Source DB
	// Dest is the AI training database endpoint, usually the same server.
	Dest DB

	// SourceDatabase and DestDatabase are the schema names queries qualify
	// tables with, so one MySQL server can host both sides.
	SourceDatabase string
	DestDatabase   string

	// BatchSize is reported in the startup summary for operator reference.
	BatchSize int
	// RowLimit caps how many visits one full sync moves, newest first.
	RowLimit int
	// MaxWorkers is sized from the host CPUs; execution stays sequential but
	// the value bounds pool sizing on large hosts and is logged at startup.
	MaxWorkers int

	// LogLevel feeds the logger setup (debug, info, warn, error).
	LogLevel string

	Pool PoolConfig
}

// Environment keys. Every key has a default so the binary runs unconfigured
// on a standard single-server HOSxP install.
const (
	envSrcHost = "DB_SRC_HOST"
	envSrcPort = "DB_SRC_PORT"
	envSrcUser = "DB_SRC_USER"
	envSrcPass = "DB_SRC_PASS"
	envDstHost = "DB_DST_HOST"
	envDstPort = "DB_DST_PORT"
	envDstUser = "DB_DST_USER"
	envDstPass = "DB_DST_PASS"
	envSrcDB   = "SRC_DATABASE"
	envDstDB   = "DST_DATABASE"
	envBatch   = "BATCH_SIZE"
	envLimit   = "ROW_LIMIT"
	envWorkers = "MAX_WORKERS"
	envLog     = "LOG_LEVEL"
)

// Load reads the environment into a validated Config. It never mutates the
// process environment; .env loading is the caller's concern.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Source: DB{
			Host:     v.GetString(envSrcHost),
			Port:     v.GetInt(envSrcPort),
			User:     v.GetString(envSrcUser),
			Password: v.GetString(envSrcPass),
		},
		Dest: DB{
			Host:     v.GetString(envDstHost),
			Port:     v.GetInt(envDstPort),
			User:     v.GetString(envDstUser),
			Password: v.GetString(envDstPass),
		},
		SourceDatabase: v.GetString(envSrcDB),
		DestDatabase:   v.GetString(envDstDB),
		BatchSize:      v.GetInt(envBatch),
		RowLimit:       v.GetInt(envLimit),
		MaxWorkers:     v.GetInt(envWorkers),
		LogLevel:       v.GetString(envLog),
		Pool:           defaultPool(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(envSrcHost, "localhost")
	v.SetDefault(envSrcPort, 3306)
	v.SetDefault(envSrcUser, "root")
	v.SetDefault(envSrcPass, "root")
	v.SetDefault(envDstHost, "localhost")
	v.SetDefault(envDstPort, 3306)
	v.SetDefault(envDstUser, "root")
	v.SetDefault(envDstPass, "root")
	v.SetDefault(envSrcDB, "hos")
	v.SetDefault(envDstDB, "hos_ai")
	v.SetDefault(envBatch, 500)
	v.SetDefault(envLimit, 50000)
	v.SetDefault(envWorkers, defaultWorkers())
	v.SetDefault(envLog, "info")
}

func defaultPool() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 1800 * time.Second,
		ConnMaxIdleTime: 300 * time.Second,
		ConnectTimeout:  30 * time.Second,
	}
}

// defaultWorkers leaves one core for the MySQL server sharing the host.
func defaultWorkers() int {
	cores, err := cpu.Counts(true)
	if err != nil || cores <= 0 {
		cores = runtime.NumCPU()
	}
	if cores-1 > 2 {
		return cores - 1
	}
	return 2
}

// Validate checks the configuration for values no run could succeed with.
func (c *Config) Validate() error {
	if err := c.Source.validate("source"); err != nil {
		return err
	}
	if err := c.Dest.validate("destination"); err != nil {
		return err
	}
	if c.SourceDatabase == "" {
		return errors.New(errors.ErrorTypeConfig, "source database name must not be empty").
			WithDetail("key", envSrcDB)
	}
	if c.DestDatabase == "" {
		return errors.New(errors.ErrorTypeConfig, "destination database name must not be empty").
			WithDetail("key", envDstDB)
	}
	if c.BatchSize <= 0 {
		return errors.New(errors.ErrorTypeConfig, "batch size must be positive").
			WithDetail("key", envBatch).WithDetail("value", c.BatchSize)
	}
	if c.RowLimit <= 0 {
		return errors.New(errors.ErrorTypeConfig, "row limit must be positive").
			WithDetail("key", envLimit).WithDetail("value", c.RowLimit)
	}
	if c.MaxWorkers <= 0 {
		return errors.New(errors.ErrorTypeConfig, "worker count must be positive").
			WithDetail("key", envWorkers).WithDetail("value", c.MaxWorkers)
	}
	if c.Pool.MaxOpenConns <= 0 || c.Pool.MaxIdleConns < 0 {
		return errors.New(errors.ErrorTypeConfig, "invalid connection pool sizing").
			WithDetail("max_open", c.Pool.MaxOpenConns).
			WithDetail("max_idle", c.Pool.MaxIdleConns)
	}
	return nil
}

func (d DB) validate(role string) error {
	if d.Host == "" {
		return errors.New(errors.ErrorTypeConfig, role+" host must not be empty")
	}
	if d.Port <= 0 || d.Port > 65535 {
		return errors.New(errors.ErrorTypeConfig, role+" port out of range").
			WithDetail("port", d.Port)
	}
	if d.User == "" {
		return errors.New(errors.ErrorTypeConfig, role+" user must not be empty")
	}
	return nil
}

// DSN builds a go-sql-driver DSN for the endpoint. parseTime is enabled so
// DATE columns scan into time.Time, and utf8mb4 matches the HOSxP charset.
func (d DB) DSN(database string, pool PoolConfig) string {
	mc := mysql.NewConfig()
	mc.User = d.User
	mc.Passwd = d.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
	mc.DBName = database
	mc.Timeout = pool.ConnectTimeout
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// Redacted renders the endpoint for logs without the password.
func (d DB) Redacted(database string) string {
	return fmt.Sprintf("%s@%s:%d/%s", d.User, d.Host, d.Port, database)
}
