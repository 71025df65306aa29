package db

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds PostgreSQL pool settings. Zero values fall back to the
// defaults documented on each field.
type Config struct {
	// URL is a postgres:// connection URL (required).
	URL string

	// MigrationsTable is the goose version table. Default: "schema_migrations".
	MigrationsTable string

	// MaxConns caps open connections. Default: 10.
	MaxConns int32

	// MinConns keeps connections warm. Default: 2.
	MinConns int32

	// HealthCheckPeriod is how often idle connections are checked. Default: 1m.
	HealthCheckPeriod time.Duration

	// MaxConnIdleTime closes idle connections. Default: 10m.
	MaxConnIdleTime time.Duration

	// MaxConnLifetime recycles connections. Default: 30m.
	MaxConnLifetime time.Duration

	// RetryAttempts is how many times Connect tries before giving up. Default: 3.
	RetryAttempts int

	// RetryInterval is the base backoff; attempt n waits n*RetryInterval. Default: 2s.
	RetryInterval time.Duration
}

func (c *Config) applyDefaults() {
	if c.MigrationsTable == "" {
		c.MigrationsTable = "schema_migrations"
	}
	if c.MaxConns <= 0 {
		c.MaxConns = 10
	}
	if c.MinConns <= 0 {
		c.MinConns = 2
	}
	if c.HealthCheckPeriod <= 0 {
		c.HealthCheckPeriod = time.Minute
	}
	if c.MaxConnIdleTime <= 0 {
		c.MaxConnIdleTime = 10 * time.Minute
	}
	if c.MaxConnLifetime <= 0 {
		c.MaxConnLifetime = 30 * time.Minute
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 2 * time.Second
	}
}

// PoolConfig validates cfg and converts it into a pgxpool configuration.
func (c Config) PoolConfig() (*pgxpool.Config, error) {
	if c.URL == "" {
		return nil, ErrEmptyConnectionURL
	}
	c.applyDefaults()

	pc, err := pgxpool.ParseConfig(c.URL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	pc.MaxConns = c.MaxConns
	pc.MinConns = min(c.MinConns, c.MaxConns)
	pc.HealthCheckPeriod = c.HealthCheckPeriod
	pc.MaxConnIdleTime = c.MaxConnIdleTime
	pc.MaxConnLifetime = c.MaxConnLifetime
	return pc, nil
}
