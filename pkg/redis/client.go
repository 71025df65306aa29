package redis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/polyglot/pkg/logger"
)

// Config holds connection settings. Zero values fall back to the defaults
// documented on each field.
type Config struct {
	// URL is a redis:// or rediss:// connection URL (required).
	URL string

	// PoolSize is the maximum number of pooled connections. Default: 10.
	PoolSize int

	// MinIdleConns is the number of idle connections kept open. Default: 2.
	MinIdleConns int

	// ConnMaxIdleTime closes connections idle for longer. Default: 10m.
	ConnMaxIdleTime time.Duration

	// ReadTimeout and WriteTimeout bound single commands. Default: 3s each.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// DialTimeout bounds establishing a connection. Default: 5s.
	DialTimeout time.Duration

	// RetryAttempts is how many times Open pings before giving up. Default: 3.
	RetryAttempts int

	// RetryInterval is the base backoff; attempt n waits n*RetryInterval. Default: 2s.
	RetryInterval time.Duration
}

func (c *Config) applyDefaults() {
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 2
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = 10 * time.Minute
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 3 * time.Second
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 2 * time.Second
	}
}

// Options validates cfg and converts it into go-redis client options.
func (c Config) Options() (*redis.Options, error) {
	if c.URL == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(c.URL, "redis://") && !strings.HasPrefix(c.URL, "rediss://") {
		return nil, ErrInvalidURL
	}

	c.applyDefaults()

	opts, err := redis.ParseURL(c.URL)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}

	opts.PoolSize = c.PoolSize
	opts.MinIdleConns = c.MinIdleConns
	opts.ConnMaxIdleTime = c.ConnMaxIdleTime
	opts.ReadTimeout = c.ReadTimeout
	opts.WriteTimeout = c.WriteTimeout
	opts.DialTimeout = c.DialTimeout
	return opts, nil
}

// Open connects to Redis, retrying with linear backoff until a ping succeeds,
// the attempts run out or ctx is done. A nil log discards retry messages.
func Open(ctx context.Context, cfg Config, log *slog.Logger) (*redis.Client, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if log == nil {
		log = logger.NewNope()
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.RetryAttempts; attempt++ {
		client := redis.NewClient(opts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		log.WarnContext(ctx, "redis ping failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.RetryAttempts),
			slog.String("error", lastErr.Error()),
		)
		if attempt == cfg.RetryAttempts {
			break
		}
		if err := wait(ctx, time.Duration(attempt)*cfg.RetryInterval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
