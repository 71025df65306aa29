package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/redis"
)

func TestConfig_Options(t *testing.T) {
	t.Parallel()

	t.Run("empty URL is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Config{}.Options()
		require.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("non redis schemes are rejected", func(t *testing.T) {
		t.Parallel()
		for _, url := range []string{"http://localhost:6379", "localhost:6379", "postgres://localhost"} {
			_, err := redis.Config{URL: url}.Options()
			require.ErrorIs(t, err, redis.ErrInvalidURL, url)
		}
	})

	t.Run("malformed URL is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Config{URL: "redis://localhost:6379/notanumber"}.Options()
		require.ErrorIs(t, err, redis.ErrInvalidURL)
	})

	t.Run("defaults fill zero values", func(t *testing.T) {
		t.Parallel()
		opts, err := redis.Config{URL: "redis://localhost:6379/2"}.Options()
		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 10, opts.PoolSize)
		assert.Equal(t, 2, opts.MinIdleConns)
		assert.Equal(t, 3*time.Second, opts.ReadTimeout)
		assert.Equal(t, 5*time.Second, opts.DialTimeout)
	})

	t.Run("explicit values win", func(t *testing.T) {
		t.Parallel()
		opts, err := redis.Config{URL: "rediss://localhost:6380", PoolSize: 50, ReadTimeout: time.Second}.Options()
		require.NoError(t, err)
		assert.Equal(t, 50, opts.PoolSize)
		assert.Equal(t, time.Second, opts.ReadTimeout)
		assert.NotNil(t, opts.TLSConfig)
	})
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("invalid config fails before dialing", func(t *testing.T) {
		t.Parallel()
		client, err := redis.Open(context.Background(), redis.Config{}, nil)
		require.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
		assert.Nil(t, client)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		client, err := redis.Open(ctx, redis.Config{
			URL:           "redis://127.0.0.1:1",
			RetryAttempts: 5,
			RetryInterval: 10 * time.Second,
		}, nil)
		require.ErrorIs(t, err, redis.ErrConnectionFailed)
		assert.Nil(t, client)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	t.Run("nil client fails", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, redis.Healthcheck(nil)(context.Background()), redis.ErrHealthcheckFailed)
	})

	t.Run("ping success", func(t *testing.T) {
		t.Parallel()
		client, mock := redismock.NewClientMock()
		mock.ExpectPing().SetVal("PONG")
		require.NoError(t, redis.Healthcheck(client)(context.Background()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ping failure", func(t *testing.T) {
		t.Parallel()
		client, mock := redismock.NewClientMock()
		mock.ExpectPing().SetErr(errors.New("connection refused"))
		err := redis.Healthcheck(client)(context.Background())
		require.ErrorIs(t, err, redis.ErrHealthcheckFailed)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

type closer struct {
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	c := &closer{}
	require.NoError(t, redis.Shutdown(c)(context.Background()))
	assert.True(t, c.closed)

	boom := errors.New("close error")
	require.ErrorIs(t, redis.Shutdown(&closer{err: boom})(context.Background()), boom)
}
