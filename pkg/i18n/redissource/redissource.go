// Package redissource loads message bundles from Redis hashes.
//
// Each bundle is one hash named "<prefix>:messages:<lang>" whose fields are
// message keys and whose values are templates. The default bundle uses the
// language "default".
package redissource

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

const (
	defaultPrefix    = "i18n"
	defaultScanCount = 100
)

var (
	ErrNilClient  = errors.New("redissource: redis client is nil")
	ErrEmptyLang  = errors.New("redissource: language cannot be empty")
	ErrLoadFailed = errors.New("redissource: failed to load bundles")
)

// Source is an i18n.Source backed by Redis.
type Source struct {
	client    redis.Cmdable
	prefix    string
	scanCount int64
}

// Option configures a Source.
type Option func(*Source)

// WithPrefix sets the key prefix. Default: "i18n".
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithScanCount sets the SCAN batch size hint. Default: 100.
func WithScanCount(n int64) Option {
	return func(s *Source) {
		if n > 0 {
			s.scanCount = n
		}
	}
}

// New creates a Source reading through client.
func New(client redis.Cmdable, opts ...Option) (*Source, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	s := &Source{client: client, prefix: defaultPrefix, scanCount: defaultScanCount}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements i18n.Source.
func (s *Source) Name() string { return "redis:" + s.prefix }

// Key returns the hash key holding the bundle of lang.
func (s *Source) Key(lang string) string {
	return s.keyPrefix() + lang
}

func (s *Source) keyPrefix() string {
	return s.prefix + ":messages:"
}

// Load implements i18n.Source. Bundles are returned ordered by hash key.
func (s *Source) Load(ctx context.Context) ([]i18n.Bundle, error) {
	keys, err := s.scan(ctx)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	slices.Sort(keys)

	bundles := make([]i18n.Bundle, 0, len(keys))
	for _, key := range keys {
		messages, err := s.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, errors.Join(ErrLoadFailed, fmt.Errorf("hgetall %s: %w", key, err))
		}
		bundles = append(bundles, i18n.Bundle{
			Lang:     strings.TrimPrefix(key, s.keyPrefix()),
			Source:   "redis:" + key,
			Messages: messages,
		})
	}
	return bundles, nil
}

func (s *Source) scan(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, s.keyPrefix()+"*", s.scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		for _, key := range batch {
			if !slices.Contains(keys, key) {
				keys = append(keys, key)
			}
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// Put writes messages into the bundle of lang, keeping fields not mentioned.
func (s *Source) Put(ctx context.Context, lang string, messages map[string]string) error {
	if lang == "" {
		return ErrEmptyLang
	}
	if len(messages) == 0 {
		return nil
	}

	fields := slices.Sorted(maps.Keys(messages))
	values := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		values = append(values, f, messages[f])
	}
	return s.client.HSet(ctx, s.Key(lang), values...).Err()
}

// Delete removes message keys from the bundle of lang.
func (s *Source) Delete(ctx context.Context, lang string, keys ...string) error {
	if lang == "" {
		return ErrEmptyLang
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.HDel(ctx, s.Key(lang), keys...).Err()
}
