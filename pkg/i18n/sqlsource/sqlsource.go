// Package sqlsource loads message bundles from a SQL table.
//
// The table has one row per message:
//
//	CREATE TABLE i18n_messages (
//	    lang  TEXT NOT NULL,
//	    key   TEXT NOT NULL,
//	    value TEXT NOT NULL,
//	    PRIMARY KEY (lang, key)
//	);
//
// Rows with lang "default" feed the default bundle. The schema ships with
// pkg/db migrations.
package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"

	// Registers the "pgx" database/sql driver used by Open.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// DefaultTable is the table read when no other is configured.
const DefaultTable = "i18n_messages"

var tableNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// Source is an i18n.Source backed by a SQL table.
type Source struct {
	db    *sql.DB
	table string
}

// Option configures a Source.
type Option func(*Source)

// WithTable overrides the table name. It may be schema qualified.
func WithTable(table string) Option {
	return func(s *Source) {
		s.table = table
	}
}

// New creates a Source over an open database handle.
func New(db *sql.DB, opts ...Option) (*Source, error) {
	if db == nil {
		return nil, ErrNilDB
	}

	s := &Source{db: db, table: DefaultTable}
	for _, opt := range opts {
		opt(s)
	}
	if !tableNameRegex.MatchString(s.table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, s.table)
	}
	return s, nil
}

// Open opens a Postgres connection through the pgx driver and wraps it in a Source.
// The caller owns the returned *sql.DB.
func Open(ctx context.Context, dsn string, opts ...Option) (*Source, *sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, errors.Join(ErrQueryFailed, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, errors.Join(ErrQueryFailed, err)
	}

	s, err := New(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return s, db, nil
}

// Name implements i18n.Source.
func (s *Source) Name() string { return "sql:" + s.table }

// Load implements i18n.Source. Bundles are returned ordered by language.
func (s *Source) Load(ctx context.Context) ([]i18n.Bundle, error) {
	query := "SELECT lang, key, value FROM " + s.table + " ORDER BY lang, key"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	defer func() { _ = rows.Close() }()

	byLang := make(map[string]map[string]string)
	for rows.Next() {
		var lang, key, value string
		if err := rows.Scan(&lang, &key, &value); err != nil {
			return nil, errors.Join(ErrQueryFailed, err)
		}
		if byLang[lang] == nil {
			byLang[lang] = make(map[string]string)
		}
		byLang[lang][key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	bundles := make([]i18n.Bundle, 0, len(byLang))
	for _, lang := range slices.Sorted(maps.Keys(byLang)) {
		bundles = append(bundles, i18n.Bundle{
			Lang:     lang,
			Source:   s.Name() + ":" + lang,
			Messages: byLang[lang],
		})
	}
	return bundles, nil
}

// Put upserts messages for lang in one transaction.
func (s *Source) Put(ctx context.Context, lang string, messages map[string]string) error {
	if lang == "" {
		return ErrEmptyLang
	}
	if len(messages) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Join(ErrWriteFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt := "INSERT INTO " + s.table + " (lang, key, value) VALUES ($1, $2, $3) " +
		"ON CONFLICT (lang, key) DO UPDATE SET value = EXCLUDED.value"
	for _, key := range slices.Sorted(maps.Keys(messages)) {
		if _, err := tx.ExecContext(ctx, stmt, lang, key, messages[key]); err != nil {
			return errors.Join(ErrWriteFailed, fmt.Errorf("key %s: %w", key, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Join(ErrWriteFailed, err)
	}
	return nil
}

// Delete removes keys from the bundle of lang.
func (s *Source) Delete(ctx context.Context, lang string, keys ...string) error {
	if lang == "" {
		return ErrEmptyLang
	}
	if len(keys) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Join(ErrWriteFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt := "DELETE FROM " + s.table + " WHERE lang = $1 AND key = $2"
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, stmt, lang, key); err != nil {
			return errors.Join(ErrWriteFailed, fmt.Errorf("key %s: %w", key, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Join(ErrWriteFailed, err)
	}
	return nil
}
