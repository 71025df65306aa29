// Package config loads the message service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds all service settings.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	I18n     I18nConfig
	Redis    RedisConfig
	Database DatabaseConfig
	S3       S3Config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// LogConfig holds logger and Sentry settings.
type LogConfig struct {
	Level             string
	SentryDSN         string
	SentryEnvironment string
}

// I18nConfig holds message catalog settings.
type I18nConfig struct {
	Langs          []string
	DefaultLang    string
	MessagesDir    string
	ReloadSchedule string
	CookieName     string
	CookieMaxAge   time.Duration
	CookieSecure   bool
	CookieHTTPOnly bool
}

// RedisConfig enables the Redis bundle source when URL is set.
type RedisConfig struct {
	URL       string
	KeyPrefix string
}

// DatabaseConfig enables the Postgres bundle source when URL is set.
type DatabaseConfig struct {
	URL             string
	MigrationsTable string
}

// S3Config enables the S3 bundle source when Bucket is set.
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PathStyle bool
}

// Load reads a .env file when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	e := env{getenv: getenv}

	langs := e.list("I18N_LANGS", []string{"en"})
	cfg := &Config{
		Server: ServerConfig{
			Addr:            e.str("HTTP_ADDR", ":8080"),
			ShutdownTimeout: e.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:             e.str("LOG_LEVEL", "info"),
			SentryDSN:         e.str("SENTRY_DSN", ""),
			SentryEnvironment: e.str("SENTRY_ENVIRONMENT", "production"),
		},
		I18n: I18nConfig{
			Langs:          langs,
			DefaultLang:    e.str("I18N_DEFAULT_LANG", langs[0]),
			MessagesDir:    e.str("I18N_MESSAGES_DIR", "conf"),
			ReloadSchedule: e.str("I18N_RELOAD_SCHEDULE", ""),
			CookieName:     e.str("I18N_COOKIE_NAME", "lang"),
			CookieMaxAge:   e.duration("I18N_COOKIE_MAX_AGE", 365*24*time.Hour),
			CookieSecure:   e.bool("I18N_COOKIE_SECURE", false),
			CookieHTTPOnly: e.bool("I18N_COOKIE_HTTP_ONLY", false),
		},
		Redis: RedisConfig{
			URL:       e.str("REDIS_URL", ""),
			KeyPrefix: e.str("REDIS_KEY_PREFIX", "i18n"),
		},
		Database: DatabaseConfig{
			URL:             e.str("DATABASE_URL", ""),
			MigrationsTable: e.str("DATABASE_MIGRATIONS_TABLE", "schema_migrations"),
		},
		S3: S3Config{
			Bucket:    e.str("S3_BUCKET", ""),
			Prefix:    e.str("S3_PREFIX", ""),
			Region:    e.str("S3_REGION", "us-east-1"),
			Endpoint:  e.str("S3_ENDPOINT", ""),
			AccessKey: e.str("S3_ACCESS_KEY", ""),
			SecretKey: e.str("S3_SECRET_KEY", ""),
			PathStyle: e.bool("S3_PATH_STYLE", false),
		},
	}

	if len(e.errs) > 0 {
		return nil, errors.Join(append([]error{ErrInvalidConfig}, e.errs...)...)
	}
	return cfg, nil
}

type env struct {
	getenv func(string) string
	errs   []error
}

func (e *env) str(key, def string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return def
}

func (e *env) list(key string, def []string) []string {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func (e *env) bool(key string, def bool) bool {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}
