package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Config describes the service logger.
type Config struct {
	// Output receives JSON records. Default: os.Stdout.
	Output io.Writer

	// Level is one of debug, info, warn, error. Default: info.
	Level string

	// SentryDSN enables forwarding warnings and errors to Sentry when set.
	SentryDSN string

	// SentryEnvironment tags Sentry events. Default: "production".
	SentryEnvironment string

	// SentryMinLevel is the lowest level kept as Sentry logs. Default: warn.
	// Errors always create Sentry issues.
	SentryMinLevel slog.Level
}

// ParseLevel maps a level name to slog.Level. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a JSON logger with context extractors. When SentryDSN is set the
// records also go to Sentry; if Sentry cannot start, the failure is logged and
// the logger keeps writing to Output only.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	base := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})

	if cfg.SentryDSN == "" {
		return slog.New(NewLogHandlerDecorator(base, extractors...))
	}

	env := cfg.SentryEnvironment
	if env == "" {
		env = "production"
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: env,
		EnableLogs:  true,
	}); err != nil {
		slog.New(base).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(NewLogHandlerDecorator(base, extractors...))
	}

	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.SentryMinLevel >= slog.LevelError {
		logLevels = []slog.Level{slog.LevelError}
	}
	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background())

	return slog.New(NewLogHandlerDecorator(newMultiHandler(base, sentryHandler), extractors...))
}

// FlushSentry returns a shutdown hook that drains buffered Sentry events.
// It is a no-op when Sentry was never initialised.
func FlushSentry(timeout time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		if deadline, ok := ctx.Deadline(); ok {
			timeout = min(timeout, time.Until(deadline))
		}
		sentry.Flush(timeout)
		return nil
	}
}

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
