// Package logger builds the service's slog logger.
//
// Records are JSON on stdout. [ContextExtractor] functions add request-scoped
// attributes such as request_id and lang to every record logged with a
// context, and an optional Sentry handler receives warnings and errors:
//
//	log := logger.New(logger.Config{
//		Level:     os.Getenv("LOG_LEVEL"),
//		SentryDSN: os.Getenv("SENTRY_DSN"),
//	}, middlewares.RequestIDExtractor(), middlewares.LanguageExtractor())
//
// Without a DSN, or when Sentry fails to start, only stdout is used.
// Libraries default to [NewNope] when no logger is supplied.
package logger
