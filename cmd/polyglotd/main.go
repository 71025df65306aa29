// Command polyglotd serves the message catalog over HTTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/polyglot/internal/config"
	"github.com/dmitrymomot/polyglot/internal/server"
	"github.com/dmitrymomot/polyglot/middlewares"
	"github.com/dmitrymomot/polyglot/pkg/cache"
	"github.com/dmitrymomot/polyglot/pkg/cookie"
	"github.com/dmitrymomot/polyglot/pkg/db"
	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/i18n/redissource"
	"github.com/dmitrymomot/polyglot/pkg/i18n/s3source"
	"github.com/dmitrymomot/polyglot/pkg/i18n/sqlsource"
	"github.com/dmitrymomot/polyglot/pkg/logger"
	"github.com/dmitrymomot/polyglot/pkg/redis"
)

const (
	reloadTimeout    = 30 * time.Second
	sentryFlushLimit = 2 * time.Second
	negotiationTTL   = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:             cfg.Log.Level,
		SentryDSN:         cfg.Log.SentryDSN,
		SentryEnvironment: cfg.Log.SentryEnvironment,
	}, middlewares.RequestIDExtractor(), middlewares.LanguageExtractor())

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("service stopped", slog.Any("error", err))
		_ = logger.FlushSentry(sentryFlushLimit)(context.Background())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	var (
		hooks   []func(context.Context) error
		srvOpts []server.Option
		sources []i18n.Source
	)
	if cfg.I18n.MessagesDir != "" {
		if _, err := os.Stat(cfg.I18n.MessagesDir); err == nil {
			sources = append(sources, i18n.NamedDirSource(cfg.I18n.MessagesDir, os.DirFS(cfg.I18n.MessagesDir)))
		} else {
			log.Warn("messages directory not found", slog.String("dir", cfg.I18n.MessagesDir))
		}
	}

	if cfg.Database.URL != "" {
		pool, err := db.Connect(ctx, db.Config{URL: cfg.Database.URL, MigrationsTable: cfg.Database.MigrationsTable}, log)
		if err != nil {
			return err
		}
		hooks = append(hooks, db.Shutdown(pool))

		sqlDB := db.SQLDB(pool)
		if err := db.Migrate(ctx, sqlDB, cfg.Database.MigrationsTable, log); err != nil {
			return shutdown(hooks, err)
		}
		src, err := sqlsource.New(sqlDB)
		if err != nil {
			return shutdown(hooks, err)
		}
		sources = append(sources, src)
		srvOpts = append(srvOpts, server.WithCheck("database", db.Healthcheck(pool)))
	}

	if cfg.Redis.URL != "" {
		client, err := redis.Open(ctx, redis.Config{URL: cfg.Redis.URL}, log)
		if err != nil {
			return shutdown(hooks, err)
		}
		hooks = append(hooks, redis.Shutdown(client))

		src, err := redissource.New(client, redissource.WithPrefix(cfg.Redis.KeyPrefix))
		if err != nil {
			return shutdown(hooks, err)
		}
		sources = append(sources, src)
		srvOpts = append(srvOpts, server.WithCheck("redis", redis.Healthcheck(client)))
	}

	if cfg.S3.Bucket != "" {
		src, err := s3source.NewFromConfig(s3source.Config{
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return shutdown(hooks, err)
		}
		sources = append(sources, src)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	api, err := i18n.New(ctx,
		i18n.WithLanguages(cfg.I18n.Langs...),
		i18n.WithDefaultLanguage(cfg.I18n.DefaultLang),
		i18n.WithSources(sources...),
		i18n.WithCookie(i18n.CookieConfig{
			Name:     cfg.I18n.CookieName,
			Secure:   cfg.I18n.CookieSecure,
			HTTPOnly: cfg.I18n.CookieHTTPOnly,
		}),
		i18n.WithLogger(log),
		i18n.WithMetrics(i18n.NewMetrics(reg)),
		i18n.WithMissingKeyHandler(func(lang i18n.Lang, key string) {
			log.Warn("missing message", slog.String("lang", lang.String()), slog.String("key", key))
		}),
	)
	if err != nil {
		return shutdown(hooks, err)
	}
	log.Info("message catalog loaded",
		slog.Any("languages", api.Languages()),
		slog.Int("sources", len(sources)),
	)

	if cfg.I18n.ReloadSchedule != "" {
		reloader, err := i18n.NewReloader(api, cfg.I18n.ReloadSchedule, reloadTimeout)
		if err != nil {
			return shutdown(hooks, err)
		}
		if err := reloader.Start(ctx); err != nil {
			return shutdown(hooks, err)
		}
		hooks = append(hooks, reloader.Stop)
	}

	langCookie, err := cookie.New(api.LangCookieName(),
		cookie.WithSecure(api.LangCookieSecure()),
		cookie.WithHTTPOnly(api.LangCookieHTTPOnly()),
		cookie.WithMaxAge(cfg.I18n.CookieMaxAge),
	)
	if err != nil {
		return shutdown(hooks, err)
	}

	negotiated := cache.NewMemory[i18n.Lang](cache.WithDefaultTTL(negotiationTTL))
	hooks = append(hooks, func(context.Context) error { return negotiated.Close() })

	srv, err := server.New(api, append(srvOpts,
		server.WithLogger(log),
		server.WithCookie(langCookie),
		server.WithNegotiationCache(negotiated),
		server.WithGatherer(reg),
	)...)
	if err != nil {
		return shutdown(hooks, err)
	}

	return server.Run(ctx, server.RunConfig{
		Handler:         srv.Routes(),
		Logger:          log,
		Address:         cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		ShutdownHooks:   append(reverse(hooks), logger.FlushSentry(sentryFlushLimit)),
	})
}

// shutdown releases everything acquired so far after a startup failure.
func shutdown(hooks []func(context.Context) error, cause error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, hook := range reverse(hooks) {
		_ = hook(ctx)
	}
	return cause
}

func reverse(hooks []func(context.Context) error) []func(context.Context) error {
	out := make([]func(context.Context) error, len(hooks))
	for i, h := range hooks {
		out[len(hooks)-1-i] = h
	}
	return out
}
