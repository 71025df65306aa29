// Package server exposes the message catalog over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/polyglot/middlewares"
	"github.com/dmitrymomot/polyglot/pkg/cache"
	"github.com/dmitrymomot/polyglot/pkg/cookie"
	"github.com/dmitrymomot/polyglot/pkg/health"
	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/logger"
)

var ErrEmptyCatalog = errors.New("server: message catalog is empty")

// Server holds the HTTP handlers of the message service.
type Server struct {
	api        *i18n.MessagesAPI
	logger     *slog.Logger
	cookie     *cookie.Manager
	negotiated *cache.Memory[i18n.Lang]
	gatherer   prometheus.Gatherer
	checks     health.Checks
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithCookie sets the manager used by the language endpoints.
func WithCookie(m *cookie.Manager) Option {
	return func(s *Server) {
		if m != nil {
			s.cookie = m
		}
	}
}

// WithNegotiationCache memoizes Accept-Language negotiation.
func WithNegotiationCache(c *cache.Memory[i18n.Lang]) Option {
	return func(s *Server) {
		s.negotiated = c
	}
}

// WithGatherer exposes g on /metrics. Without it /metrics is not mounted.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithCheck adds a named readiness check.
func WithCheck(name string, check health.CheckFunc) Option {
	return func(s *Server) {
		s.checks[name] = check
	}
}

// New creates a Server for api. The catalog readiness check is always present.
func New(api *i18n.MessagesAPI, opts ...Option) (*Server, error) {
	if api == nil {
		return nil, errors.New("server: messages api is nil")
	}

	s := &Server{
		api:    api,
		logger: logger.NewNope(),
		checks: health.Checks{"catalog": CatalogCheck(api)},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.cookie == nil {
		m, err := cookie.New(api.LangCookieName(),
			cookie.WithSecure(api.LangCookieSecure()),
			cookie.WithHTTPOnly(api.LangCookieHTTPOnly()),
		)
		if err != nil {
			return nil, err
		}
		s.cookie = m
	}
	return s, nil
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(
		middlewares.RequestID(),
		middlewares.Recover(middlewares.WithRecoverLogger(s.logger)),
	)

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(s.checks, health.WithLogger(s.logger)))
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		var i18nOpts []middlewares.I18nOption
		if s.negotiated != nil {
			i18nOpts = append(i18nOpts, middlewares.WithI18nCache(s.negotiated, 0))
		}
		r.Use(middlewares.I18n(s.api, i18nOpts...))

		r.Get("/languages", s.handleLanguages)
		r.Get("/messages/{key}", s.handleMessage)
		r.Post("/messages", s.handleFirstMessage)
		r.Get("/negotiate", s.handleNegotiate)
		r.Put("/lang/{tag}", s.handleSetLang)
		r.Delete("/lang", s.handleClearLang)
		r.Post("/reload", s.handleReload)
	})

	return r
}

// CatalogCheck fails when the current catalog holds no bundle at all.
func CatalogCheck(api *i18n.MessagesAPI) health.CheckFunc {
	return func(context.Context) error {
		cat := api.Catalog()
		if len(cat.Languages()) == 0 && !cat.HasBundle(i18n.DefaultBundle) {
			return ErrEmptyCatalog
		}
		return nil
	}
}
