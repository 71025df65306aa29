package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/polyglot/pkg/cache"
	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/logger"
)

type messagesKey struct{}

// DefaultLangQueryParam is the query parameter that overrides negotiation.
const DefaultLangQueryParam = "lang"

type i18nConfig struct {
	negotiated *cache.Memory[i18n.Lang]
	queryParam string
	cacheTTL   time.Duration
}

// I18nOption configures I18n.
type I18nOption func(*i18nConfig)

// WithI18nQueryParam sets the overriding query parameter. Empty disables it.
func WithI18nQueryParam(name string) I18nOption {
	return func(cfg *i18nConfig) {
		cfg.queryParam = name
	}
}

// WithI18nCache memoizes Accept-Language negotiation in c.
func WithI18nCache(c *cache.Memory[i18n.Lang], ttl time.Duration) I18nOption {
	return func(cfg *i18nConfig) {
		cfg.negotiated = c
		cfg.cacheTTL = ttl
	}
}

// I18n binds request-scoped Messages. The language comes from, in order:
// a valid query parameter (negotiated against the supported languages),
// a supported language cookie, the Accept-Language header, the default.
func I18n(api *i18n.MessagesAPI, opts ...I18nOption) func(http.Handler) http.Handler {
	cfg := &i18nConfig{queryParam: DefaultLangQueryParam}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			msgs := resolveMessages(api, cfg, r)

			h := w.Header()
			h.Set("Content-Language", msgs.Lang().String())
			h.Add("Vary", "Accept-Language")
			h.Add("Vary", "Cookie")

			next.ServeHTTP(w, r.WithContext(WithMessages(r.Context(), msgs)))
		})
	}
}

func resolveMessages(api *i18n.MessagesAPI, cfg *i18nConfig, r *http.Request) i18n.Messages {
	if cfg.queryParam != "" {
		if v := r.URL.Query().Get(cfg.queryParam); v != "" {
			if lang, err := i18n.ParseLang(v); err == nil {
				return api.Preferred(lang)
			}
		}
	}

	req := i18n.NewHTTPRequest(r)
	if v, ok := req.LangCookie(api.LangCookieName()); ok {
		if lang, err := i18n.ParseLang(v); err == nil && api.IsSupported(lang) {
			return api.Bind(lang)
		}
	}

	header := r.Header.Get("Accept-Language")
	if cfg.negotiated == nil || header == "" {
		return api.Preferred(req.AcceptLanguages()...)
	}

	lang, err := cfg.negotiated.GetOrSet(r.Context(), header, cfg.cacheTTL, func(context.Context) (i18n.Lang, error) {
		return api.Preferred(req.AcceptLanguages()...).Lang(), nil
	})
	if err != nil {
		return api.Preferred(req.AcceptLanguages()...)
	}
	return api.Bind(lang)
}

// WithMessages stores msgs in ctx.
func WithMessages(ctx context.Context, msgs i18n.Messages) context.Context {
	return context.WithValue(ctx, messagesKey{}, msgs)
}

// GetMessages returns the Messages bound by I18n.
func GetMessages(ctx context.Context) (i18n.Messages, bool) {
	msgs, ok := ctx.Value(messagesKey{}).(i18n.Messages)
	return msgs, ok
}

// GetLanguage returns the negotiated language, or the zero Lang.
func GetLanguage(ctx context.Context) i18n.Lang {
	msgs, _ := GetMessages(ctx)
	return msgs.Lang()
}

// LanguageExtractor adds lang to every log record of the request.
func LanguageExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if lang := GetLanguage(ctx); !lang.IsZero() {
			return slog.String("lang", lang.String()), true
		}
		return slog.Attr{}, false
	}
}
