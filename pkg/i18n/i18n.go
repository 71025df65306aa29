package i18n

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/polyglot/pkg/logger"
)

// DefaultLang is used when neither a default language nor supported languages are configured.
const DefaultLang = "en"

// MessagesAPI resolves and formats messages and negotiates languages.
//
// Configuration is fixed at construction. The catalog is an immutable snapshot
// swapped atomically by Reload, so every method is safe for concurrent use and
// each call observes exactly one snapshot.
type MessagesAPI struct {
	catalog           atomic.Pointer[Catalog]
	locales           *locales
	logger            *slog.Logger
	metrics           *Metrics
	missingKeyHandler func(lang Lang, key string)
	reloads           singleflight.Group
	cookie            CookieConfig
	sources           []Source
	supported         []Lang
	defaultLang       Lang
}

// New builds a MessagesAPI and loads every source. Any load error is fatal and
// returned joined with the others; no partially loaded catalog is served.
func New(ctx context.Context, opts ...Option) (*MessagesAPI, error) {
	m := &MessagesAPI{
		locales: &locales{
			formats: make(map[string]*LocaleFormat),
			plurals: make(map[string]PluralRule),
		},
		logger: logger.NewNope(),
		cookie: CookieConfig{Name: DefaultCookieName},
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	m.supported = supportedLanguages(m.defaultLang, m.supported)
	m.defaultLang = m.supported[0]

	cat, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	m.publish(cat)

	return m, nil
}

// supportedLanguages puts def first, drops duplicates and sorts the rest.
// Without an explicit default the first configured language is used, then DefaultLang.
func supportedLanguages(def Lang, langs []Lang) []Lang {
	if def.IsZero() {
		if len(langs) > 0 {
			def = langs[0]
		} else {
			def = MustParseLang(DefaultLang)
		}
	}

	others := make([]Lang, 0, len(langs))
	for _, l := range langs {
		if l != def && !slices.Contains(others, l) {
			others = append(others, l)
		}
	}
	slices.SortFunc(others, func(a, b Lang) int {
		return cmp.Compare(a.String(), b.String())
	})

	return append([]Lang{def}, others...)
}

func (m *MessagesAPI) load(ctx context.Context) (*Catalog, error) {
	start := time.Now()

	var (
		bundles []Bundle
		errs    []error
	)
	for _, src := range m.sources {
		loaded, err := src.Load(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("source %s: %w", src.Name(), err))
			continue
		}
		bundles = append(bundles, loaded...)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cat, err := newCatalog(m.defaultLang, bundles, m.locales)
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "message catalog loaded",
		slog.Int("bundles", len(bundles)),
		slog.Int("languages", len(cat.Languages())),
		slog.Duration("duration", time.Since(start)),
	)
	return cat, nil
}

func (m *MessagesAPI) publish(cat *Catalog) {
	m.catalog.Store(cat)
	m.metrics.observeCatalog(cat)
}

// Reload loads every source again and atomically publishes the new catalog.
// Concurrent calls share one load. On failure the current catalog stays in place.
func (m *MessagesAPI) Reload(ctx context.Context) error {
	_, err, _ := m.reloads.Do("reload", func() (any, error) {
		cat, err := m.load(ctx)
		if err != nil {
			m.metrics.reloaded(false)
			m.logger.ErrorContext(ctx, "message catalog reload failed", slog.Any("error", err))
			return nil, err
		}
		m.publish(cat)
		m.metrics.reloaded(true)
		return nil, nil
	})
	return err
}

// Catalog returns the current snapshot.
func (m *MessagesAPI) Catalog() *Catalog {
	return m.catalog.Load()
}

// Get renders key for lang. A key missing from the whole fallback chain renders as the key itself.
func (m *MessagesAPI) Get(lang Lang, key string, args ...any) string {
	return m.render(m.Catalog(), lang, []string{key}, args)
}

// GetArgs is Get with an explicit argument list.
func (m *MessagesAPI) GetArgs(lang Lang, key string, args []any) string {
	return m.render(m.Catalog(), lang, []string{key}, args)
}

// GetFirst renders the first of keys defined for lang. If none is defined the
// last key is returned; an empty key list renders "".
func (m *MessagesAPI) GetFirst(lang Lang, keys []string, args ...any) string {
	return m.render(m.Catalog(), lang, keys, args)
}

// GetFirstArgs is GetFirst with an explicit argument list.
func (m *MessagesAPI) GetFirstArgs(lang Lang, keys []string, args []any) string {
	return m.render(m.Catalog(), lang, keys, args)
}

// IsDefinedAt reports whether key resolves for lang through the fallback chain.
func (m *MessagesAPI) IsDefinedAt(lang Lang, key string) bool {
	return m.Catalog().IsDefinedAt(lang, key)
}

func (m *MessagesAPI) render(cat *Catalog, lang Lang, keys []string, args []any) string {
	if len(keys) == 0 {
		return ""
	}

	for _, key := range keys {
		if tpl, ok := cat.Resolve(lang, key); ok {
			m.metrics.lookup(true)
			return cat.Format(lang, tpl, args...)
		}
	}

	last := keys[len(keys)-1]
	m.metrics.lookup(false)
	m.logger.Debug("message not found",
		slog.String("lang", lang.String()),
		slog.Any("keys", keys),
	)
	if m.missingKeyHandler != nil {
		m.missingKeyHandler(lang, last)
	}
	return last
}

// Preferred binds the best supported language for the ranked candidates.
func (m *MessagesAPI) Preferred(candidates ...Lang) Messages {
	return m.bind(Negotiate(candidates, m.supported, m.defaultLang))
}

// PreferredTags is Preferred for raw language tags. A malformed tag is a
// caller error wrapping ErrInvalidLanguageTag; an unsupported one is not.
func (m *MessagesAPI) PreferredTags(tags ...string) (Messages, error) {
	langs, err := ParseLangs(tags...)
	if err != nil {
		return Messages{}, err
	}
	return m.Preferred(langs...), nil
}

// PreferredRequest binds the best language for a request. When the request
// carries a language cookie naming a supported language, that language wins;
// otherwise its Accept-Language ranking is negotiated.
func (m *MessagesAPI) PreferredRequest(req Request) Messages {
	if cr, ok := req.(CookieRequest); ok {
		if value, found := cr.LangCookie(m.cookie.Name); found {
			if lang, err := ParseLang(value); err == nil && m.IsSupported(lang) {
				return m.bind(lang)
			}
		}
	}
	return m.Preferred(req.AcceptLanguages()...)
}

// Bind returns Messages for lang without negotiation.
func (m *MessagesAPI) Bind(lang Lang) Messages {
	return m.bind(lang)
}

func (m *MessagesAPI) bind(lang Lang) Messages {
	return Messages{api: m, catalog: m.Catalog(), lang: lang}
}

// IsSupported reports whether lang is one of the supported languages.
func (m *MessagesAPI) IsSupported(lang Lang) bool {
	return slices.Contains(m.supported, lang)
}

// Languages returns the supported languages, default first.
func (m *MessagesAPI) Languages() []Lang {
	return slices.Clone(m.supported)
}

// DefaultLanguage returns the default language.
func (m *MessagesAPI) DefaultLanguage() Lang {
	return m.defaultLang
}

// LangCookieName returns the language cookie name.
func (m *MessagesAPI) LangCookieName() string { return m.cookie.Name }

// LangCookieSecure reports whether the language cookie is Secure.
func (m *MessagesAPI) LangCookieSecure() bool { return m.cookie.Secure }

// LangCookieHTTPOnly reports whether the language cookie is HttpOnly.
func (m *MessagesAPI) LangCookieHTTPOnly() bool { return m.cookie.HTTPOnly }
