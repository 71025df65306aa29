package i18n

import (
	"log/slog"
)

// DefaultCookieName is the language cookie name used when none is configured.
const DefaultCookieName = "lang"

// CookieConfig describes the cookie that stores an explicit language choice.
type CookieConfig struct {
	Name     string
	Secure   bool
	HTTPOnly bool
}

// Option configures a MessagesAPI during construction.
type Option func(*MessagesAPI) error

// WithSources appends bundle sources. Sources are loaded in order; later ones
// override keys of earlier ones for the same language.
func WithSources(sources ...Source) Option {
	return func(m *MessagesAPI) error {
		for _, src := range sources {
			if src == nil {
				return ErrNilSource
			}
		}
		m.sources = append(m.sources, sources...)
		return nil
	}
}

// WithDefaultLanguage sets the language used when negotiation finds no match
// and as the last language step of the fallback chain.
func WithDefaultLanguage(tag string) Option {
	return func(m *MessagesAPI) error {
		lang, err := ParseLang(tag)
		if err != nil {
			return err
		}
		m.defaultLang = lang
		return nil
	}
}

// WithLanguages sets the supported languages. The default language is always
// supported and listed first. An empty list is rejected with ErrNoLanguages.
func WithLanguages(tags ...string) Option {
	return func(m *MessagesAPI) error {
		if len(tags) == 0 {
			return ErrNoLanguages
		}
		langs, err := ParseLangs(tags...)
		if err != nil {
			return err
		}
		m.supported = langs
		return nil
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *MessagesAPI) error {
		if log != nil {
			m.logger = log
		}
		return nil
	}
}

// WithMissingKeyHandler registers a callback invoked whenever a lookup falls
// through the whole chain. Useful to surface untranslated keys.
func WithMissingKeyHandler(handler func(lang Lang, key string)) Option {
	return func(m *MessagesAPI) error {
		m.missingKeyHandler = handler
		return nil
	}
}

// WithLocaleFormat overrides number/date formatting for a language tag
// ("de" covers every German region, "de-CH" only Switzerland).
func WithLocaleFormat(tag string, format *LocaleFormat) Option {
	return func(m *MessagesAPI) error {
		lang, err := ParseLang(tag)
		if err != nil {
			return err
		}
		if format != nil {
			m.locales.formats[lang.String()] = format
		}
		return nil
	}
}

// WithPluralRule overrides the plural rule of a language tag.
func WithPluralRule(tag string, rule PluralRule) Option {
	return func(m *MessagesAPI) error {
		lang, err := ParseLang(tag)
		if err != nil {
			return err
		}
		if rule == nil {
			return ErrNilPluralRule
		}
		m.locales.plurals[lang.String()] = rule
		return nil
	}
}

// WithCookie sets the language cookie configuration. An empty name keeps DefaultCookieName.
func WithCookie(cfg CookieConfig) Option {
	return func(m *MessagesAPI) error {
		if cfg.Name == "" {
			cfg.Name = DefaultCookieName
		}
		m.cookie = cfg
		return nil
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(metrics *Metrics) Option {
	return func(m *MessagesAPI) error {
		m.metrics = metrics
		return nil
	}
}
