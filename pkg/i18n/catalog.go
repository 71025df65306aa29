package i18n

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"time"
)

// Catalog is an immutable snapshot of every loaded message, compiled and indexed
// by language tag. The reserved tag DefaultBundle holds the universal fallback.
// A Catalog is safe for unrestricted concurrent use.
type Catalog struct {
	bundles     map[string]map[string]Template
	locales     *locales
	loadedAt    time.Time
	defaultLang Lang
}

// locales carries per-language formatting overrides shared by every snapshot.
type locales struct {
	formats map[string]*LocaleFormat
	plurals map[string]PluralRule
}

func (l *locales) format(lang Lang) *LocaleFormat {
	if l != nil {
		if lf, ok := l.formats[lang.String()]; ok {
			return lf
		}
		if lf, ok := l.formats[lang.Code()]; ok {
			return lf
		}
	}
	return LocaleFormatFor(lang)
}

func (l *locales) plural(lang Lang) PluralRule {
	if l != nil {
		if rule, ok := l.plurals[lang.String()]; ok {
			return rule
		}
		if rule, ok := l.plurals[lang.Code()]; ok {
			return rule
		}
	}
	return PluralRuleFor(lang)
}

// NewCatalog merges bundles in order, later bundles overriding earlier keys of
// the same language, and compiles every template. Bundle languages are
// canonicalised ("en_us" and "en-US" are the same bundle); an unparseable
// language fails the build.
func NewCatalog(defaultLang Lang, bundles ...Bundle) (*Catalog, error) {
	return newCatalog(defaultLang, bundles, nil)
}

func newCatalog(defaultLang Lang, bundles []Bundle, loc *locales) (*Catalog, error) {
	if defaultLang.IsZero() {
		return nil, ErrEmptyLanguage
	}

	merged := make(map[string]map[string]string)
	for _, b := range bundles {
		tag, err := bundleTag(b.Lang)
		if err != nil {
			return nil, fmt.Errorf("%w: bundle %s: %w", ErrInvalidBundle, b.Source, err)
		}
		if merged[tag] == nil {
			merged[tag] = make(map[string]string, len(b.Messages))
		}
		maps.Copy(merged[tag], b.Messages)
	}

	compiled := make(map[string]map[string]Template, len(merged))
	for tag, messages := range merged {
		templates := make(map[string]Template, len(messages))
		for key, raw := range messages {
			templates[key] = CompileTemplate(raw)
		}
		compiled[tag] = templates
	}

	return &Catalog{
		bundles:     compiled,
		locales:     loc,
		defaultLang: defaultLang,
		loadedAt:    time.Now(),
	}, nil
}

func bundleTag(lang string) (string, error) {
	if lang == DefaultBundle {
		return DefaultBundle, nil
	}
	l, err := ParseLang(lang)
	if err != nil {
		return "", err
	}
	return l.String(), nil
}

// DefaultLanguage returns the application default language used in the fallback chain.
func (c *Catalog) DefaultLanguage() Lang { return c.defaultLang }

// LoadedAt returns when the snapshot was built.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// Lookup returns the template registered for exactly lang and key.
func (c *Catalog) Lookup(lang Lang, key string) (Template, bool) {
	return c.lookupTag(lang.String(), key)
}

func (c *Catalog) lookupTag(tag, key string) (Template, bool) {
	tpl, ok := c.bundles[tag][key]
	return tpl, ok
}

// Resolve applies the fallback chain: lang, its primary language, the default
// language (exact, then primary) and finally the default bundle.
func (c *Catalog) Resolve(lang Lang, key string) (Template, bool) {
	for _, tag := range c.Chain(lang) {
		if tpl, ok := c.lookupTag(tag, key); ok {
			return tpl, true
		}
	}
	return Template{}, false
}

// IsDefinedAt reports whether Resolve finds key for lang.
func (c *Catalog) IsDefinedAt(lang Lang, key string) bool {
	_, ok := c.Resolve(lang, key)
	return ok
}

// Chain returns the bundle tags consulted by Resolve for lang, without duplicates.
func (c *Catalog) Chain(lang Lang) []string {
	chain := make([]string, 0, 5)
	add := func(tag string) {
		if tag != "" && !slices.Contains(chain, tag) {
			chain = append(chain, tag)
		}
	}

	if !lang.IsZero() {
		add(lang.String())
		add(lang.Code())
	}
	add(c.defaultLang.String())
	add(c.defaultLang.Code())
	add(DefaultBundle)
	return chain
}

// Format renders tpl for lang. Missing arguments stay as their literal
// placeholder; extra arguments are ignored.
func (c *Catalog) Format(lang Lang, tpl Template, args ...any) string {
	r := &renderer{cat: c, lang: lang, args: args}
	return r.run(tpl)
}

// Render resolves key and formats it. The boolean is false when the key is
// not defined anywhere in the chain, in which case the string is empty.
func (c *Catalog) Render(lang Lang, key string, args ...any) (string, bool) {
	tpl, ok := c.Resolve(lang, key)
	if !ok {
		return "", false
	}
	return c.Format(lang, tpl, args...), true
}

// Languages returns the languages that have a bundle, sorted by tag.
// The default bundle is not included.
func (c *Catalog) Languages() []Lang {
	langs := make([]Lang, 0, len(c.bundles))
	for tag := range c.bundles {
		if tag == DefaultBundle {
			continue
		}
		if l, err := ParseLang(tag); err == nil {
			langs = append(langs, l)
		}
	}
	slices.SortFunc(langs, func(a, b Lang) int {
		return cmp.Compare(a.String(), b.String())
	})
	return langs
}

// HasBundle reports whether a bundle exists for tag (a language tag or DefaultBundle).
func (c *Catalog) HasBundle(tag string) bool {
	_, ok := c.bundles[tag]
	return ok
}

// Keys returns the sorted keys of the bundle for tag.
func (c *Catalog) Keys(tag string) []string {
	return slices.Sorted(maps.Keys(c.bundles[tag]))
}

// KeyCounts returns the number of keys per bundle tag.
func (c *Catalog) KeyCounts() map[string]int {
	counts := make(map[string]int, len(c.bundles))
	for tag, templates := range c.bundles {
		counts[tag] = len(templates)
	}
	return counts
}
