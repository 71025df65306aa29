package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultBundle is the reserved pseudo-language of the universal fallback bundle
// (the plain "messages" file).
const DefaultBundle = "default"

// Lang is a language tag reduced to its primary language and optional region.
// The zero value means "no language".
type Lang struct {
	code   string
	region string
}

// ParseLang parses a BCP 47 tag such as "en", "en-US" or "pt_br".
// Scripts, variants and extensions are dropped.
// Malformed tags return an error wrapping ErrInvalidLanguageTag.
func ParseLang(tag string) (Lang, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Lang{}, fmt.Errorf("%w: %w", ErrInvalidLanguageTag, ErrEmptyLanguage)
	}

	t, err := language.Parse(tag)
	if err != nil {
		return Lang{}, fmt.Errorf("%w: %q: %s", ErrInvalidLanguageTag, tag, err)
	}

	base, _ := t.Base()
	l := Lang{code: base.String()}
	// Region() guesses a region for bare tags; only keep an explicit one.
	if region, conf := t.Region(); conf == language.Exact {
		l.region = region.String()
	}
	return l, nil
}

// MustParseLang is like ParseLang but panics on error.
// Intended for constants and tests.
func MustParseLang(tag string) Lang {
	l, err := ParseLang(tag)
	if err != nil {
		panic(err)
	}
	return l
}

// ParseLangs parses every tag, stopping at the first invalid one.
func ParseLangs(tags ...string) ([]Lang, error) {
	langs := make([]Lang, 0, len(tags))
	for _, tag := range tags {
		l, err := ParseLang(tag)
		if err != nil {
			return nil, err
		}
		langs = append(langs, l)
	}
	return langs, nil
}

// Code returns the primary language subtag, e.g. "en".
func (l Lang) Code() string { return l.code }

// Region returns the region subtag, e.g. "US", or "" when absent.
func (l Lang) Region() string { return l.region }

// HasRegion reports whether the tag carries a region.
func (l Lang) HasRegion() bool { return l.region != "" }

// IsZero reports whether l is the zero Lang.
func (l Lang) IsZero() bool { return l.code == "" }

// Primary returns the language without its region.
func (l Lang) Primary() Lang { return Lang{code: l.code} }

// String returns the canonical tag, e.g. "en-US".
func (l Lang) String() string {
	if l.region == "" {
		return l.code
	}
	return l.code + "-" + l.region
}

// Tag converts l to an x/text language tag.
func (l Lang) Tag() language.Tag {
	if l.IsZero() {
		return language.Und
	}
	return language.Make(l.String())
}

// MarshalText implements encoding.TextMarshaler.
func (l Lang) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lang) UnmarshalText(text []byte) error {
	parsed, err := ParseLang(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
