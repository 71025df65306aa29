package i18n

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLanguage      = errors.New("i18n: language cannot be empty")
	ErrInvalidLanguageTag = errors.New("i18n: invalid language tag")
	ErrInvalidBundle      = errors.New("i18n: invalid message bundle")
	ErrNoLanguages        = errors.New("i18n: no supported languages configured")
	ErrNilSource          = errors.New("i18n: bundle source cannot be nil")
	ErrUnsupportedFormat  = errors.New("i18n: unsupported bundle format")
	ErrNilPluralRule      = errors.New("i18n: plural rule cannot be nil")
)

// ParseError pinpoints a malformed entry in a bundle source.
type ParseError struct {
	Source string
	Line   int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("i18n: %s:%d: %s", e.Source, e.Line, e.Msg)
	}
	return fmt.Sprintf("i18n: %s: %s", e.Source, e.Msg)
}

// Unwrap allows errors.Is(err, ErrInvalidBundle).
func (e *ParseError) Unwrap() error {
	return ErrInvalidBundle
}
