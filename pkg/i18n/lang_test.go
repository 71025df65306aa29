package i18n_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

func TestParseLang(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tag    string
		want   string
		code   string
		region string
	}{
		{name: "primary only", tag: "en", want: "en", code: "en"},
		{name: "with region", tag: "en-US", want: "en-US", code: "en", region: "US"},
		{name: "lower case region", tag: "en-us", want: "en-US", code: "en", region: "US"},
		{name: "underscore separator", tag: "pt_BR", want: "pt-BR", code: "pt", region: "BR"},
		{name: "script is dropped", tag: "zh-Hant-TW", want: "zh-TW", code: "zh", region: "TW"},
		{name: "surrounding whitespace", tag: "  fr-CA ", want: "fr-CA", code: "fr", region: "CA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l, err := i18n.ParseLang(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.String())
			assert.Equal(t, tt.code, l.Code())
			assert.Equal(t, tt.region, l.Region())
			assert.Equal(t, tt.region != "", l.HasRegion())
		})
	}

	t.Run("empty tag", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.ParseLang("")
		require.ErrorIs(t, err, i18n.ErrEmptyLanguage)
		require.ErrorIs(t, err, i18n.ErrInvalidLanguageTag)
	})

	t.Run("malformed tag", func(t *testing.T) {
		t.Parallel()
		for _, tag := range []string{"not a tag", "e", "en--US", "123"} {
			_, err := i18n.ParseLang(tag)
			require.ErrorIs(t, err, i18n.ErrInvalidLanguageTag, tag)
		}
	})
}

func TestLang(t *testing.T) {
	t.Parallel()

	t.Run("equality is tag and region", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, i18n.MustParseLang("en-us"), i18n.MustParseLang("en_US"))
		assert.NotEqual(t, i18n.MustParseLang("en"), i18n.MustParseLang("en-US"))
	})

	t.Run("primary strips region", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, i18n.MustParseLang("en"), i18n.MustParseLang("en-GB").Primary())
	})

	t.Run("zero value", func(t *testing.T) {
		t.Parallel()
		var l i18n.Lang
		assert.True(t, l.IsZero())
		assert.Equal(t, "", l.String())
		assert.Equal(t, language.Und, l.Tag())
	})

	t.Run("converts to x/text tag", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, language.MustParse("de-CH"), i18n.MustParseLang("de-CH").Tag())
	})

	t.Run("text round trip", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(map[string]i18n.Lang{"lang": i18n.MustParseLang("fr-CA")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"lang":"fr-CA"}`, string(data))

		var decoded map[string]i18n.Lang
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, i18n.MustParseLang("fr-CA"), decoded["lang"])
	})

	t.Run("must parse panics on invalid tag", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { i18n.MustParseLang("??") })
	})

	t.Run("parse list stops at first invalid tag", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.ParseLangs("en", "x y", "fr")
		require.ErrorIs(t, err, i18n.ErrInvalidLanguageTag)

		langs, err := i18n.ParseLangs("en", "fr")
		require.NoError(t, err)
		assert.Len(t, langs, 2)
	})
}
