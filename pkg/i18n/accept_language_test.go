package i18n_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

func tags(langs []i18n.Lang) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		out = append(out, l.String())
	}
	return out
}

func TestParseAcceptLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   string
		expected []string
	}{
		{name: "empty header", header: "", expected: []string{}},
		{name: "single language", header: "pl", expected: []string{"pl"}},
		{name: "sorted by quality", header: "de;q=0.5,pl;q=0.9,en;q=0.8", expected: []string{"pl", "en", "de"}},
		{name: "equal quality keeps header order", header: "en,pl,de", expected: []string{"en", "pl", "de"}},
		{name: "regions are canonicalised", header: "EN-us,PL;q=0.9", expected: []string{"en-US", "pl"}},
		{name: "whitespace handling", header: " en , pl ; q=0.9 , de ; q=0.8 ", expected: []string{"en", "pl", "de"}},
		{name: "invalid quality value counts as 1", header: "en;q=invalid,pl;q=0.5", expected: []string{"en", "pl"}},
		{name: "out of range quality counts as 1", header: "de;q=0.5,en;q=2.5", expected: []string{"en", "de"}},
		{name: "wildcard is skipped", header: "*,en;q=0.5", expected: []string{"en"}},
		{name: "zero quality is skipped", header: "en;q=0,fr", expected: []string{"fr"}},
		{name: "invalid tags are skipped", header: "not a tag,fr;q=0.7", expected: []string{"fr"}},
		{name: "duplicates are dropped", header: "en,en;q=0.5,fr;q=0.4", expected: []string{"en", "fr"}},
		{name: "extra parameters", header: "en;level=1;q=0.4,fr;q=0.6", expected: []string{"fr", "en"}},
		{name: "typical browser header", header: "fr-CA,fr;q=0.9,en;q=0.8,*;q=0.5", expected: []string{"fr-CA", "fr", "en"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tags(i18n.ParseAcceptLanguage(tt.header)))
		})
	}

	t.Run("oversized header is truncated safely", func(t *testing.T) {
		t.Parallel()
		header := strings.Repeat("en,", 2000) + "pl"
		assert.Equal(t, []string{"en"}, tags(i18n.ParseAcceptLanguage(header)))
	})
}

func TestNewHTTPRequest(t *testing.T) {
	t.Parallel()

	t.Run("reads header and cookie", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Accept-Language", "fr;q=0.5,de")
		r.AddCookie(&http.Cookie{Name: "lang", Value: "pl"})

		req := i18n.NewHTTPRequest(r)
		assert.Equal(t, []string{"de", "fr"}, tags(req.AcceptLanguages()))

		v, ok := req.LangCookie("lang")
		require.True(t, ok)
		assert.Equal(t, "pl", v)

		_, ok = req.LangCookie("other")
		assert.False(t, ok)
	})

	t.Run("candidates request", func(t *testing.T) {
		t.Parallel()
		req := i18n.Candidates(langs("fr", "en"))
		assert.Equal(t, []string{"fr", "en"}, tags(req.AcceptLanguages()))
	})
}
