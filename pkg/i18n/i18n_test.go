package i18n_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

func newAPI(t *testing.T, opts ...i18n.Option) *i18n.MessagesAPI {
	t.Helper()
	base := []i18n.Option{
		i18n.WithLanguages("en", "fr", "en-US", "de"),
		i18n.WithSources(i18n.DirSource(confFS(t))),
	}
	api, err := i18n.New(context.Background(), append(base, opts...)...)
	require.NoError(t, err)
	return api
}

// swapSource serves whatever bundles are currently stored, or fails.
type swapSource struct {
	bundles atomic.Pointer[[]i18n.Bundle]
	fail    atomic.Bool
	loads   atomic.Int32
}

func (s *swapSource) Name() string { return "swap" }

func (s *swapSource) Load(context.Context) ([]i18n.Bundle, error) {
	s.loads.Add(1)
	if s.fail.Load() {
		return nil, errors.New("backend unavailable")
	}
	return *s.bundles.Load(), nil
}

func (s *swapSource) set(version string) {
	bundles := []i18n.Bundle{{Lang: "en", Messages: map[string]string{
		"version": version,
		"pair":    version + "-" + version,
	}}}
	s.bundles.Store(&bundles)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults without options", func(t *testing.T) {
		t.Parallel()
		api, err := i18n.New(context.Background())
		require.NoError(t, err)
		assert.Equal(t, en, api.DefaultLanguage())
		assert.Equal(t, []i18n.Lang{en}, api.Languages())
		assert.Equal(t, i18n.DefaultCookieName, api.LangCookieName())
	})

	t.Run("default language comes first", func(t *testing.T) {
		t.Parallel()
		api, err := i18n.New(context.Background(),
			i18n.WithLanguages("fr", "de", "en", "de"),
			i18n.WithDefaultLanguage("en"),
		)
		require.NoError(t, err)
		assert.Equal(t, langs("en", "de", "fr"), api.Languages())
	})

	t.Run("first language is the default when none is set", func(t *testing.T) {
		t.Parallel()
		api, err := i18n.New(context.Background(), i18n.WithLanguages("pl", "en"))
		require.NoError(t, err)
		assert.Equal(t, i18n.MustParseLang("pl"), api.DefaultLanguage())
	})

	t.Run("default language is added to the supported set", func(t *testing.T) {
		t.Parallel()
		api, err := i18n.New(context.Background(),
			i18n.WithLanguages("fr"),
			i18n.WithDefaultLanguage("en"),
		)
		require.NoError(t, err)
		assert.Equal(t, langs("en", "fr"), api.Languages())
	})

	t.Run("invalid options fail", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(context.Background(), i18n.WithDefaultLanguage("not a tag"))
		require.ErrorIs(t, err, i18n.ErrInvalidLanguageTag)

		_, err = i18n.New(context.Background(), i18n.WithDefaultLanguage(""))
		require.ErrorIs(t, err, i18n.ErrEmptyLanguage)

		_, err = i18n.New(context.Background(), i18n.WithSources(nil))
		require.ErrorIs(t, err, i18n.ErrNilSource)

		_, err = i18n.New(context.Background(), i18n.WithLanguages())
		require.ErrorIs(t, err, i18n.ErrNoLanguages)

		_, err = i18n.New(context.Background(), i18n.WithPluralRule("en", nil))
		require.ErrorIs(t, err, i18n.ErrNilPluralRule)
	})

	t.Run("malformed bundles are fatal", func(t *testing.T) {
		t.Parallel()
		sub := mustSub(t, "testdata/broken")
		_, err := i18n.New(context.Background(), i18n.WithSources(i18n.DirSource(sub)))
		require.ErrorIs(t, err, i18n.ErrInvalidBundle)
		assert.Contains(t, err.Error(), "source dir")
	})

	t.Run("every failing source is reported", func(t *testing.T) {
		t.Parallel()
		a, b := &swapSource{}, &swapSource{}
		a.fail.Store(true)
		b.fail.Store(true)
		_, err := i18n.New(context.Background(), i18n.WithSources(a, b))
		require.Error(t, err)
		assert.Len(t, err.(interface{ Unwrap() []error }).Unwrap(), 2)
	})
}

func TestMessagesAPI_Get(t *testing.T) {
	t.Parallel()
	api := newAPI(t)

	t.Run("formats arguments", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Hi, Ann!", api.Get(en, "greeting", "Ann"))
		assert.Equal(t, "Salut, Ann !", api.Get(fr, "greeting", "Ann"))
	})

	t.Run("explicit argument list formats like variadic arguments", func(t *testing.T) {
		t.Parallel()
		args := []any{"email", 3}
		assert.Equal(t,
			api.Get(en, "errors.validation.min", "email", 3),
			api.GetArgs(en, "errors.validation.min", args),
		)
		assert.Equal(t, "email must be at least 3", api.GetArgs(en, "errors.validation.min", args))
	})

	t.Run("region falls back to primary then default", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Color", api.Get(enUS, "color"))
		assert.Equal(t, "Hi, Bob!", api.Get(enUS, "greeting", "Bob"))
		assert.Equal(t, "From the default bundle", api.Get(fr, "fallback.only"))
		assert.Equal(t, "{0} is required", api.Get(de, "errors.required"))
	})

	t.Run("missing key renders the key", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "no.such.key", api.Get(fr, "no.such.key"))
		assert.Equal(t, "no.such.key", api.Get(i18n.MustParseLang("ja"), "no.such.key", 1, 2))
	})

	t.Run("missing arguments stay literal", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "{0} must be at least {1}", api.Get(en, "errors.validation.min"))
		assert.Equal(t, "x must be at least {1}", api.Get(en, "errors.validation.min", "x"))
	})

	t.Run("file features survive loading", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "It's {0} literally", api.Get(en, "quoted", "x"))
		assert.Equal(t, "See the Polyglot docs", api.Get(en, "help"))
		assert.Equal(t, "No items", api.Get(en, "items", 0))
		assert.Equal(t, "3 items", api.Get(en, "items", 3))
		assert.Equal(t, "2 articles", api.Get(fr, "items", 2))
		assert.Equal(t, "one file", api.Get(en, "files", 1))
	})

	t.Run("multi key returns first defined", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Color", api.GetFirst(enUS, []string{"missing", "color", "greeting"}))
		assert.Equal(t, "Hi, Zoe!", api.GetFirstArgs(en, []string{"missing", "greeting"}, []any{"Zoe"}))
	})

	t.Run("multi key renders the last key when none is defined", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "b.missing", api.GetFirst(en, []string{"a.missing", "b.missing"}))
		assert.Equal(t, "", api.GetFirst(en, nil))
	})

	t.Run("is defined at follows the fallback chain", func(t *testing.T) {
		t.Parallel()
		assert.True(t, api.IsDefinedAt(enUS, "greeting"))
		assert.True(t, api.IsDefinedAt(de, "app.title"))
		assert.True(t, api.IsDefinedAt(fr, "links.docs"))
		assert.False(t, api.IsDefinedAt(fr, "no.such.key"))
	})
}

func TestMessagesAPI_MissingKeyHandler(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		missed []string
	)
	api := newAPI(t, i18n.WithMissingKeyHandler(func(lang i18n.Lang, key string) {
		mu.Lock()
		defer mu.Unlock()
		missed = append(missed, lang.String()+":"+key)
	}))

	api.Get(fr, "greeting", "x")
	api.Get(fr, "nope")
	api.GetFirst(enUS, []string{"a", "b"})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"fr:nope", "en-US:b"}, missed)
}

func TestMessagesAPI_Preferred(t *testing.T) {
	t.Parallel()
	api := newAPI(t)

	t.Run("negotiates candidates", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, fr, api.Preferred(langs("fr-CA", "en")...).Lang())
		assert.Equal(t, en, api.Preferred(langs("ja")...).Lang())
		assert.Equal(t, enUS, api.Preferred(langs("en-US", "en")...).Lang())
		assert.Equal(t, en, api.Preferred().Lang())
	})

	t.Run("raw tags report invalid syntax", func(t *testing.T) {
		t.Parallel()
		msgs, err := api.PreferredTags("de-CH", "fr")
		require.NoError(t, err)
		assert.Equal(t, de, msgs.Lang())

		_, err = api.PreferredTags("fr", "%%")
		require.ErrorIs(t, err, i18n.ErrInvalidLanguageTag)

		_, err = api.PreferredTags("")
		require.ErrorIs(t, err, i18n.ErrInvalidLanguageTag)
	})

	t.Run("request header", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Accept-Language", "ja,fr-CA;q=0.8,en;q=0.5")
		assert.Equal(t, fr, api.PreferredRequest(i18n.NewHTTPRequest(r)).Lang())
	})

	t.Run("supported cookie wins over header", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Accept-Language", "fr")
		r.AddCookie(&http.Cookie{Name: i18n.DefaultCookieName, Value: "de"})
		assert.Equal(t, de, api.PreferredRequest(i18n.NewHTTPRequest(r)).Lang())
	})

	t.Run("unsupported or invalid cookie is ignored", func(t *testing.T) {
		t.Parallel()
		for _, value := range []string{"ja", "???"} {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Accept-Language", "fr")
			r.AddCookie(&http.Cookie{Name: i18n.DefaultCookieName, Value: value})
			assert.Equal(t, fr, api.PreferredRequest(i18n.NewHTTPRequest(r)).Lang(), value)
		}
	})

	t.Run("plain candidate requests", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, de, api.PreferredRequest(i18n.Candidates(langs("de-AT"))).Lang())
	})
}

func TestMessages(t *testing.T) {
	t.Parallel()
	api := newAPI(t)
	msgs := api.Preferred(langs("fr-FR")...)

	assert.Equal(t, fr, msgs.Lang())
	assert.Equal(t, "Salut, Léa !", msgs.Get("greeting", "Léa"))
	assert.Equal(t, "Salut, Léa !", msgs.GetArgs("greeting", []any{"Léa"}))
	assert.Equal(t, "{0} est obligatoire", msgs.GetFirst([]string{"missing", "errors.required"}))
	assert.Equal(t, "email est obligatoire", msgs.GetFirstArgs([]string{"errors.required"}, []any{"email"}))
	assert.Equal(t, "missing", msgs.GetFirst([]string{"missing"}))
	assert.True(t, msgs.IsDefinedAt("fallback.only"))
	assert.False(t, msgs.IsDefinedAt("missing"))
	assert.Equal(t, "2 + 2 = 4", msgs.Format("{0} + {0} = {1}", 2, 4))
	assert.Equal(t, "Hi, {0}!", api.Bind(en).Get("greeting"))
}

func TestMessages_ZeroValue(t *testing.T) {
	t.Parallel()

	var msgs i18n.Messages
	assert.Equal(t, "greeting", msgs.Get("greeting", "Léa"))
	assert.Equal(t, "b", msgs.GetFirstArgs([]string{"a", "b"}, nil))
	assert.Empty(t, msgs.GetFirst(nil))
	assert.False(t, msgs.IsDefinedAt("greeting"))
	assert.Equal(t, "Hi Léa", msgs.Format("Hi {0}", "Léa"))
}

func TestMessagesAPI_Reload(t *testing.T) {
	t.Parallel()

	t.Run("publishes the new catalog", func(t *testing.T) {
		t.Parallel()
		src := &swapSource{}
		src.set("v1")
		api, err := i18n.New(context.Background(), i18n.WithSources(src))
		require.NoError(t, err)

		bound := api.Bind(en)
		src.set("v2")
		require.NoError(t, api.Reload(context.Background()))

		assert.Equal(t, "v2", api.Get(en, "version"))
		assert.Equal(t, "v1", bound.Get("version"), "bound messages keep their snapshot")
	})

	t.Run("failed reload keeps the previous catalog", func(t *testing.T) {
		t.Parallel()
		src := &swapSource{}
		src.set("v1")
		api, err := i18n.New(context.Background(), i18n.WithSources(src))
		require.NoError(t, err)

		before := api.Catalog()
		src.fail.Store(true)
		require.Error(t, api.Reload(context.Background()))
		assert.Same(t, before, api.Catalog())
		assert.Equal(t, "v1", api.Get(en, "version"))
	})

	t.Run("concurrent readers see whole snapshots", func(t *testing.T) {
		t.Parallel()
		src := &swapSource{}
		src.set("v0")
		api, err := i18n.New(context.Background(), i18n.WithSources(src))
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for ctx.Err() == nil {
					msgs := api.Bind(en)
					v := msgs.Get("version")
					assert.Equal(t, v+"-"+v, msgs.Get("pair"))
				}
			}()
		}

		for i := 1; ctx.Err() == nil; i++ {
			src.set(time.Duration(i).String())
			require.NoError(t, api.Reload(context.Background()))
		}
		wg.Wait()
	})
}

func TestMessagesAPI_Options(t *testing.T) {
	t.Parallel()

	t.Run("cookie configuration passthrough", func(t *testing.T) {
		t.Parallel()
		api := newAPI(t, i18n.WithCookie(i18n.CookieConfig{Name: "PLAY_LANG", Secure: true, HTTPOnly: true}))
		assert.Equal(t, "PLAY_LANG", api.LangCookieName())
		assert.True(t, api.LangCookieSecure())
		assert.True(t, api.LangCookieHTTPOnly())

		api = newAPI(t, i18n.WithCookie(i18n.CookieConfig{Secure: true}))
		assert.Equal(t, i18n.DefaultCookieName, api.LangCookieName())
		assert.False(t, api.LangCookieHTTPOnly())
	})

	t.Run("locale format override", func(t *testing.T) {
		t.Parallel()
		swiss := i18n.NewLocaleFormat(i18n.WithCurrencySymbol("CHF "), i18n.WithThousandSeparator("'"))
		api, err := i18n.New(context.Background(),
			i18n.WithLanguages("de", "de-CH"),
			i18n.WithLocaleFormat("de-CH", swiss),
			i18n.WithSources(i18n.StaticSource("de", map[string]any{"price": "{0,number,currency}"})),
		)
		require.NoError(t, err)
		assert.Equal(t, "CHF 1'000.00", api.Get(i18n.MustParseLang("de-CH"), "price", 1000))
		assert.Equal(t, "1.000,00 €", api.Get(de, "price", 1000))
	})

	t.Run("plural rule override", func(t *testing.T) {
		t.Parallel()
		api, err := i18n.New(context.Background(),
			i18n.WithPluralRule("en", func(int) string { return i18n.PluralMany }),
			i18n.WithSources(i18n.StaticSource("en", map[string]any{"n": "{0,plural,one#one|many#many}"})),
		)
		require.NoError(t, err)
		assert.Equal(t, "many", api.Get(en, "n", 1))
	})
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := i18n.NewMetrics(reg)
	src := &swapSource{}
	src.set("v1")

	api, err := i18n.New(context.Background(), i18n.WithSources(src), i18n.WithMetrics(metrics))
	require.NoError(t, err)

	api.Get(en, "version")
	api.Get(en, "version")
	api.Get(en, "missing")

	require.NoError(t, api.Reload(context.Background()))
	src.fail.Store(true)
	require.Error(t, api.Reload(context.Background()))

	expected := `
# HELP i18n_lookups_total Message lookups by result (hit or miss)
# TYPE i18n_lookups_total counter
i18n_lookups_total{result="hit"} 2
i18n_lookups_total{result="miss"} 1
# HELP i18n_reloads_total Catalog reloads by result (success or failure)
# TYPE i18n_reloads_total counter
i18n_reloads_total{result="failure"} 1
i18n_reloads_total{result="success"} 1
# HELP i18n_catalog_keys Number of message keys per bundle in the current catalog
# TYPE i18n_catalog_keys gauge
i18n_catalog_keys{lang="en"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"i18n_lookups_total", "i18n_reloads_total", "i18n_catalog_keys"))
}

func TestReloader(t *testing.T) {
	t.Parallel()

	t.Run("rejects an invalid schedule", func(t *testing.T) {
		t.Parallel()
		api := newAPI(t)
		_, err := i18n.NewReloader(api, "every tuesday", time.Second)
		require.Error(t, err)
	})

	t.Run("runs reloads on schedule", func(t *testing.T) {
		t.Parallel()
		src := &swapSource{}
		src.set("v1")
		api, err := i18n.New(context.Background(), i18n.WithSources(src))
		require.NoError(t, err)

		r, err := i18n.NewReloader(api, "@every 1s", time.Second)
		require.NoError(t, err)
		require.NoError(t, r.Start(context.Background()))
		require.ErrorIs(t, r.Start(context.Background()), i18n.ErrReloaderStarted)
		assert.False(t, r.Next().IsZero())

		src.set("v2")
		require.Eventually(t, func() bool {
			return api.Get(en, "version") == "v2"
		}, 5*time.Second, 50*time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, r.Stop(ctx))
		require.NoError(t, r.Stop(ctx))
	})
}
