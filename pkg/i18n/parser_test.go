package i18n_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

func TestParseMessages(t *testing.T) {
	t.Parallel()

	t.Run("parses entries and skips comments", func(t *testing.T) {
		t.Parallel()
		src := "# comment\n! another\n\ngreeting = Hello\n  farewell=Bye  \n"
		got, err := i18n.ParseMessages(strings.NewReader(src), "messages")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"greeting": "Hello", "farewell": "Bye"}, got)
	})

	t.Run("value may contain separators", func(t *testing.T) {
		t.Parallel()
		got, err := i18n.ParseMessages(strings.NewReader("url = a=b&c=d"), "messages")
		require.NoError(t, err)
		assert.Equal(t, "a=b&c=d", got["url"])
	})

	t.Run("joins continuation lines", func(t *testing.T) {
		t.Parallel()
		src := "long = one \\\n    two \\\n    three\nnext = x"
		got, err := i18n.ParseMessages(strings.NewReader(src), "messages")
		require.NoError(t, err)
		assert.Equal(t, "one two three", got["long"])
		assert.Equal(t, "x", got["next"])
	})

	t.Run("even trailing backslashes do not continue", func(t *testing.T) {
		t.Parallel()
		src := "dir = C:\\\\\nnext = x"
		got, err := i18n.ParseMessages(strings.NewReader(src), "messages")
		require.NoError(t, err)
		assert.Equal(t, `C:\`, got["dir"])
		assert.Equal(t, "x", got["next"])
	})

	t.Run("decodes escapes", func(t *testing.T) {
		t.Parallel()
		src := `esc = a\nb\tc\=d\:e\#f\!g\\h\u00e9\q`
		got, err := i18n.ParseMessages(strings.NewReader(src), "messages")
		require.NoError(t, err)
		assert.Equal(t, "a\nb\tc=d:e#f!g\\hé\\q", got["esc"])
	})

	t.Run("joins surrogate pairs", func(t *testing.T) {
		t.Parallel()
		src := `smile = \uD83D\uDE00 ok` + "\n" + `lone = \uD83D!`
		got, err := i18n.ParseMessages(strings.NewReader(src), "messages")
		require.NoError(t, err)
		assert.Equal(t, "😀 ok", got["smile"])
		assert.Equal(t, "\uFFFD!", got["lone"])
	})

	t.Run("escaped key separator", func(t *testing.T) {
		t.Parallel()
		got, err := i18n.ParseMessages(strings.NewReader(`a\=b = c`), "messages")
		require.NoError(t, err)
		assert.Equal(t, "c", got["a=b"])
	})

	t.Run("keeps escaped trailing space", func(t *testing.T) {
		t.Parallel()
		got, err := i18n.ParseMessages(strings.NewReader(`prefix = Dear\ `), "messages")
		require.NoError(t, err)
		assert.Equal(t, "Dear ", got["prefix"])
	})

	t.Run("empty value", func(t *testing.T) {
		t.Parallel()
		got, err := i18n.ParseMessages(strings.NewReader("empty ="), "messages")
		require.NoError(t, err)
		v, ok := got["empty"]
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("later duplicate wins", func(t *testing.T) {
		t.Parallel()
		got, err := i18n.ParseMessages(strings.NewReader("k = 1\nk = 2"), "messages")
		require.NoError(t, err)
		assert.Equal(t, "2", got["k"])
	})

	t.Run("strips byte order mark and CRLF", func(t *testing.T) {
		t.Parallel()
		got, err := i18n.ParseMessages(strings.NewReader("\ufeffk = v\r\nm = n\r\n"), "messages")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"k": "v", "m": "n"}, got)
	})

	t.Run("reports every malformed line and keeps valid ones", func(t *testing.T) {
		t.Parallel()
		src := "ok = 1\nno separator\n= v\nbad key = x\nu = \\u12\nlast = 2"
		got, err := i18n.ParseMessages(strings.NewReader(src), "conf/messages.en")
		require.Error(t, err)
		require.ErrorIs(t, err, i18n.ErrInvalidBundle)
		assert.Equal(t, map[string]string{"ok": "1", "last": "2"}, got)

		var lines []int
		for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
			var pe *i18n.ParseError
			require.True(t, errors.As(e, &pe))
			assert.Equal(t, "conf/messages.en", pe.Source)
			lines = append(lines, pe.Line)
		}
		assert.Equal(t, []int{2, 3, 4, 5}, lines)
	})

	t.Run("parse error message names source and line", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.ParseMessages(strings.NewReader("\n\noops"), "messages.fr")
		require.EqualError(t, err, "i18n: messages.fr:3: missing '=' separator")
	})
}
