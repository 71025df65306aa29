package redissource_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/i18n/redissource"
)

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := redissource.New(nil)
	require.ErrorIs(t, err, redissource.ErrNilClient)

	client, _ := redismock.NewClientMock()
	src, err := redissource.New(client, redissource.WithPrefix("app"))
	require.NoError(t, err)
	assert.Equal(t, "redis:app", src.Name())
	assert.Equal(t, "app:messages:fr", src.Key("fr"))
}

func TestSource_Load(t *testing.T) {
	t.Parallel()

	t.Run("loads every hash across scan pages", func(t *testing.T) {
		t.Parallel()
		client, mock := redismock.NewClientMock()
		src, err := redissource.New(client, redissource.WithScanCount(2))
		require.NoError(t, err)

		mock.ExpectScan(0, "i18n:messages:*", 2).SetVal([]string{"i18n:messages:fr", "i18n:messages:default"}, 7)
		mock.ExpectScan(7, "i18n:messages:*", 2).SetVal([]string{"i18n:messages:en", "i18n:messages:fr"}, 0)
		mock.ExpectHGetAll("i18n:messages:default").SetVal(map[string]string{"greeting": "Hello"})
		mock.ExpectHGetAll("i18n:messages:en").SetVal(map[string]string{"greeting": "Hi, {0}!"})
		mock.ExpectHGetAll("i18n:messages:fr").SetVal(map[string]string{"greeting": "Salut, {0} !"})

		bundles, err := src.Load(context.Background())
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())

		require.Len(t, bundles, 3)
		assert.Equal(t, i18n.DefaultBundle, bundles[0].Lang)
		assert.Equal(t, "en", bundles[1].Lang)
		assert.Equal(t, "Salut, {0} !", bundles[2].Messages["greeting"])
		assert.Equal(t, "redis:i18n:messages:fr", bundles[2].Source)
	})

	t.Run("feeds a messages api", func(t *testing.T) {
		t.Parallel()
		client, mock := redismock.NewClientMock()
		src, err := redissource.New(client)
		require.NoError(t, err)

		mock.ExpectScan(0, "i18n:messages:*", 100).SetVal([]string{"i18n:messages:en"}, 0)
		mock.ExpectHGetAll("i18n:messages:en").SetVal(map[string]string{"greeting": "Hi, {0}!"})

		api, err := i18n.New(context.Background(), i18n.WithSources(src))
		require.NoError(t, err)
		assert.Equal(t, "Hi, Ann!", api.Get(i18n.MustParseLang("en"), "greeting", "Ann"))
	})

	t.Run("scan failure", func(t *testing.T) {
		t.Parallel()
		client, mock := redismock.NewClientMock()
		src, err := redissource.New(client)
		require.NoError(t, err)

		mock.ExpectScan(0, "i18n:messages:*", 100).SetErr(errors.New("connection refused"))

		_, err = src.Load(context.Background())
		require.ErrorIs(t, err, redissource.ErrLoadFailed)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("hgetall failure", func(t *testing.T) {
		t.Parallel()
		client, mock := redismock.NewClientMock()
		src, err := redissource.New(client)
		require.NoError(t, err)

		mock.ExpectScan(0, "i18n:messages:*", 100).SetVal([]string{"i18n:messages:en"}, 0)
		mock.ExpectHGetAll("i18n:messages:en").SetErr(errors.New("WRONGTYPE"))

		_, err = src.Load(context.Background())
		require.ErrorIs(t, err, redissource.ErrLoadFailed)
		assert.Contains(t, err.Error(), "i18n:messages:en")
	})
}

func TestSource_Write(t *testing.T) {
	t.Parallel()

	t.Run("put sets fields in key order", func(t *testing.T) {
		t.Parallel()
		client, mock := redismock.NewClientMock()
		src, err := redissource.New(client)
		require.NoError(t, err)

		mock.ExpectHSet("i18n:messages:fr", "a", "1", "b", "2").SetVal(2)
		require.NoError(t, src.Put(context.Background(), "fr", map[string]string{"b": "2", "a": "1"}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete removes fields", func(t *testing.T) {
		t.Parallel()
		client, mock := redismock.NewClientMock()
		src, err := redissource.New(client)
		require.NoError(t, err)

		mock.ExpectHDel("i18n:messages:fr", "a", "b").SetVal(2)
		require.NoError(t, src.Delete(context.Background(), "fr", "a", "b"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty language is rejected", func(t *testing.T) {
		t.Parallel()
		client, _ := redismock.NewClientMock()
		src, err := redissource.New(client)
		require.NoError(t, err)

		require.ErrorIs(t, src.Put(context.Background(), "", map[string]string{"a": "b"}), redissource.ErrEmptyLang)
		require.ErrorIs(t, src.Delete(context.Background(), "", "a"), redissource.ErrEmptyLang)
		require.NoError(t, src.Put(context.Background(), "en", nil))
	})
}
