package api

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/erstaunlich/wortschatz/app/db"
	"github.com/erstaunlich/wortschatz/app/dictionary"
	"github.com/erstaunlich/wortschatz/app/wikitext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(t *testing.T, word string) dictionary.Entry {
	t.Helper()
	entry := dictionary.NewEntry(word, wikitext.Parse(wordDoc(word)))
	require.True(t, entry.Usable())
	return entry
}

func TestAPISearch(t *testing.T) {
	const path = "/api/v1/search"
	t.Run("success", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		fetcher := &fakeFetcher{
			titles: []string{"Haus", "Hausarbeit"},
			pages: map[string]string{
				"Haus":       wordDoc("Haus"),
				"Hausarbeit": wordDoc("Hausarbeit"),
			},
		}
		ts, cancel := getTestServer(storage, fetcher)
		defer cancel()

		r, err := http.Get(ts.URL + path + "?q=Haus")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, r.StatusCode)

		var entries []dictionary.Entry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&entries))
		require.Len(t, entries, 2)
		assert.Equal(t, "Haus", entries[0].Word.Word)
		assert.Equal(t, "Hausarbeit", entries[1].Word.Word)

		// survivors are cached
		cached, err := storage.Get("Haus")
		require.NoError(t, err)
		assert.Equal(t, entries[0], cached)
	})
	t.Run("short query", func(t *testing.T) {
		ts, cancel := getTestServer(nil, nil)
		defer cancel()
		r, err := http.Get(ts.URL + path + "?q=a")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(body))
	})
	t.Run("search failure yields empty list", func(t *testing.T) {
		ts, cancel := getTestServer(nil, &fakeFetcher{})
		defer cancel()
		r, err := http.Get(ts.URL + path + "?q=Haus")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(body))
	})
}

func TestAPIGetWord(t *testing.T) {
	const path = "/api/v1/words/"
	t.Run("cache hit", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		entry := testEntry(t, "Haus")
		require.NoError(t, storage.Save(entry))
		ts, cancel := getTestServer(storage, nil)
		defer cancel()

		r, err := http.Get(ts.URL + path + "Haus")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, r.StatusCode)

		var got dictionary.Entry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, entry, got)
	})
	t.Run("cache miss fetches and stores", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		fetcher := &fakeFetcher{pages: map[string]string{"Haus": wordDoc("Haus")}}
		ts, cancel := getTestServer(storage, fetcher)
		defer cancel()

		r, err := http.Get(ts.URL + path + "Haus")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, r.StatusCode)

		var got dictionary.Entry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Haus", got.Word.Word)

		cached, err := storage.Get("Haus")
		require.NoError(t, err)
		assert.Equal(t, got, cached)
	})
	t.Run("not found", func(t *testing.T) {
		fetcher := &fakeFetcher{pages: map[string]string{"Haus": ""}}
		ts, cancel := getTestServer(nil, fetcher)
		defer cancel()

		r, err := http.Get(ts.URL + path + "Haus")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, r.StatusCode)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "word not found", string(body))
	})
	t.Run("storage error", func(t *testing.T) {
		storage := ErrorStorage{db.NewInMemoryStorage()}
		ts, cancel := getTestServer(storage, nil)
		defer cancel()

		r, err := http.Get(ts.URL + path + "Haus")
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, r.StatusCode)
	})
}

func TestAPIFeatured(t *testing.T) {
	ts, cancel := getTestServer(nil, nil)
	defer cancel()
	r, err := http.Get(ts.URL + "/api/v1/words/featured")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, r.StatusCode)

	var words []string
	require.NoError(t, json.NewDecoder(r.Body).Decode(&words))
	assert.Equal(t, dictionary.Featured(), words)
}

func TestAPIRandom(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fetcher := &fakeFetcher{titles: []string{"Haus", "Hausarbeit", "Haustier"}}
		ts, cancel := getTestServer(nil, fetcher)
		defer cancel()

		r, err := http.Get(ts.URL + "/api/v1/words/random?count=2")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, r.StatusCode)

		var words []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&words))
		assert.LessOrEqual(t, len(words), 2)
	})
	t.Run("invalid count", func(t *testing.T) {
		ts, cancel := getTestServer(nil, nil)
		defer cancel()
		r, err := http.Get(ts.URL + "/api/v1/words/random?count=abc")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	})
}

func TestAPICategories(t *testing.T) {
	ts, cancel := getTestServer(nil, nil)
	defer cancel()
	r, err := http.Get(ts.URL + "/api/v1/categories")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, r.StatusCode)

	var categories []dictionary.Category
	require.NoError(t, json.NewDecoder(r.Body).Decode(&categories))
	assert.Equal(t, dictionary.Categories(), categories)
}
