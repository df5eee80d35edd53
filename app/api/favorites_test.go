package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/erstaunlich/wortschatz/app/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoritesList(t *testing.T) {
	const path = "/api/v1/favorites/"
	t.Run("success", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		entry := testEntry(t, "Haus")
		require.NoError(t, storage.Save(entry))
		require.NoError(t, storage.SaveFavorite(db.Favorite{
			Word: "Haus", User: db.UserID(testUserID), Created: time.Now().UTC(),
		}))
		ts, cancel := getTestServer(storage, nil)
		defer cancel()

		req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", getTestJWT())
		r, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, r.StatusCode)

		var favorites []db.FavoriteEntry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&favorites))
		require.Len(t, favorites, 1)
		assert.Equal(t, "Haus", favorites[0].Word)
		assert.Equal(t, entry, favorites[0].Entry)
	})
	t.Run("empty", func(t *testing.T) {
		ts, cancel := getTestServer(nil, nil)
		defer cancel()
		req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", getTestJWT())
		r, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, r.StatusCode)

		var favorites []db.FavoriteEntry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&favorites))
		assert.Len(t, favorites, 0)
	})
	t.Run("unauthorized", func(t *testing.T) {
		ts, cancel := getTestServer(nil, nil)
		defer cancel()
		r, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, r.StatusCode)
	})
	t.Run("storage error", func(t *testing.T) {
		ts, cancel := getTestServer(ErrorStorage{db.NewInMemoryStorage()}, nil)
		defer cancel()
		req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", getTestJWT())
		r, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, r.StatusCode)
	})
}

func TestFavoritesPut(t *testing.T) {
	const path = "/api/v1/favorites/Haus"
	t.Run("created", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		ts, cancel := getTestServer(storage, nil)
		defer cancel()

		req, err := http.NewRequest(http.MethodPut, ts.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", getTestJWT())
		r, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, r.StatusCode)

		favorite, err := storage.GetFavorite(db.UserID(testUserID), "Haus")
		require.NoError(t, err)
		assert.Equal(t, "Haus", favorite.Word)
		assert.WithinDuration(t, time.Now().UTC(), favorite.Created, time.Minute)
	})
	t.Run("already exists", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		created := time.Now().UTC().Add(-time.Hour)
		require.NoError(t, storage.SaveFavorite(db.Favorite{
			Word: "Haus", User: db.UserID(testUserID), Created: created,
		}))
		ts, cancel := getTestServer(storage, nil)
		defer cancel()

		req, err := http.NewRequest(http.MethodPut, ts.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", getTestJWT())
		r, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, r.StatusCode)

		// original creation time is preserved
		favorite, err := storage.GetFavorite(db.UserID(testUserID), "Haus")
		require.NoError(t, err)
		assert.True(t, created.Equal(favorite.Created))
	})
	t.Run("unauthorized", func(t *testing.T) {
		ts, cancel := getTestServer(nil, nil)
		defer cancel()
		req, err := http.NewRequest(http.MethodPut, ts.URL+path, nil)
		require.NoError(t, err)
		r, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, r.StatusCode)
	})
	t.Run("storage error", func(t *testing.T) {
		ts, cancel := getTestServer(ErrorStorage{db.NewInMemoryStorage()}, nil)
		defer cancel()
		req, err := http.NewRequest(http.MethodPut, ts.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", getTestJWT())
		r, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, r.StatusCode)
	})
}

func TestFavoritesDelete(t *testing.T) {
	const path = "/api/v1/favorites/Haus"
	t.Run("success", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		require.NoError(t, storage.SaveFavorite(db.Favorite{
			Word: "Haus", User: db.UserID(testUserID), Created: time.Now(),
		}))
		ts, cancel := getTestServer(storage, nil)
		defer cancel()

		req, err := http.NewRequest(http.MethodDelete, ts.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", getTestJWT())
		r, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, r.StatusCode)

		_, err = storage.GetFavorite(db.UserID(testUserID), "Haus")
		assert.ErrorIs(t, err, db.ErrNotFound)
	})
	t.Run("missing is a no-op", func(t *testing.T) {
		ts, cancel := getTestServer(nil, nil)
		defer cancel()
		req, err := http.NewRequest(http.MethodDelete, ts.URL+path, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", getTestJWT())
		r, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, r.StatusCode)
	})
	t.Run("unauthorized", func(t *testing.T) {
		ts, cancel := getTestServer(nil, nil)
		defer cancel()
		req, err := http.NewRequest(http.MethodDelete, ts.URL+path, nil)
		require.NoError(t, err)
		r, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, r.StatusCode)
	})
}
