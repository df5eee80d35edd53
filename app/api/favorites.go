package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/erstaunlich/wortschatz/app/db"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// favoritesService implements methods for the favorites API
type favoritesService struct {
	storage db.Storage
}

func userFromContext(r *http.Request) (db.UserID, bool) {
	userID, ok := r.Context().Value(ctxUserIDKey).(db.UserID)
	if !ok {
		log.Error().Interface("user", r.Context().Value(ctxUserIDKey)).Msg("invalid user id in context")
	}
	return userID, ok
}

// List returns all favorites of the authenticated user
func (f favoritesService) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	favorites, err := f.storage.GetFavorites(userID)
	if err != nil {
		log.Error().Err(err).Int64("user", int64(userID)).Msg("failed to get favorites")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if favorites == nil {
		favorites = []db.FavoriteEntry{}
	}
	writeJSON(w, favorites)
}

// Put marks a word as favorite for the authenticated user
func (f favoritesService) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	word := chi.URLParam(r, "word")
	if _, err := f.storage.GetFavorite(userID, word); err == nil {
		w.WriteHeader(http.StatusOK)
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		log.Error().Err(err).Int64("user", int64(userID)).Msg("failed to check favorite")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	favorite := db.Favorite{Word: word, User: userID, Created: time.Now().UTC()}
	if err := f.storage.SaveFavorite(favorite); err != nil {
		log.Error().Err(err).Int64("user", int64(userID)).Msg("failed to save favorite")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Delete removes a word from the user's favorites
func (f favoritesService) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	word := chi.URLParam(r, "word")
	if err := f.storage.DeleteFavorite(userID, word); err != nil {
		log.Error().Err(err).Int64("user", int64(userID)).Msg("failed to delete favorite")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
