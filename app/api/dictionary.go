package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/erstaunlich/wortschatz/app/db"
	"github.com/erstaunlich/wortschatz/app/dictionary"
	"github.com/erstaunlich/wortschatz/app/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const randomDefaultCount = 9

// dictionaryService implements methods for dictionary API
type dictionaryService struct {
	storage db.Storage
	dict    *dictionary.Service
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	response, jerr := json.Marshal(data)
	if jerr != nil {
		log.Error().Err(jerr).Msg("failed to marshal json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(response); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// Search resolves a free-text query into dictionary entries and caches
// the survivors
func (d dictionaryService) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	metrics.Searches.Inc()
	entries := d.dict.Search(r.Context(), query)
	for _, entry := range entries {
		if err := d.storage.Save(entry); err != nil {
			log.Warn().Err(err).Str("word", entry.Word.Word).Msg("failed to cache entry")
		}
	}
	if entries == nil {
		entries = []dictionary.Entry{}
	}
	writeJSON(w, entries)
}

// GetWord returns a single entry, going to Wiktionary on a cache miss
func (d dictionaryService) GetWord(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	metrics.Lookups.Inc()
	entry, err := d.storage.Get(word)
	if err == nil {
		metrics.CacheHits.Inc()
		writeJSON(w, entry)
		return
	}
	if !errors.Is(err, db.ErrNotFound) {
		log.Error().Err(err).Str("word", word).Msg("failed to read cache")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	metrics.CacheMisses.Inc()
	fetched, err := d.dict.Lookup(r.Context(), word)
	if err != nil {
		log.Error().Err(err).Str("word", word).Msg("lookup failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if fetched == nil {
		w.WriteHeader(http.StatusNotFound)
		if _, err := w.Write([]byte("word not found")); err != nil {
			log.Warn().Err(err).Msg("failed to write response")
		}
		return
	}
	if err := d.storage.Save(*fetched); err != nil {
		log.Warn().Err(err).Str("word", word).Msg("failed to cache entry")
	}
	writeJSON(w, *fetched)
}

// Featured returns the curated home page word list
func (d dictionaryService) Featured(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, dictionary.Featured())
}

// Random returns a sampled list of words
func (d dictionaryService) Random(w http.ResponseWriter, r *http.Request) {
	count := randomDefaultCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			w.WriteHeader(http.StatusBadRequest)
			if _, err := w.Write([]byte("invalid count")); err != nil {
				log.Warn().Err(err).Msg("failed to write response")
			}
			return
		}
		count = parsed
	}
	words := d.dict.Random(r.Context(), count)
	if words == nil {
		words = []string{}
	}
	writeJSON(w, words)
}

// Categories returns the browsing page topic presets
func (d dictionaryService) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, dictionary.Categories())
}
