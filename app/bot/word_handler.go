package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erstaunlich/wortschatz/app/db"
	"github.com/erstaunlich/wortschatz/app/dictionary"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// WordHandler handles word requests
type WordHandler struct {
	dict *dictionary.Service
	neverPassthorugh
}

// Match returns true if message is a text
func (h WordHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Text != "" && !u.Message.IsCommand()
}

// Handle collects word data and sends it to user
func (h WordHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	word := strings.TrimSpace(u.Message.Text)
	if strings.Contains(word, " ") {
		_, _ = b.Send(tgbotapi.NewMessage(u.Message.From.ID, "Sorry, only single words are supported"))
		return
	}
	userID := db.UserID(u.Message.From.ID)
	entry, err := h.getEntry(ctx, word, b.DB())
	if err != nil {
		log.Error().Err(err).Str("word", word).Msg("failed to get word data")
		return
	}
	if entry == nil {
		_, _ = b.Send(tgbotapi.NewMessage(u.Message.From.ID, "Sorry, I don't know this word"))
		return
	}

	if _, err := b.DB().GetFavorite(userID, entry.Word.Word); err != nil && errors.Is(err, db.ErrNotFound) {
		err = b.DB().SaveFavorite(db.Favorite{
			User:    userID,
			Word:    entry.Word.Word,
			Created: time.Now().UTC(),
		})
		if err != nil {
			log.Error().
				Err(err).
				Str("word", entry.Word.Word).
				Int64("user", int64(userID)).
				Msg("failed to save favorite")
			return
		}
	}

	text := tgbotapi.NewMessage(u.Message.From.ID, GetEntryMessageText(*entry))
	text.ParseMode = "html"
	_, _ = b.Send(text)
}

// getEntry reads the entry from storage, falling back to Wiktionary on a
// miss. Fetched entries are cached before returning.
func (h WordHandler) getEntry(ctx context.Context, word string, storage db.Storage) (*dictionary.Entry, error) {
	cached, err := storage.Get(word)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("fetch from db: %w", err)
	}

	entry, err := h.dict.Lookup(ctx, word)
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	if entry == nil {
		return nil, nil
	}
	if err := storage.Save(*entry); err != nil {
		return nil, fmt.Errorf("save to db: %w", err)
	}
	return entry, nil
}

// NewWordHandler creates new word handler
func NewWordHandler(dict *dictionary.Service) WordHandler {
	return WordHandler{dict: dict}
}
