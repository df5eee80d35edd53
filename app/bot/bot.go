package bot

import (
	"context"
	"time"

	"github.com/erstaunlich/wortschatz/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Handler interface {
	Handle(ctx context.Context, b Bot, u tgbotapi.Update)
	Passthrough(tgbotapi.Update) bool
	Match(u tgbotapi.Update) bool
}

type ctxKey int

const ctxUserKey ctxKey = iota

// TelegramBot handles Telegram API integration and updates handling
type TelegramBot struct {
	UserName string
	api      *tgbotapi.BotAPI
	db       db.Storage
	handlers []Handler
}

// resolveUser loads the sender from storage, creating the record on
// first contact.
func (b *TelegramBot) resolveUser(u tgbotapi.Update) (db.User, bool) {
	var from *tgbotapi.User
	switch {
	case u.Message != nil:
		from = u.Message.From
	case u.CallbackQuery != nil:
		from = u.CallbackQuery.From
	}
	if from == nil {
		return db.User{}, false
	}
	user, err := b.db.GetUser(db.UserID(from.ID))
	if err == nil {
		return user, true
	}
	if !errors.Is(err, db.ErrNotFound) {
		log.Error().Err(err).Int64("user", from.ID).Msg("failed to get user")
		return db.User{}, false
	}
	user = db.User{ID: db.UserID(from.ID), Username: from.UserName}
	if err := b.db.SaveUser(user); err != nil {
		log.Error().Err(err).Int64("user", from.ID).Msg("failed to save user")
		return db.User{}, false
	}
	return user, true
}

func (b *TelegramBot) processUpdate(u tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if user, ok := b.resolveUser(u); ok {
		ctx = context.WithValue(ctx, ctxUserKey, user)
	}
	for _, handler := range b.handlers {
		if handler.Match(u) {
			handler.Handle(ctx, b, u)
			if !handler.Passthrough(u) {
				break
			}
		}
	}
}

func (b *TelegramBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for u := range updates {
		b.processUpdate(u)
	}
}

func (b *TelegramBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	message, err := b.api.Send(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to send")
	}
	return message, err
}

func (b *TelegramBot) SendCallback(c tgbotapi.CallbackConfig) (*tgbotapi.APIResponse, error) {
	response, err := b.api.Request(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to send callback")
	}
	return response, err
}

func (b *TelegramBot) DB() db.Storage {
	return b.db
}

func NewTelegramBot(token string, db db.Storage, handlers []Handler) (*TelegramBot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize bot")
	}
	log.Info().Str("username", botAPI.Self.UserName).Msg("telegram bot initialized")
	return &TelegramBot{
		UserName: botAPI.Self.UserName,
		api:      botAPI,
		db:       db,
		handlers: handlers,
	}, nil
}
