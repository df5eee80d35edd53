package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/erstaunlich/wortschatz/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

const (
	settingQuizSize = "quiz_size"
)

// ListSettingsHandler handles /settings command
type ListSettingsHandler struct {
	neverPassthorugh
}

// Match returns true if update is /settings command
func (h ListSettingsHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Command() == "settings"
}

// Handle sends settings list keyboard
func (h ListSettingsHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	msg := tgbotapi.NewMessage(u.Message.From.ID, "Choose what do you want to change:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Quiz size", fmt.Sprintf("%v|%v", callbackIDSettings, settingQuizSize)),
		),
	)
	_, _ = b.Send(msg)
}

// SendQuizSizesHandler sends available quiz sizes
type SendQuizSizesHandler struct {
	neverPassthorugh
}

// Match returns true if update is quiz settings callback
func (h SendQuizSizesHandler) Match(u tgbotapi.Update) bool {
	return u.CallbackQuery != nil &&
		u.CallbackQuery.Data == fmt.Sprintf("%v|%v", callbackIDSettings, settingQuizSize)
}

// Handle sends settings quiz size keyboard
func (h SendQuizSizesHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	user, ok := ctx.Value(ctxUserKey).(db.User)
	if !ok {
		log.Error().Msg("invalid user in context")
		return
	}
	size := db.QuizChoicesDefault
	if user.Config.QuizChoices != nil {
		size = *user.Config.QuizChoices
	}
	msg := tgbotapi.NewMessage(u.CallbackQuery.From.ID, fmt.Sprintf("Current size: %d\nPick number of choices:", size))
	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	for option := db.QuizChoicesMin; option <= db.QuizChoicesMax; option += 2 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				strconv.Itoa(option),
				fmt.Sprintf("%v|%v|%d", callbackIDSettings, settingQuizSize, option),
			),
		))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, _ = b.Send(msg)
}

// SetQuizSizeHandler saves quiz size to user config
type SetQuizSizeHandler struct {
	neverPassthorugh
}

// Match returns true if update is quiz settings callback with picked size
func (h SetQuizSizeHandler) Match(u tgbotapi.Update) bool {
	return u.CallbackQuery != nil &&
		strings.HasPrefix(u.CallbackQuery.Data, fmt.Sprintf("%v|%v|", callbackIDSettings, settingQuizSize))
}

// Handle saves quiz size to user config
func (h SetQuizSizeHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	user, ok := ctx.Value(ctxUserKey).(db.User)
	if !ok {
		log.Error().Msg("invalid user in context")
		return
	}
	raw := strings.Split(u.CallbackQuery.Data, "|")[2]
	size, err := strconv.Atoi(raw)
	if err != nil || size < db.QuizChoicesMin || size > db.QuizChoicesMax {
		log.Error().Str("size", raw).Msg("invalid quiz size")
		_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Unknown size"))
		return
	}
	user.Config.QuizChoices = &size
	if err := b.DB().SaveUser(user); err != nil {
		log.Error().Err(err).Msg("failed to save user")
		return
	}
	_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Quiz size set"))
}
