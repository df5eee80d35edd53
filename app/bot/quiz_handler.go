package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/erstaunlich/wortschatz/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

const quizMessageTemplate = `
<i>Word</i>: <b>{{ .quiz.Word }}</b>
<i>Choices</i>:
{{- range $choiceIdx, $choice := .quiz.Choices }}

<b>{{- if $.quiz.Result }}{{- if eq $.quiz.Result.Choice $choiceIdx }}☑️ {{- end }}{{- if $choice.Correct }}✅ {{- end }}{{- end }}{{inc $choiceIdx }}</b>: {{ $choice.Text }}
{{- end }}
`

// GetQuizMessageText returns text for quiz message
func GetQuizMessageText(quiz db.Quiz) (string, error) {
	funcMap := template.FuncMap{
		"inc": func(i int) int {
			return i + 1
		},
	}

	tmpl, err := template.New("template").Funcs(funcMap).Parse(quizMessageTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, map[string]interface{}{"quiz": quiz}); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// ErrNotEnoughWords is returned when there are not enough favorites for
// a full choice set
var ErrNotEnoughWords = errors.New("not enough words")

// QuizHandler handles quiz command
type QuizHandler struct {
	neverPassthorugh
}

// Match returns true if update is /quiz command
func (h QuizHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Command() == "quiz"
}

// Handle generates new quiz and sends it to user
func (h QuizHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	user, ok := ctx.Value(ctxUserKey).(db.User)
	if !ok {
		log.Error().Msg("invalid user in context")
		return
	}
	choicesCount := db.QuizChoicesDefault
	if user.Config.QuizChoices != nil {
		choicesCount = *user.Config.QuizChoices
	}
	favorites, err := b.DB().GetFavorites(db.UserID(u.Message.From.ID))
	if err != nil {
		log.Error().Err(err).Int64("user", u.Message.From.ID).Msg("failed to get favorites")
		return
	}
	favorites = withDefinitions(favorites)
	if len(favorites) == 0 {
		_, _ = b.Send(tgbotapi.NewMessage(u.Message.Chat.ID, "You don't have any favorite words yet. Just send me one!"))
		return
	}
	quizItem, err := h.getRandomFavorite(favorites)
	if err != nil {
		log.Error().Err(err).Msg("failed to get random favorite")
		return
	}
	choices, err := h.getChoices(quizItem, favorites, choicesCount)
	if err != nil {
		if errors.Is(err, ErrNotEnoughWords) {
			_, _ = b.Send(tgbotapi.NewMessage(u.Message.From.ID, "Add more words to your favorites first"))
			return
		}
		log.Error().Err(err).Str("word", quizItem.Word).Msg("failed to build choices")
		return
	}

	quiz := db.NewQuiz(db.UserID(u.Message.From.ID), quizItem.Word, choices)
	if err := b.DB().SaveQuiz(quiz); err != nil {
		log.Error().Err(err).Int64("user", u.Message.From.ID).Msg("failed to save quiz")
		return
	}
	text, err := GetQuizMessageText(quiz)
	if err != nil {
		log.Error().Err(err).Str("quiz", quiz.ID).Msg("failed to get text for message")
		return
	}
	message := tgbotapi.NewMessage(u.Message.Chat.ID, text)
	message.ParseMode = "html"
	message.ReplyMarkup = h.getMessageKeyboard(quiz)
	_, _ = b.Send(message)
}

// withDefinitions drops favorites whose cached entry has no definitions
// to quiz on.
func withDefinitions(favorites []db.FavoriteEntry) []db.FavoriteEntry {
	usable := make([]db.FavoriteEntry, 0, len(favorites))
	for _, f := range favorites {
		if len(f.Entry.Definitions) > 0 {
			usable = append(usable, f)
		}
	}
	return usable
}

// getRandomFavorite picks a favorite, weighting towards words that have
// not been quizzed recently
func (h QuizHandler) getRandomFavorite(favorites []db.FavoriteEntry) (db.FavoriteEntry, error) {
	if len(favorites) == 0 {
		return db.FavoriteEntry{}, errors.New("no favorites")
	}
	var minTime, maxTime *time.Time
	for _, f := range favorites {
		if f.LastQuiz == nil {
			continue
		}
		if minTime == nil || f.LastQuiz.Before(*minTime) {
			minTime = f.LastQuiz
		}
		if maxTime == nil || f.LastQuiz.After(*maxTime) {
			maxTime = f.LastQuiz
		}
	}
	if minTime == nil || maxTime == nil {
		return favorites[rand.Intn(len(favorites))], nil
	}

	weights := make([]int, len(favorites))
	timeRange := maxTime.Sub(*minTime).Seconds()
	var totalWeight int
	for i, f := range favorites {
		weight := 100
		if f.LastQuiz != nil {
			if timeRange > 0 {
				weight = int(maxTime.Sub(*f.LastQuiz).Seconds() / timeRange * 100)
			} else {
				weight = 0
			}
		}
		if weight == 0 {
			weight = 1
		}
		totalWeight += weight
		weights[i] = weight
	}
	value := rand.Intn(totalWeight)
	result := favorites[0]
	for i, f := range favorites {
		value -= weights[i]
		result = f
		if value <= 0 {
			break
		}
	}
	return result, nil
}

// getChoices builds the definition choice set: the correct word's first
// definition plus definitions of other favorites, sorted by word
func (h QuizHandler) getChoices(item db.FavoriteEntry, favorites []db.FavoriteEntry, count int) ([]db.QuizChoice, error) {
	choices := make([]db.QuizChoice, 0, len(favorites))
	for _, f := range favorites {
		if f.Word == item.Word {
			continue
		}
		choices = append(choices, db.QuizChoice{
			Word:    f.Word,
			Text:    f.Entry.Definitions[0].Text,
			Correct: false,
		})
	}
	if len(choices) < count-1 {
		return nil, ErrNotEnoughWords
	}
	rand.Shuffle(len(choices), func(i, j int) { choices[i], choices[j] = choices[j], choices[i] })
	randomChoices := choices[:count-1]
	randomChoices = append(randomChoices, db.QuizChoice{
		Word:    item.Word,
		Text:    item.Entry.Definitions[0].Text,
		Correct: true,
	})

	sort.Slice(randomChoices, func(i, j int) bool { return randomChoices[i].Word < randomChoices[j].Word })
	return randomChoices, nil
}

// getMessageKeyboard returns keyboard with quiz choices
func (h QuizHandler) getMessageKeyboard(quiz db.Quiz) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(quiz.Choices))
	for idx := range quiz.Choices {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d", idx+1),
			fmt.Sprintf("%v|%v|%d", callbackIDQuizReply, quiz.ID, idx)),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...))
}

// QuizReplyHandler handles quiz reply callback
type QuizReplyHandler struct {
	neverPassthorugh
}

// Match returns true if update is quiz reply callback
func (h QuizReplyHandler) Match(u tgbotapi.Update) bool {
	return u.CallbackQuery != nil && strings.HasPrefix(u.CallbackQuery.Data, callbackIDQuizReply+"|")
}

// Handle checks if response is correct and saves it to quiz
func (h QuizReplyHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	quizID, choice, err := h.parseQuery(u)
	if err != nil {
		log.Error().Err(err).Str("query", u.CallbackQuery.Data).Msg("failed to parse callback query")
		return
	}
	quiz, err := b.DB().GetQuiz(quizID)
	if err != nil {
		log.Error().Err(err).Str("quiz", quizID).Msg("failed to get quiz")
		return
	}
	if quiz.User != db.UserID(u.CallbackQuery.From.ID) {
		_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Unknown quiz"))
		return
	}
	if err := quiz.SetResult(choice, b.DB()); err != nil {
		log.Error().Err(err).Str("quiz", quiz.ID).Int("choice", choice).Msg("failed to set quiz result")
		response := tgbotapi.NewCallback(u.CallbackQuery.ID, "Error happened")
		_, _ = b.SendCallback(response)
		return
	}
	if quiz.Result.Correct {
		_, _ = b.Send(tgbotapi.NewMessage(u.CallbackQuery.From.ID, "Richtig! 🎉"))
	} else {
		_, _ = b.Send(tgbotapi.NewMessage(u.CallbackQuery.From.ID, "Leider falsch!"))
		h.sendEntryMessage(quiz.Word, u.CallbackQuery.From.ID, b)
	}
	quizText, err := GetQuizMessageText(quiz)
	if err != nil {
		log.Error().Err(err).Str("quiz", quiz.ID).Msg("failed to get quiz message text")
	}
	edit := tgbotapi.NewEditMessageText(
		u.CallbackQuery.From.ID,
		u.CallbackQuery.Message.MessageID,
		quizText)
	edit.ReplyMarkup = nil
	edit.ParseMode = "html"
	_, _ = b.Send(edit)
}

func (h QuizReplyHandler) sendEntryMessage(word string, user int64, b Bot) {
	entry, err := b.DB().Get(word)
	if err != nil {
		log.Error().Err(err).Str("word", word).Msg("failed to get entry")
		return
	}
	msg := tgbotapi.NewMessage(user, GetEntryMessageText(entry))
	msg.ParseMode = "html"
	_, _ = b.Send(msg)
}

func (h QuizReplyHandler) parseQuery(u tgbotapi.Update) (ID string, choice int, err error) {
	parts := strings.Split(u.CallbackQuery.Data, "|")
	if len(parts) != 3 {
		return "", 0, errors.New("invalid callback query data")
	}
	ID = parts[1]
	choice, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, fmt.Errorf("parsing choice: %w", err)
	}
	return ID, choice, nil
}
