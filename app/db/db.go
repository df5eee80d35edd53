package db

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/erstaunlich/wortschatz/app/dictionary"

	"github.com/google/uuid"
)

// UserID is a type for users ID
type UserID int64

// ErrNotFound is returned when object not found
var ErrNotFound = errors.New("not found")

// GenerateID generates new uuid and encodes it to base64
func GenerateID() string {
	id := [16]byte(uuid.New())
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// Storage defines methods provided by database implementations
type Storage interface {
	// Get cached dictionary entry by word
	Get(string) (dictionary.Entry, error)
	// Save dictionary entry to cache
	Save(dictionary.Entry) error

	// GetUser returns user by ID
	GetUser(UserID) (User, error)
	// SaveUser saves user to DB
	SaveUser(User) error

	// GetFavorite returns one favorite of a user
	GetFavorite(UserID, string) (Favorite, error)
	// SaveFavorite saves favorite to DB
	SaveFavorite(Favorite) error
	// DeleteFavorite removes favorite from DB
	DeleteFavorite(UserID, string) error
	// GetFavorites returns all favorites of a user with their cached entries
	GetFavorites(UserID) ([]FavoriteEntry, error)

	// SaveQuiz saves quiz to DB
	SaveQuiz(Quiz) error
	// GetQuiz returns quiz by ID
	GetQuiz(string) (Quiz, error)
}

// User holds user data
type User struct {
	ID       UserID
	IsAdmin  bool
	Username string
	Config   UserConfig
}

// UserConfig holds user config params
type UserConfig struct {
	QuizChoices *int
}

// Favorite marks a word kept by a user
type Favorite struct {
	Word     string
	User     UserID
	Created  time.Time
	LastQuiz *time.Time
}

// FavoriteEntry pairs a favorite with its cached dictionary entry. The
// entry is zero-valued when the cache no longer holds the word.
type FavoriteEntry struct {
	Favorite
	Entry dictionary.Entry
}

// QuizResult holds data for a quiz result
type QuizResult struct {
	Choice  int
	Correct bool
}

// QuizChoice is a single definition offered as an answer
type QuizChoice struct {
	Word    string
	Text    string
	Correct bool
}

// quiz sizing, overridable per user config
const (
	QuizChoicesDefault = 4
	QuizChoicesMin     = 2
	QuizChoicesMax     = 8
)

// Quiz asks which definition belongs to the displayed word
type Quiz struct {
	ID      string
	User    UserID
	Word    string
	Choices []QuizChoice
	Created time.Time
	Result  *QuizResult
}

// SetResult checks if choice is correct and saves the result. A correct
// answer marks the favorite as quizzed.
func (q *Quiz) SetResult(choice int, s Storage) error {
	if choice < 0 || choice >= len(q.Choices) {
		return errors.New("invalid choice")
	}
	if q.Result != nil {
		return errors.New("result already set")
	}

	q.Result = &QuizResult{
		Choice:  choice,
		Correct: q.Choices[choice].Correct,
	}
	if q.Result.Correct {
		favorite, err := s.GetFavorite(q.User, q.Word)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		favorite.LastQuiz = &now
		if err := s.SaveFavorite(favorite); err != nil {
			return fmt.Errorf("save favorite: %w", err)
		}
	}
	if err := s.SaveQuiz(*q); err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}
	return nil
}

// NewQuiz creates new quiz
func NewQuiz(user UserID, word string, choices []QuizChoice) Quiz {
	return Quiz{
		ID:      GenerateID(),
		User:    user,
		Word:    word,
		Choices: choices,
		Created: time.Now().UTC(),
	}
}
