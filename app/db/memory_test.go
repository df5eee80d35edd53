package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryGet(t *testing.T) {
	t.Run("existing", func(t *testing.T) {
		storage := NewInMemoryStorage()
		entry := getEntry("Haus")
		require.NoError(t, storage.Save(entry))
		got, err := storage.Get("Haus")
		assert.NoError(t, err)
		assert.Equal(t, entry, got)
	})

	t.Run("not found", func(t *testing.T) {
		storage := NewInMemoryStorage()
		_, err := storage.Get("Haus")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestInMemoryUsers(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		storage := NewInMemoryStorage()
		user := User{ID: 1, Username: "anna"}
		require.NoError(t, storage.SaveUser(user))
		got, err := storage.GetUser(user.ID)
		assert.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("not found", func(t *testing.T) {
		storage := NewInMemoryStorage()
		_, err := storage.GetUser(UserID(1))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestInMemoryFavorites(t *testing.T) {
	t.Run("save and get", func(t *testing.T) {
		storage := NewInMemoryStorage()
		favorite := Favorite{Word: "Haus", User: UserID(1), Created: time.Now()}
		require.NoError(t, storage.SaveFavorite(favorite))
		got, err := storage.GetFavorite(favorite.User, favorite.Word)
		assert.NoError(t, err)
		assert.Equal(t, favorite, got)
	})

	t.Run("not found", func(t *testing.T) {
		storage := NewInMemoryStorage()
		_, err := storage.GetFavorite(UserID(1), "Haus")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		storage := NewInMemoryStorage()
		favorite := Favorite{Word: "Haus", User: UserID(1), Created: time.Now()}
		require.NoError(t, storage.SaveFavorite(favorite))
		require.NoError(t, storage.DeleteFavorite(favorite.User, favorite.Word))
		_, err := storage.GetFavorite(favorite.User, favorite.Word)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestInMemoryGetFavorites(t *testing.T) {
	t.Run("existing", func(t *testing.T) {
		storage := NewInMemoryStorage()
		entry1 := getEntry("Haus")
		require.NoError(t, storage.Save(entry1))
		require.NoError(t, storage.SaveFavorite(Favorite{Word: "Haus", User: UserID(1), Created: time.Now()}))

		entry2 := getEntry("Zug")
		require.NoError(t, storage.Save(entry2))
		require.NoError(t, storage.SaveFavorite(Favorite{Word: "Zug", User: UserID(1), Created: time.Now()}))

		// other user
		require.NoError(t, storage.SaveFavorite(Favorite{Word: "Hund", User: UserID(2), Created: time.Now()}))

		favorites, err := storage.GetFavorites(UserID(1))
		assert.NoError(t, err)
		require.Len(t, favorites, 2)
		assert.Equal(t, "Haus", favorites[0].Word)
		assert.Equal(t, entry1, favorites[0].Entry)
		assert.Equal(t, "Zug", favorites[1].Word)
		assert.Equal(t, entry2, favorites[1].Entry)
	})

	t.Run("empty", func(t *testing.T) {
		storage := NewInMemoryStorage()
		favorites, err := storage.GetFavorites(UserID(1))
		assert.NoError(t, err)
		assert.Len(t, favorites, 0)
	})
}

func TestInMemoryQuizzes(t *testing.T) {
	storage := NewInMemoryStorage()
	quiz := NewQuiz(UserID(1), "Haus", []QuizChoice{{Word: "Haus", Text: "def", Correct: true}})
	require.NoError(t, storage.SaveQuiz(quiz))
	got, err := storage.GetQuiz(quiz.ID)
	assert.NoError(t, err)
	assert.Equal(t, quiz, got)

	_, err = storage.GetQuiz("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
