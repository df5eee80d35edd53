package db

import (
	"sort"
	"sync"

	"github.com/erstaunlich/wortschatz/app/dictionary"
)

type InMemoryStorage struct {
	dictionary map[string]dictionary.Entry
	users      map[UserID]User
	favorites  map[UserID]map[string]Favorite
	quizzes    map[string]Quiz
	mx         sync.RWMutex
}

func (d *InMemoryStorage) Get(word string) (dictionary.Entry, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	entry, ok := d.dictionary[word]
	if !ok {
		return dictionary.Entry{}, ErrNotFound
	}
	return entry, nil
}

func (d *InMemoryStorage) Save(entry dictionary.Entry) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.dictionary[entry.Word.Word] = entry
	return nil
}

func (d *InMemoryStorage) GetUser(id UserID) (User, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	user, ok := d.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (d *InMemoryStorage) SaveUser(user User) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.users[user.ID] = user
	return nil
}

func (d *InMemoryStorage) GetFavorite(user UserID, word string) (Favorite, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	favorite, ok := d.favorites[user][word]
	if !ok {
		return Favorite{}, ErrNotFound
	}
	return favorite, nil
}

func (d *InMemoryStorage) SaveFavorite(favorite Favorite) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	userFavorites, ok := d.favorites[favorite.User]
	if !ok {
		userFavorites = make(map[string]Favorite)
		d.favorites[favorite.User] = userFavorites
	}
	userFavorites[favorite.Word] = favorite
	return nil
}

func (d *InMemoryStorage) DeleteFavorite(user UserID, word string) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	delete(d.favorites[user], word)
	return nil
}

func (d *InMemoryStorage) GetFavorites(user UserID) ([]FavoriteEntry, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	result := make([]FavoriteEntry, 0, len(d.favorites[user]))
	for _, favorite := range d.favorites[user] {
		result = append(result, FavoriteEntry{
			Favorite: favorite,
			Entry:    d.dictionary[favorite.Word],
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Word < result[j].Word
	})
	return result, nil
}

func (d *InMemoryStorage) SaveQuiz(q Quiz) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.quizzes[q.ID] = q
	return nil
}

func (d *InMemoryStorage) GetQuiz(id string) (Quiz, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	q, ok := d.quizzes[id]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	return q, nil
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		dictionary: make(map[string]dictionary.Entry),
		users:      make(map[UserID]User),
		favorites:  make(map[UserID]map[string]Favorite),
		quizzes:    make(map[string]Quiz),
	}
}
