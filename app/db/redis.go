package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/erstaunlich/wortschatz/app/dictionary"

	"github.com/go-redis/redis/v8"
)

const (
	prefixWord     = "word:"
	prefixUser     = "user:"
	prefixFavorite = "favorites:"
	prefixQuiz     = "quiz:"
)

type RedisStorage struct {
	db *redis.Client
}

// Get cached dictionary entry from redis
func (s *RedisStorage) Get(word string) (dictionary.Entry, error) {
	data, err := s.db.Get(context.Background(), prefixWord+word).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return dictionary.Entry{}, ErrNotFound
		}
		return dictionary.Entry{}, fmt.Errorf("fetching entry: %w", err)
	}
	buf := bytes.NewBufferString(data)
	var entry dictionary.Entry
	if jerr := json.NewDecoder(buf).Decode(&entry); jerr != nil {
		return entry, fmt.Errorf("unmarshal entry: %w", jerr)
	}
	return entry, nil
}

// Save dictionary entry to redis
func (s *RedisStorage) Save(entry dictionary.Entry) error {
	key := prefixWord + entry.Word.Word
	jdata, jerr := json.Marshal(entry)
	if jerr != nil {
		return fmt.Errorf("marshal entry: %w", jerr)
	}
	_, err := s.db.Set(context.Background(), key, string(jdata), 0).Result()
	if err != nil {
		return fmt.Errorf("saving entry: %w", err)
	}
	return nil
}

// GetUser from redis
func (s *RedisStorage) GetUser(id UserID) (User, error) {
	data, err := s.db.Get(context.Background(), prefixUser+strconv.FormatInt(int64(id), 10)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("fetching user: %w", err)
	}
	buf := bytes.NewBufferString(data)
	var user User
	if jerr := json.NewDecoder(buf).Decode(&user); jerr != nil {
		return user, fmt.Errorf("unmarshal user: %w", jerr)
	}
	return user, nil
}

// SaveUser to redis
func (s *RedisStorage) SaveUser(user User) error {
	key := prefixUser + strconv.FormatInt(int64(user.ID), 10)
	jdata, jerr := json.Marshal(user)
	if jerr != nil {
		return fmt.Errorf("marshal user: %w", jerr)
	}
	_, err := s.db.Set(context.Background(), key, string(jdata), 0).Result()
	if err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

// GetFavorite returns one favorite from the user's hash
func (s *RedisStorage) GetFavorite(user UserID, word string) (Favorite, error) {
	key := prefixFavorite + strconv.FormatInt(int64(user), 10)
	data, err := s.db.HGet(context.Background(), key, word).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Favorite{}, ErrNotFound
		}
		return Favorite{}, fmt.Errorf("fetching favorite: %w", err)
	}
	buf := bytes.NewBufferString(data)
	var favorite Favorite
	if jerr := json.NewDecoder(buf).Decode(&favorite); jerr != nil {
		return favorite, fmt.Errorf("unmarshal favorite: %w", jerr)
	}
	return favorite, nil
}

// SaveFavorite stores favorite in the user's hash
func (s *RedisStorage) SaveFavorite(favorite Favorite) error {
	key := prefixFavorite + strconv.FormatInt(int64(favorite.User), 10)
	jdata, jerr := json.Marshal(favorite)
	if jerr != nil {
		return fmt.Errorf("marshal favorite: %w", jerr)
	}
	_, err := s.db.HSet(context.Background(), key, favorite.Word, string(jdata)).Result()
	if err != nil {
		return fmt.Errorf("saving favorite: %w", err)
	}
	return nil
}

// DeleteFavorite removes favorite from the user's hash
func (s *RedisStorage) DeleteFavorite(user UserID, word string) error {
	key := prefixFavorite + strconv.FormatInt(int64(user), 10)
	if err := s.db.HDel(context.Background(), key, word).Err(); err != nil {
		return fmt.Errorf("deleting favorite: %w", err)
	}
	return nil
}

// GetFavorites returns all favorites of a user with their cached entries
func (s *RedisStorage) GetFavorites(user UserID) ([]FavoriteEntry, error) {
	key := prefixFavorite + strconv.FormatInt(int64(user), 10)
	raw, err := s.db.HGetAll(context.Background(), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching favorites: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	favorites := make([]FavoriteEntry, 0, len(raw))
	words := make([]string, 0, len(raw))
	for word, jdata := range raw {
		var item FavoriteEntry
		if jerr := json.NewDecoder(bytes.NewBufferString(jdata)).Decode(&item.Favorite); jerr != nil {
			return nil, fmt.Errorf("unmarshal favorite: %w", jerr)
		}
		favorites = append(favorites, item)
		words = append(words, prefixWord+word)
	}
	entriesData := s.db.MGet(context.Background(), words...)
	if err := entriesData.Err(); err != nil {
		return nil, fmt.Errorf("fetching entries: %w", err)
	}
	entries := make(map[string]dictionary.Entry, len(entriesData.Val()))
	for _, ed := range entriesData.Val() {
		jdata, ok := ed.(string)
		if !ok {
			continue
		}
		var entry dictionary.Entry
		if jerr := json.NewDecoder(bytes.NewBufferString(jdata)).Decode(&entry); jerr != nil {
			return nil, fmt.Errorf("unmarshal entry: %w", jerr)
		}
		entries[entry.Word.Word] = entry
	}
	for i := range favorites {
		favorites[i].Entry = entries[favorites[i].Word]
	}
	return favorites, nil
}

// GetQuiz from redis
func (s *RedisStorage) GetQuiz(id string) (Quiz, error) {
	get := s.db.Get(context.Background(), prefixQuiz+id)
	if err := get.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return Quiz{}, ErrNotFound
		}
		return Quiz{}, fmt.Errorf("fetching quiz: %w", err)
	}
	buf := bytes.NewBufferString(get.Val())
	var quiz Quiz
	if jerr := json.NewDecoder(buf).Decode(&quiz); jerr != nil {
		return quiz, fmt.Errorf("unmarshal quiz: %w", jerr)
	}
	return quiz, nil
}

// SaveQuiz to redis
func (s *RedisStorage) SaveQuiz(q Quiz) error {
	key := prefixQuiz + q.ID
	jdata, jerr := json.Marshal(q)
	if jerr != nil {
		return fmt.Errorf("marshal quiz: %w", jerr)
	}
	set := s.db.Set(context.Background(), key, string(jdata), 0)
	if err := set.Err(); err != nil {
		return fmt.Errorf("saving quiz: %w", err)
	}
	return nil
}

// NewRedisStorage creates RedisStorage with given url
func NewRedisStorage(url string) (*RedisStorage, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStorage{db: rdb}, nil
}
