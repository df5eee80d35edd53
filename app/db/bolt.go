package db

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/erstaunlich/wortschatz/app/dictionary"

	bolt "go.etcd.io/bbolt"
)

const (
	bucketDictionary = "Dictionary"
	bucketUsers      = "Users"
	bucketFavorites  = "Favorites"
	bucketQuizzes    = "Quizzes"
)

// BoltStorage implements storage interface for BoltDB
type BoltStorage struct {
	db *bolt.DB
}

// Get cached dictionary entry from database
func (b *BoltStorage) Get(word string) (dictionary.Entry, error) {
	var entry dictionary.Entry
	err := b.db.View(func(tx *bolt.Tx) error {
		jdata := tx.Bucket([]byte(bucketDictionary)).Get([]byte(word))
		if len(jdata) == 0 {
			return ErrNotFound
		}
		if jerr := json.Unmarshal(jdata, &entry); jerr != nil {
			return fmt.Errorf("unmarshal entry: %w", jerr)
		}
		return nil
	})
	return entry, err
}

// Save dictionary entry to database
func (b *BoltStorage) Save(entry dictionary.Entry) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		jdata, jerr := json.Marshal(entry)
		if jerr != nil {
			return fmt.Errorf("marshal entry: %w", jerr)
		}
		if err := tx.Bucket([]byte(bucketDictionary)).Put([]byte(entry.Word.Word), jdata); err != nil {
			return fmt.Errorf("put entry: %w", err)
		}
		return nil
	})
}

// GetUser returns user from database
func (b *BoltStorage) GetUser(id UserID) (User, error) {
	var user User
	err := b.db.View(func(tx *bolt.Tx) error {
		jdata := tx.Bucket([]byte(bucketUsers)).Get(userKey(id))
		if len(jdata) == 0 {
			return ErrNotFound
		}
		if jerr := json.Unmarshal(jdata, &user); jerr != nil {
			return fmt.Errorf("unmarshal user: %w", jerr)
		}
		return nil
	})
	return user, err
}

// SaveUser saves user to database
func (b *BoltStorage) SaveUser(user User) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		jdata, jerr := json.Marshal(user)
		if jerr != nil {
			return fmt.Errorf("marshal user: %w", jerr)
		}
		if err := tx.Bucket([]byte(bucketUsers)).Put(userKey(user.ID), jdata); err != nil {
			return fmt.Errorf("put user: %w", err)
		}
		return nil
	})
}

// GetFavorite returns one favorite of a user
func (b *BoltStorage) GetFavorite(user UserID, word string) (Favorite, error) {
	var favorite Favorite
	err := b.db.View(func(tx *bolt.Tx) error {
		userBucket := tx.Bucket([]byte(bucketFavorites)).Bucket(userKey(user))
		if userBucket == nil {
			return ErrNotFound
		}
		jdata := userBucket.Get([]byte(word))
		if len(jdata) == 0 {
			return ErrNotFound
		}
		if jerr := json.Unmarshal(jdata, &favorite); jerr != nil {
			return fmt.Errorf("unmarshal favorite: %w", jerr)
		}
		return nil
	})
	return favorite, err
}

// SaveFavorite saves favorite to the user's bucket
func (b *BoltStorage) SaveFavorite(favorite Favorite) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		userBucket, err := tx.Bucket([]byte(bucketFavorites)).CreateBucketIfNotExists(userKey(favorite.User))
		if err != nil {
			return fmt.Errorf("create user bucket: %w", err)
		}
		jdata, jerr := json.Marshal(favorite)
		if jerr != nil {
			return fmt.Errorf("marshal favorite: %w", jerr)
		}
		if err := userBucket.Put([]byte(favorite.Word), jdata); err != nil {
			return fmt.Errorf("put favorite: %w", err)
		}
		return nil
	})
}

// DeleteFavorite removes favorite from the user's bucket
func (b *BoltStorage) DeleteFavorite(user UserID, word string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		userBucket := tx.Bucket([]byte(bucketFavorites)).Bucket(userKey(user))
		if userBucket == nil {
			return nil
		}
		return userBucket.Delete([]byte(word))
	})
}

// GetFavorites returns all favorites of a user with their cached entries
func (b *BoltStorage) GetFavorites(user UserID) ([]FavoriteEntry, error) {
	var favorites []FavoriteEntry
	err := b.db.View(func(tx *bolt.Tx) error {
		userBucket := tx.Bucket([]byte(bucketFavorites)).Bucket(userKey(user))
		if userBucket == nil {
			return nil
		}
		dictBucket := tx.Bucket([]byte(bucketDictionary))
		return userBucket.ForEach(func(word, jdata []byte) error {
			var item FavoriteEntry
			if jerr := json.Unmarshal(jdata, &item.Favorite); jerr != nil {
				return fmt.Errorf("unmarshal favorite: %w", jerr)
			}
			if edata := dictBucket.Get(word); len(edata) != 0 {
				if jerr := json.Unmarshal(edata, &item.Entry); jerr != nil {
					return fmt.Errorf("unmarshal entry: %w", jerr)
				}
			}
			favorites = append(favorites, item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

// SaveQuiz saves quiz to database
func (b *BoltStorage) SaveQuiz(q Quiz) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		jdata, jerr := json.Marshal(q)
		if jerr != nil {
			return fmt.Errorf("marshal quiz: %w", jerr)
		}
		if err := tx.Bucket([]byte(bucketQuizzes)).Put([]byte(q.ID), jdata); err != nil {
			return fmt.Errorf("put quiz: %w", err)
		}
		return nil
	})
}

// GetQuiz returns quiz from database
func (b *BoltStorage) GetQuiz(id string) (Quiz, error) {
	var quiz Quiz
	err := b.db.View(func(tx *bolt.Tx) error {
		jdata := tx.Bucket([]byte(bucketQuizzes)).Get([]byte(id))
		if len(jdata) == 0 {
			return ErrNotFound
		}
		if jerr := json.Unmarshal(jdata, &quiz); jerr != nil {
			return fmt.Errorf("unmarshal quiz: %w", jerr)
		}
		return nil
	})
	return quiz, err
}

func userKey(id UserID) []byte {
	return []byte(strconv.FormatInt(int64(id), 10))
}

// NewBoltStorage creates BoltStorage instance and initializes buckets
func NewBoltStorage(db *bolt.DB) (*BoltStorage, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{bucketDictionary, bucketUsers, bucketFavorites, bucketQuizzes} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &BoltStorage{db: db}, nil
}
