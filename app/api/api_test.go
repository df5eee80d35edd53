package api

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"

	"github.com/erstaunlich/wortschatz/app/db"
	"github.com/erstaunlich/wortschatz/app/dictionary"
)

const (
	testAPIKey    = "secret-api-key"
	testJWTSecret = "tokentokentokentoken"
	testUserID    = 1
)

// fakeFetcher serves canned wikitext pages for api tests.
type fakeFetcher struct {
	titles []string
	pages  map[string]string
}

func (f *fakeFetcher) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if f.titles == nil {
		return nil, errors.New("no titles configured")
	}
	if len(f.titles) > limit {
		return f.titles[:limit], nil
	}
	return f.titles, nil
}

func (f *fakeFetcher) FetchWikitext(ctx context.Context, page string) (string, error) {
	text, ok := f.pages[page]
	if !ok {
		return "", errors.New("page not configured")
	}
	return text, nil
}

// wordDoc builds a minimal parseable noun page.
func wordDoc(word string) string {
	return fmt.Sprintf(`== %s ({{Sprache|Deutsch}}) ==
=== {{Wortart|Substantiv|Deutsch}}, {{n}} ===

{{Bedeutungen}}
:[1] erste Bedeutung von %s
:[2] zweite Bedeutung

{{Beispiele}}
:[1] Dieses Beispiel enthält das Wort %s deutlich.
`, word, word, word)
}

// ErrorStorage is a dummy storage for testing storage error handling.
type ErrorStorage struct {
	*db.InMemoryStorage
}

func (d ErrorStorage) GetFavorites(db.UserID) ([]db.FavoriteEntry, error) {
	return nil, errors.New("test")
}

func (d ErrorStorage) Get(string) (dictionary.Entry, error) {
	return dictionary.Entry{}, errors.New("test")
}

func (d ErrorStorage) SaveFavorite(db.Favorite) error {
	return errors.New("test")
}

// getTestServer returns a test server.
func getTestServer(storage db.Storage, fetcher dictionary.Fetcher) (*httptest.Server, func()) {
	if storage == nil {
		storage = db.NewInMemoryStorage()
	}
	if fetcher == nil {
		fetcher = &fakeFetcher{}
	}

	server := NewServer(storage, dictionary.NewService(fetcher), testAPIKey, testJWTSecret)
	srv := httptest.NewServer(server.router)
	return srv, srv.Close
}

// getTestJWT returns a test JWT signed with testJWTSecret
func getTestJWT() string {
	token, _ := (&authService{apiKey: testAPIKey, jwtSecret: []byte(testJWTSecret)}).createToken(testUserID)
	return "Bearer " + token
}
