package wiktionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const apiURL = "https://de.wiktionary.org/w/api.php"

// ErrNotFound is returned when the requested page does not exist.
var ErrNotFound = errors.New("page not found")

// Client implements integration with the de.wiktionary.org MediaWiki API
// docs: https://www.mediawiki.org/wiki/API:Main_page
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client with the default HTTP client, throttled to
// rps outbound requests per second.
func NewClient(rps float64) *Client {
	return &Client{
		client:  http.DefaultClient,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Search returns candidate page titles for a query via the opensearch
// endpoint, best match first.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("namespace", "0")
	params.Set("format", "json")
	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	titles, err := decodeOpenSearch(body)
	if err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return titles, nil
}

// FetchWikitext returns the raw wikitext body of a page. Missing pages
// yield ErrNotFound.
func (c *Client) FetchWikitext(ctx context.Context, page string) (string, error) {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", page)
	params.Set("prop", "wikitext")
	params.Set("format", "json")
	body, err := c.get(ctx, params)
	if err != nil {
		return "", err
	}
	var parsed parseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.Error != nil {
		return "", ErrNotFound
	}
	text := parsed.Parse.Wikitext.Text
	if text == "" {
		return "", ErrNotFound
	}
	return text, nil
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch wiktionary: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Error().
			Str("status", resp.Status).
			Str("body", string(body)).
			Msg("unsuccessful response from wiktionary API")
		return nil, fmt.Errorf("unsuccessful API response %v", resp.StatusCode)
	}
	return body, nil
}
