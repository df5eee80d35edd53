package dictionary

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/erstaunlich/wortschatz/app/wikitext"

	"github.com/rs/zerolog/log"
)

// Fetcher is the remote wiki collaborator: candidate title search plus
// raw wikitext retrieval.
type Fetcher interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
	FetchWikitext(ctx context.Context, page string) (string, error)
}

const (
	minQueryLen      = 2
	searchCandidates = 15
	searchFetches    = 8
)

// Service resolves free-text queries and single words into dictionary
// entries. It is stateless: entries are constructed fresh per call and
// no cache is written here.
type Service struct {
	client Fetcher
}

// NewService creates a Service on top of a remote wiki client.
func NewService(client Fetcher) *Service {
	return &Service{client: client}
}

// Search asks the wiki for candidate titles and fetches the top ones
// concurrently. A failing candidate is dropped without aborting the
// batch; survivors with at least one definition are returned in the
// original candidate order. Queries under two characters yield an empty
// result without a network call.
func (s *Service) Search(ctx context.Context, query string) []Entry {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLen {
		return nil
	}
	titles, err := s.client.Search(ctx, query, searchCandidates)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("wiktionary search failed")
		return nil
	}
	if len(titles) > searchFetches {
		titles = titles[:searchFetches]
	}

	found := make([]*Entry, len(titles))
	var wg sync.WaitGroup
	for i, title := range titles {
		wg.Add(1)
		go func(i int, title string) {
			defer wg.Done()
			entry, err := s.Lookup(ctx, title)
			if err != nil {
				log.Debug().Err(err).Str("word", title).Msg("dropping search candidate")
				return
			}
			found[i] = entry
		}(i, title)
	}
	wg.Wait()

	entries := make([]Entry, 0, len(found))
	for _, e := range found {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries
}

// Lookup fetches and parses a single word. A missing page and a page
// without extractable definitions both come back as a nil entry, so
// callers treat "not found" and "unusable" identically.
func (s *Service) Lookup(ctx context.Context, word string) (*Entry, error) {
	text, err := s.client.FetchWikitext(ctx, word)
	if err != nil {
		return nil, fmt.Errorf("fetch wikitext: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	entry := NewEntry(word, wikitext.Parse(text))
	if !entry.Usable() {
		return nil, nil
	}
	return &entry, nil
}

// featuredWords is the curated list shown on the home page.
var featuredWords = []string{
	"Wanderlust", "Gemütlichkeit", "Schadenfreude", "Zeitgeist",
	"Kindergarten", "Fernweh", "Weltanschauung", "Sehnsucht",
	"Geborgenheit", "Frühling", "Schmetterling", "Augenblick",
	"Feierabend", "Backpfeifengesicht", "Torschlusspanik", "Fingerspitzengefühl",
	"Fremdschämen", "Kopfkino", "Luftschloss", "Ohrwurm",
}

// Featured returns the curated word list for the home page.
func Featured() []string {
	words := make([]string, len(featuredWords))
	copy(words, featuredWords)
	return words
}

// randomPrefixes seed the random-word sampling with common German stems.
var randomPrefixes = []string{
	"Haus", "Berg", "Wasser", "Licht", "Freund", "Nacht", "Sonne", "Wald",
	"Blume", "Stein", "Wind", "Feuer", "Erde", "Herz", "Gold", "Stern",
	"Traum", "Garten", "Musik", "Kunst",
}

const randomPerPrefix = 8

// Random samples a few common prefixes and collects their search
// results, deduplicated and capped at count. Prefixes that fail to
// resolve are skipped.
func (s *Service) Random(ctx context.Context, count int) []string {
	prefixes := make([]string, len(randomPrefixes))
	copy(prefixes, randomPrefixes)
	rand.Shuffle(len(prefixes), func(i, j int) { prefixes[i], prefixes[j] = prefixes[j], prefixes[i] })
	want := (count + 2) / 3
	if want > len(prefixes) {
		want = len(prefixes)
	}

	seen := make(map[string]struct{})
	var words []string
	for _, prefix := range prefixes[:want] {
		titles, err := s.client.Search(ctx, prefix, randomPerPrefix)
		if err != nil {
			log.Debug().Err(err).Str("prefix", prefix).Msg("skipping random prefix")
			continue
		}
		for _, title := range titles {
			if _, ok := seen[title]; ok {
				continue
			}
			seen[title] = struct{}{}
			words = append(words, title)
		}
	}
	if len(words) > count {
		words = words[:count]
	}
	return words
}

// Category groups the browsing page's topic presets with their seed
// keywords.
type Category struct {
	Name     string
	Keywords []string
}

var categoryPresets = []Category{
	{Name: "Gefühle & Emotionen", Keywords: []string{"Liebe", "Angst", "Freude", "Trauer", "Hoffnung"}},
	{Name: "Natur & Umwelt", Keywords: []string{"Wald", "Berg", "Fluss", "Baum", "Tier"}},
	{Name: "Essen & Trinken", Keywords: []string{"Brot", "Kaffee", "Wasser", "Wein", "Obst"}},
	{Name: "Reisen & Orte", Keywords: []string{"Reise", "Stadt", "Land", "Abenteuer", "Weg"}},
	{Name: "Alltag & Familie", Keywords: []string{"Familie", "Haus", "Schule", "Kind", "Mutter"}},
	{Name: "Kultur & Kunst", Keywords: []string{"Musik", "Theater", "Kunst", "Tanz", "Lied"}},
	{Name: "Körper & Gesundheit", Keywords: []string{"Gesundheit", "Herz", "Kopf", "Hand", "Auge"}},
	{Name: "Beruf & Arbeit", Keywords: []string{"Arbeit", "Büro", "Lehrer", "Handel", "Chef"}},
	{Name: "Wissenschaft", Keywords: []string{"Wissenschaft", "Experiment", "Forschung", "Theorie", "Zahl"}},
	{Name: "Philosophie & Geschichte", Keywords: []string{"Freiheit", "Wahrheit", "Macht", "Zeit", "Mensch"}},
}

// Categories returns the topic presets for the browsing page.
func Categories() []Category {
	categories := make([]Category, len(categoryPresets))
	copy(categories, categoryPresets)
	return categories
}
