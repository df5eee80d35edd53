// Package dictionary turns extracted wikitext fields into normalized
// dictionary entries and orchestrates remote search and lookup.
package dictionary

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/erstaunlich/wortschatz/app/wikitext"
)

// syllableSep is the hyphenation dot used in Worttrennung data.
const syllableSep = "·"

// Word holds the lexical data for a single dictionary entry.
type Word struct {
	ID            string
	Word          string
	Pronunciation string
	Syllables     string
	WordType      string
	Category      string
	Difficulty    int
	Genus         string                `json:",omitempty"`
	Plural        string                `json:",omitempty"`
	Conjugation   *wikitext.Conjugation `json:",omitempty"`
	Translations  map[string]string     `json:",omitempty"`
	Synonyms      []string
	Antonyms      []string
	CreatedAt     time.Time
}

// Definition is one sense of a word. Order is the 1-based display
// position and never changes after creation.
type Definition struct {
	ID     string
	WordID string
	Text   string
	Order  int
}

// Example is one usage sentence. Highlighted is the form of the owning
// word found in the sentence, used for presentation emphasis.
type Example struct {
	ID          string
	WordID      string
	Text        string
	Highlighted string
	Order       int
}

// Entry is the aggregate produced by the pipeline: one word with its
// ordered definitions and examples. Entries are value-like and built
// fresh per fetch.
type Entry struct {
	Word        Word
	Definitions []Definition
	Examples    []Example
}

// Usable reports whether the entry carries at least one definition.
// Entries without definitions are discarded by the orchestrator.
func (e Entry) Usable() bool { return len(e.Definitions) > 0 }

const idPrefix = "wk-"

// WordID derives the stable entry ID for a surface form.
func WordID(word string) string {
	return idPrefix + url.PathEscape(word)
}

// WordFromID recovers the surface form from an entry ID.
func WordFromID(id string) (string, bool) {
	if !strings.HasPrefix(id, idPrefix) {
		return "", false
	}
	word, err := url.PathUnescape(strings.TrimPrefix(id, idPrefix))
	if err != nil {
		return "", false
	}
	return word, true
}

// categoryByType maps a part of speech to a coarse semantic bucket.
var categoryByType = map[string]string{
	"Adjektiv":     "Beschreibend",
	"Substantiv":   "Gegenstand",
	"Verb":         "Handlung",
	"Adverb":       "Umstand",
	"Konjunktion":  "Verbindung",
	"Präposition":  "Verhältnis",
	"Interjektion": "Ausruf",
	"Pronomen":     "Stellvertretung",
	"Artikel":      "Begleiter",
	"Numerale":     "Zahl",
	"Partikel":     "Partikel",
}

const (
	maxSynonyms = 8
	maxAntonyms = 6
	longWordLen = 12
	minStemLen  = 3
)

// NewEntry assembles a normalized entry for a word from its extracted
// fields.
func NewEntry(word string, r wikitext.Result) Entry {
	id := WordID(word)
	entry := Entry{Word: Word{
		ID:            id,
		Word:          word,
		Pronunciation: pronunciationDisplay(word, r.Syllables),
		Syllables:     r.Syllables,
		WordType:      r.WordType,
		Category:      category(r.WordType),
		Difficulty:    difficulty(word, r.Syllables),
		Genus:         r.Genus,
		Plural:        r.Plural,
		Conjugation:   r.Conjugation,
		Translations:  r.Translations,
		Synonyms:      capped(r.Synonyms, maxSynonyms),
		Antonyms:      capped(r.Antonyms, maxAntonyms),
		CreatedAt:     time.Now().UTC(),
	}}
	for i, text := range r.Definitions {
		entry.Definitions = append(entry.Definitions, Definition{
			ID:     fmt.Sprintf("%s-d%d", id, i),
			WordID: id,
			Text:   text,
			Order:  i + 1,
		})
	}
	for i, text := range r.Examples {
		entry.Examples = append(entry.Examples, Example{
			ID:          fmt.Sprintf("%s-e%d", id, i),
			WordID:      id,
			Text:        text,
			Highlighted: highlightForm(text, word),
			Order:       i + 1,
		})
	}
	return entry
}

func category(wordType string) string {
	if c, ok := categoryByType[wordType]; ok {
		return c
	}
	if wordType != "" {
		return wordType
	}
	return "Allgemein"
}

// difficulty estimates a 1-5 score from the syllable count, with a bonus
// for long words.
func difficulty(word, syllables string) int {
	syllableCount := strings.Count(syllables, syllableSep) + 1
	score := float64(syllableCount) * 0.8
	if utf8.RuneCountInString(word) > longWordLen {
		score++
	}
	d := int(math.Ceil(score))
	if d < 1 {
		d = 1
	}
	if d > 5 {
		d = 5
	}
	return d
}

// pronunciationDisplay builds the human-readable syllable string. Words
// without hyphenation data are spaced out letter by letter.
func pronunciationDisplay(word, syllables string) string {
	if syllables != "" {
		return strings.ReplaceAll(syllables, syllableSep, " - ")
	}
	return strings.Join(strings.Split(word, ""), " ")
}

var tokenPunctuation = strings.NewReplacer(
	".", "", ",", "", "!", "", "?", "", ";", "", ":", "", `"`, "", "„", "", "“", "",
)

// highlightForm finds the form of base used in sentence: the base word
// itself when it appears as a token, otherwise the first token whose
// lowercase form starts with the word's stem. The base word is returned
// as a last resort so the field is always populated, even when the
// sentence does not literally contain it.
func highlightForm(sentence, base string) string {
	lower := strings.ToLower(base)
	stem := stemOf(lower)
	var stemMatch string
	for _, token := range strings.Fields(sentence) {
		clean := tokenPunctuation.Replace(token)
		if clean == base {
			return base
		}
		if stemMatch == "" && strings.HasPrefix(strings.ToLower(clean), stem) {
			stemMatch = clean
		}
	}
	if stemMatch != "" {
		return stemMatch
	}
	return base
}

// stemOf truncates up to the last three characters, keeping at least
// three.
func stemOf(word string) string {
	runes := []rune(word)
	n := len(runes) - 3
	if n < minStemLen {
		n = minStemLen
	}
	if n > len(runes) {
		n = len(runes)
	}
	return string(runes[:n])
}

func capped(items []string, max int) []string {
	if len(items) <= max {
		return items
	}
	return items[:max]
}
