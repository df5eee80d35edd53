// Package wikitext extracts structured dictionary fields from
// de.wiktionary.org article markup. The extraction is heuristic: every
// function has a defined empty result for missing structure and never
// fails on malformed input.
package wikitext

import (
	"regexp"
	"strings"
)

var (
	reEmphasis   = regexp.MustCompile(`''+`)
	reLink       = regexp.MustCompile(`\[\[(?:[^|\]]*\|)?([^\]]+)\]\]`)
	reTemplate   = regexp.MustCompile(`\{\{[^}]*\}\}`)
	reBrackets   = regexp.MustCompile(`[\[\]]`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Clean strips wiki markup from a text fragment: emphasis markers,
// [[link|display]] syntax, {{templates}}, stray brackets. Whitespace is
// collapsed and trimmed. Unmatched markup passes through unchanged, so
// Clean never fails and is idempotent.
func Clean(raw string) string {
	s := reEmphasis.ReplaceAllString(raw, "")
	s = reLink.ReplaceAllString(s, "$1")
	s = reTemplate.ReplaceAllString(s, "")
	s = reBrackets.ReplaceAllString(s, "")
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
