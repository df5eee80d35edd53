package wikitext

import (
	"regexp"
	"strings"
)

// A new top-level section starts on a line opening a template with an
// uppercase letter, e.g. "{{Beispiele}}".
var reSectionEnd = regexp.MustCompile(`\n\{\{[A-ZÄÖÜ]`)

// Section returns the text between the literal {{name}} marker and the
// next top-level section marker, or the end of the document when none
// follows. The second return value is false when the marker is absent.
// Matching is case sensitive and only the first occurrence counts.
func Section(text, name string) (string, bool) {
	marker := "{{" + name + "}}"
	idx := strings.Index(text, marker)
	if idx < 0 {
		return "", false
	}
	rest := text[idx+len(marker):]
	if loc := reSectionEnd.FindStringIndex(rest); loc != nil {
		rest = rest[:loc[0]]
	}
	return strings.TrimSpace(rest), true
}
