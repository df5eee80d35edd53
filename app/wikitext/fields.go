package wikitext

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Result holds every field extracted from one article.
type Result struct {
	WordType      string
	Pronunciation string
	Syllables     string
	Definitions   []string
	Examples      []string
	Synonyms      []string
	Antonyms      []string
	Translations  map[string]string
	Genus         string
	Plural        string
	Conjugation   *Conjugation
}

// Conjugation holds the basic verb forms from the verb overview template.
type Conjugation struct {
	Present3rd     string
	PastSimple     string
	PastParticiple string
	Auxiliary      string
}

// Parse runs every field extractor over the article text. Extractors are
// independent pure functions; a missing section or template yields the
// field's empty value.
func Parse(text string) Result {
	return Result{
		WordType:      WordType(text),
		Pronunciation: Pronunciation(text),
		Syllables:     Syllables(text),
		Definitions:   Definitions(text),
		Examples:      Examples(text),
		Synonyms:      Synonyms(text),
		Antonyms:      Antonyms(text),
		Translations:  Translations(text),
		Genus:         Genus(text),
		Plural:        Plural(text),
		Conjugation:   VerbConjugation(text),
	}
}

var reWordType = regexp.MustCompile(`\{\{Wortart\|([^|]+)\|Deutsch\}\}`)

// WordType returns the German part of speech, e.g. "Substantiv".
func WordType(text string) string {
	return firstGroup(reWordType, text)
}

var rePronunciation = regexp.MustCompile(`\{\{Lautschrift\|([^}]+)\}\}`)

// Pronunciation returns the first IPA transcription.
func Pronunciation(text string) string {
	return firstGroup(rePronunciation, text)
}

// Syllables returns the hyphenation of the base form from the
// Worttrennung section. Variant forms listed after a comma (comparative,
// plural) are ignored.
func Syllables(text string) string {
	section, ok := Section(text, "Worttrennung")
	if !ok {
		return ""
	}
	line := strings.SplitN(section, "\n", 2)[0]
	line = strings.TrimSpace(strings.TrimPrefix(line, ":"))
	base := strings.TrimSpace(strings.SplitN(line, ",", 2)[0])
	return Clean(base)
}

var (
	reNumberedLine = regexp.MustCompile(`^:\[?\d`)
	reLineNumber   = regexp.MustCompile(`^:\[?\d+\]?\s*`)
)

// Definitions returns the cleaned numbered glosses from the Bedeutungen
// section in file order.
func Definitions(text string) []string {
	section, ok := Section(text, "Bedeutungen")
	if !ok {
		return nil
	}
	var defs []string
	for _, line := range strings.Split(section, "\n") {
		if !reNumberedLine.MatchString(line) {
			continue
		}
		if def := Clean(reLineNumber.ReplaceAllString(line, "")); def != "" {
			defs = append(defs, def)
		}
	}
	return defs
}

var (
	reRefPair     = regexp.MustCompile(`(?s)<ref[^>]*>.*?</ref>`)
	reRefSelf     = regexp.MustCompile(`<ref[^>]*/>`)
	quoteStripper = strings.NewReplacer("„", "", "“", "", "”", "")
)

const (
	minExampleLen = 10
	maxExamples   = 4
)

// Examples returns up to four usage sentences from the Beispiele section.
// Citation markup and quote characters are removed; entries of ten
// characters or fewer after cleaning are treated as parse noise.
func Examples(text string) []string {
	section, ok := Section(text, "Beispiele")
	if !ok {
		return nil
	}
	var examples []string
	for _, line := range strings.Split(section, "\n") {
		if !reNumberedLine.MatchString(line) {
			continue
		}
		ex := reLineNumber.ReplaceAllString(line, "")
		ex = reRefPair.ReplaceAllString(ex, "")
		ex = reRefSelf.ReplaceAllString(ex, "")
		ex = quoteStripper.Replace(ex)
		ex = Clean(ex)
		if utf8.RuneCountInString(ex) <= minExampleLen {
			continue
		}
		examples = append(examples, ex)
		if len(examples) == maxExamples {
			break
		}
	}
	return examples
}

// Synonyms returns linked words from the "Sinnverwandte Wörter" section,
// falling back to "Synonyme".
func Synonyms(text string) []string {
	section, ok := Section(text, "Sinnverwandte Wörter")
	if !ok {
		if section, ok = Section(text, "Synonyme"); !ok {
			return nil
		}
	}
	return linkedWords(section)
}

// Antonyms returns linked words from the "Gegenwörter" section.
func Antonyms(text string) []string {
	section, ok := Section(text, "Gegenwörter")
	if !ok {
		return nil
	}
	return linkedWords(section)
}

var reWikiLink = regexp.MustCompile(`\[\[([^\]|]+?)(?:\|[^\]]+)?\]\]`)

const (
	maxLinkedWordLen = 40
	maxLinkedWords   = 12
)

// linkedWords collects [[link]] targets, skipping namespaced and
// cross-wiki targets, deduplicated in first-seen order.
func linkedWords(section string) []string {
	var words []string
	seen := make(map[string]struct{})
	for _, m := range reWikiLink.FindAllStringSubmatch(section, -1) {
		w := strings.TrimSpace(m[1])
		if w == "" || strings.Contains(w, ":") || strings.HasPrefix(w, "w:") {
			continue
		}
		if utf8.RuneCountInString(w) >= maxLinkedWordLen {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
		if len(words) == maxLinkedWords {
			break
		}
	}
	return words
}

var reTranslation = regexp.MustCompile(`\{\{Üt?\|(\w{2})\|([^}|]+)`)

// Translations maps two-letter language codes to the first translation
// given for them anywhere in the article. Later duplicates for the same
// code are ignored.
func Translations(text string) map[string]string {
	translations := make(map[string]string)
	for _, m := range reTranslation.FindAllStringSubmatch(text, -1) {
		if _, ok := translations[m[1]]; !ok {
			translations[m[1]] = m[2]
		}
	}
	return translations
}

var (
	reGenusField  = regexp.MustCompile(`Genus\s*=\s*([mfn])`)
	reGenusMarker = regexp.MustCompile(`Wortart\|Substantiv\|Deutsch\}\}[^\n]*\{\{([mfn])\}\}`)
)

// Genus returns the grammatical gender marker for nouns: the Genus field
// of the noun overview template, or a {{m}}/{{f}}/{{n}} marker on the
// part-of-speech header line.
func Genus(text string) string {
	if g := firstGroup(reGenusField, text); g != "" {
		return g
	}
	return firstGroup(reGenusMarker, text)
}

var (
	rePluralField = regexp.MustCompile(`Nominativ Plural\s*=\s*([^\n|]+)`)
	rePluralAbbr  = regexp.MustCompile(`\{\{Pl\.\}\}\s*([^\n]+)`)
)

// Plural returns the nominative plural of a noun. A dash value means the
// noun has no plural and yields the empty string. When the overview
// template is absent the {{Pl.}} abbreviation is used, taking only the
// first comma-separated alternative.
func Plural(text string) string {
	if m := rePluralField.FindStringSubmatch(text); m != nil {
		plural := strings.TrimSpace(m[1])
		if plural == "—" || plural == "–" || plural == "-" {
			return ""
		}
		return Clean(plural)
	}
	if m := rePluralAbbr.FindStringSubmatch(text); m != nil {
		return Clean(strings.TrimSpace(strings.SplitN(m[1], ",", 2)[0]))
	}
	return ""
}

var (
	reVerbMarker     = regexp.MustCompile(`Wortart\|Verb\|Deutsch`)
	rePresent3rd     = regexp.MustCompile(`Präsens_er[^=]*=\s*([^\n|]+)`)
	rePastSimple     = regexp.MustCompile(`Präteritum_ich[^=]*=\s*([^\n|]+)`)
	rePastParticiple = regexp.MustCompile(`Partizip II[^=]*=\s*([^\n|]+)`)
	reAuxiliary      = regexp.MustCompile(`Hilfsverb[^=]*=\s*([^\n|]+)`)
)

// VerbConjugation pulls the basic verb forms from the verb overview
// template. It returns nil for non-verbs and for verbs without any of
// the three main forms, which signals "template not present". The
// auxiliary defaults to "haben".
func VerbConjugation(text string) *Conjugation {
	if !reVerbMarker.MatchString(text) {
		return nil
	}
	present := firstGroup(rePresent3rd, text)
	past := firstGroup(rePastSimple, text)
	participle := firstGroup(rePastParticiple, text)
	if present == "" && past == "" && participle == "" {
		return nil
	}
	auxiliary := firstGroup(reAuxiliary, text)
	if auxiliary == "" {
		auxiliary = "haben"
	}
	return &Conjugation{
		Present3rd:     Clean(present),
		PastSimple:     Clean(past),
		PastParticiple: Clean(participle),
		Auxiliary:      Clean(auxiliary),
	}
}

func firstGroup(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
