package bot

import (
	"bytes"
	"text/template"

	"github.com/erstaunlich/wortschatz/app/dictionary"

	"github.com/rs/zerolog/log"
)

const entryTemplate = `<b>{{ article .Entry.Word.Genus }}{{ .Entry.Word.Word }}</b> ({{ .Entry.Word.WordType }})
{{- if .Entry.Word.Pronunciation }}
<i>[{{ .Entry.Word.Pronunciation }}]</i>
{{- end }}
<b>Bedeutungen:</b>
{{- range $d := .Entry.Definitions }}
{{ $d.Order }}. <code>{{ $d.Text }}</code>
{{- end }}
{{- if .Entry.Examples }}

<b>Beispiele:</b>
{{- range $e := .Entry.Examples }}
{{ $e.Text }}
{{- end }}
{{- end }}
{{- if .Entry.Word.Plural }}

<i>Plural</i>: die {{ .Entry.Word.Plural }}
{{- end }}
{{- if .Entry.Word.Conjugation }}

<i>Konjugation</i>: {{ .Entry.Word.Conjugation.Present3rd }} · {{ .Entry.Word.Conjugation.PastSimple }} · {{ .Entry.Word.Conjugation.PastParticiple }} ({{ .Entry.Word.Conjugation.Auxiliary }})
{{- end }}
{{- if .Entry.Word.Translations }}

<b>Übersetzungen:</b>
{{- range $lang, $t := .Entry.Word.Translations }}
<code>{{ $t }}</code> ({{ $lang }})
{{- end }}
{{- end }}
`

// article maps a genus marker to the definite article prefix.
func article(genus string) string {
	switch genus {
	case "m":
		return "der "
	case "f":
		return "die "
	case "n":
		return "das "
	}
	return ""
}

// GetEntryMessageText executes template with entry data
func GetEntryMessageText(entry dictionary.Entry) string {
	tmpl, err := template.New("template").Funcs(template.FuncMap{"article": article}).Parse(entryTemplate)
	if err != nil {
		log.Error().Err(err).Str("word", entry.Word.Word).Msg("failed to parse entry template")
		return ""
	}
	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, map[string]interface{}{"Entry": entry}); err != nil {
		log.Error().Err(err).Str("word", entry.Word.Word).Msg("failed to format entry template")
	}
	return buf.String()
}
