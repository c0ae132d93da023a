package sink

import (
	"bytes"
	stdhtml "html"
	"strings"
	"text/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"edaqa/domain/report"
)

const markdownLayout = `# {{.Title}}

Rows: {{.RowCount}}, columns: {{.ColumnCount}}

## Quality

| score | ok_for_model | message |
|---|---|---|
| {{printf "%.3f" .Quality.Score}} | {{.Quality.OKForModel}} | {{cell .Quality.Message}} |

{{range .Narrative}}- {{.}}
{{end}}
{{- range .Tables}}
## {{.Title}}

{{if .Rows -}}
| {{row .Columns}} |
|{{range .Columns}}---|{{end}}
{{range .Rows}}| {{row .}} |
{{end}}
{{- else -}}
_none_
{{end}}
{{- end}}
## Charts

{{range .Charts}}- {{.Kind}}: charts/{{file .Name}}.json
{{end}}`

var markdownTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"cell": escapeCell,
	"row":  renderRow,
	"file": FileName,
}).Parse(markdownLayout))

// RenderMarkdown renders the report as a Markdown document
func RenderMarkdown(r *report.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdownTemplate.Execute(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderHTML renders the report as a complete HTML page
func RenderHTML(r *report.Report) ([]byte, error) {
	md, err := RenderMarkdown(r)
	if err != nil {
		return nil, err
	}
	return MarkdownToHTML(md, r.Title), nil
}

// MarkdownToHTML converts Markdown to a standalone HTML page. Report text
// comes from uploaded data, so raw HTML is dropped, links are limited to
// safe protocols and the page title is escaped.
func MarkdownToHTML(md []byte, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		// smartypants writes the title through unescaped
		Title: stdhtml.EscapeString(title),
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML | html.Safelink,
	})
	return markdown.ToHTML(md, p, renderer)
}

func renderRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = escapeCell(c)
	}
	return strings.Join(escaped, " | ")
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}

// FileName maps a table or chart name to a safe file name
func FileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
