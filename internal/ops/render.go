package ops

import (
	"bytes"
	"html/template"
	"io"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/cardex/internal/card"
	"github.com/hpungsan/cardex/internal/errors"
)

const exportPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Cards for {{.UserID}}</title>
</head>
<body>
<h1>Cards for {{.UserID}}</h1>
<p class="exported">Exported {{formatTime .ExportedAt}} UTC, {{len .Cards}} cards.</p>
{{range .Cards}}
<article id="card-{{.ID}}">
<h2>{{.Title}}</h2>
<p class="meta">{{.Type}} · {{.Category}}{{if .Source}} · {{.Source}}{{end}}</p>
{{- if .Tags}}
<ul class="tags">{{range .Tags}}<li>{{.}}</li>{{end}}</ul>
{{- end}}
<div class="content">
{{markdown .Content}}</div>
</article>
{{end}}
</body>
</html>
`

var exportTemplate = template.Must(template.New("export").Funcs(template.FuncMap{
	"markdown":   renderMarkdown,
	"formatTime": formatTime,
}).Parse(exportPage))

type exportPageData struct {
	UserID     string
	ExportedAt int64
	Cards      []card.Card
}

func writeHTML(w io.Writer, userID string, cards []card.Card, exportedAt int64) error {
	data := exportPageData{UserID: userID, ExportedAt: exportedAt, Cards: cards}
	if err := exportTemplate.Execute(w, data); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// renderMarkdown converts card content to HTML. Raw HTML in the content is
// omitted by goldmark's default renderer.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatTime formats a Unix timestamp as "2006-01-02 15:04" UTC.
func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04")
}
