// Package html renders every note into a single self-contained web page.
package html

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/custodia-labs/migrator/internal/codecs/htmltext"
	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.Generator = (*Generator)(nil)

// PageTitle is the document title of every export.
const PageTitle = "Migrator export"

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
article { border-bottom: 1px solid #ddd; padding-bottom: 1.5rem; margin-bottom: 1.5rem; }
.meta { color: #666; font-size: 0.85rem; }
.tag { background: #eee; border-radius: 3px; padding: 0 0.3rem; margin-right: 0.3rem; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Notes}}<article id="{{.ID}}">
<h2>{{.Title}}</h2>
{{if or .Created .Tags}}<p class="meta">{{with .Created}}<time datetime="{{.}}">{{.}}</time> {{end}}{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</p>
{{end}}{{.Body}}</article>
{{end}}</body>
</html>
`))

type pageData struct {
	Title string
	Notes []pageNote
}

type pageNote struct {
	ID      string
	Title   string
	Created string
	Tags    []string
	Body    template.HTML
}

// Generator writes one HTML page containing every note.
type Generator struct{}

// NewGenerator creates an HTML page generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Target returns the output format produced.
func (g *Generator) Target() domain.Target {
	return domain.TargetHTML
}

// Generate renders notes in order. Markdown bodies are converted with raw
// HTML disabled, so note content cannot inject markup into the page.
func (g *Generator) Generate(ctx context.Context, notes []domain.Note) ([]byte, error) {
	data := pageData{Title: PageTitle, Notes: make([]pageNote, 0, len(notes))}
	for i, n := range notes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, err := htmltext.FromMarkdown(n.Content)
		if err != nil {
			return nil, fmt.Errorf("note %d (%s): %w", i+1, n.Origin, err)
		}
		pn := pageNote{
			ID:    n.ID,
			Title: n.Title,
			Tags:  n.Tags,
			Body:  template.HTML(body), //nolint:gosec // goldmark output without unsafe raw HTML
		}
		if !n.Created.IsZero() {
			pn.Created = n.Created.UTC().Format(time.DateOnly)
		}
		data.Notes = append(data.Notes, pn)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
