package enex

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/custodia-labs/migrator/internal/codecs/htmltext"
	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.Generator = (*Generator)(nil)

// Application is written into the export header.
const Application = "Migrator"

// Generator writes every note into one .enex document.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates an ENEX generator. now stamps the export date; nil means time.Now.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Target returns the output format produced.
func (g *Generator) Target() domain.Target {
	return domain.TargetEnex
}

// Generate serialises notes in order.
func (g *Generator) Generate(ctx context.Context, notes []domain.Note) ([]byte, error) {
	doc := export{
		ExportDate:  formatTime(g.now()),
		Application: Application,
		Version:     "1.0",
		Notes:       make([]note, 0, len(notes)),
	}

	for i, n := range notes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		enml, err := htmltext.ToENML(n.Content)
		if err != nil {
			return nil, fmt.Errorf("note %d (%s): %w", i+1, n.Origin, err)
		}
		doc.Notes = append(doc.Notes, note{
			Title:   n.Title,
			Content: content{Body: noteHeader + "<en-note>" + enml + "</en-note>"},
			Created: formatTime(n.Created),
			Updated: formatTime(n.Updated),
			Tags:    n.Tags,
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(exportDoctype + "\n")
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
