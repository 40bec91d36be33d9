package enex

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/custodia-labs/migrator/internal/codecs/htmltext"
	"github.com/custodia-labs/migrator/internal/codecs/noteid"
	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser reads .enex files. One file may hold many notes.
type Parser struct{}

// NewParser creates an ENEX parser.
func NewParser() *Parser {
	return &Parser{}
}

// Format returns the source format this parser reads.
func (p *Parser) Format() domain.Format {
	return domain.FormatEnex
}

// Parse decodes every note in an export. Embedded resources are not carried over.
func (p *Parser) Parse(_ context.Context, path, body string) ([]domain.Note, error) {
	if domain.Extension(path) != "enex" {
		return nil, fmt.Errorf("%w: %s is not an enex file", domain.ErrUnsupportedFormat, path)
	}

	dec := xml.NewDecoder(strings.NewReader(body))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	var doc export
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, path, err)
	}
	if doc.XMLName.Local != "en-export" {
		return nil, fmt.Errorf("%w: %s: root element is %q", domain.ErrInvalidInput, path, doc.XMLName.Local)
	}

	notes := make([]domain.Note, 0, len(doc.Notes))
	for i, n := range doc.Notes {
		notes = append(notes, domain.Note{
			ID:      noteid.For(path, i),
			Title:   strings.TrimSpace(n.Title),
			Content: htmltext.ToMarkdown(n.Content.Body),
			Tags:    n.Tags,
			Created: parseTime(n.Created),
			Updated: parseTime(n.Updated),
			Origin:  path,
		})
	}
	return notes, nil
}
