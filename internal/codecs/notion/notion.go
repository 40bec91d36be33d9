// Package notion reads Notion workspace exports.
//
// Pages are Markdown files named "Title <32 hex id>.md"; the id is removed
// from titles. CSV database files are not notes and are rejected.
package notion

import (
	"context"
	"fmt"
	"regexp"

	"github.com/custodia-labs/migrator/internal/codecs/markdown"
	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

var exportID = regexp.MustCompile(`\s+[0-9a-fA-F]{32}$`)

// Parser reads Notion Markdown pages.
type Parser struct {
	md *markdown.Parser
}

// NewParser creates a Notion parser.
func NewParser() *Parser {
	return &Parser{md: markdown.NewParser()}
}

// Format returns the source format this parser reads.
func (p *Parser) Format() domain.Format {
	return domain.FormatNotion
}

// Parse decodes one exported page.
func (p *Parser) Parse(ctx context.Context, path, content string) ([]domain.Note, error) {
	if domain.Extension(path) == "csv" {
		return nil, fmt.Errorf("%w: %s is a database table", domain.ErrUnsupportedFormat, path)
	}
	notes, err := p.md.Parse(ctx, path, content)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		notes[i].Title = StripExportID(notes[i].Title)
	}
	return notes, nil
}

// StripExportID removes the trailing 32-character hex id Notion appends to names.
func StripExportID(title string) string {
	return exportID.ReplaceAllString(title, "")
}
