package driven

import (
	"context"

	"github.com/custodia-labs/migrator/internal/core/domain"
)

// Parser turns the text of one entry into canonical notes.
// A parser may yield one note or many; an error means the entry is skipped.
type Parser interface {
	// Format returns the source format this parser reads.
	Format() domain.Format

	// Parse decodes content read from the entry at path.
	Parse(ctx context.Context, path, content string) ([]domain.Note, error)
}

// ParserRegistry selects the parser for the detected source format.
type ParserRegistry interface {
	// Register adds a parser, replacing any parser for the same format.
	Register(parser Parser)

	// Parse dispatches to the parser registered for format.
	// Returns domain.ErrUnsupportedFormat when none is registered.
	Parse(ctx context.Context, format domain.Format, path, content string) ([]domain.Note, error)

	// Formats returns every format with a registered parser.
	Formats() []domain.Format
}
