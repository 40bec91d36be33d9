package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
)

// Ensure ParserRegistry implements the interface.
var _ driven.ParserRegistry = (*ParserRegistry)(nil)

// ParserRegistry maps source formats to parsers.
type ParserRegistry struct {
	mu      sync.RWMutex
	parsers map[domain.Format]driven.Parser
}

// NewParserRegistry creates a registry holding the given parsers.
func NewParserRegistry(parsers ...driven.Parser) *ParserRegistry {
	r := &ParserRegistry{parsers: make(map[domain.Format]driven.Parser)}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// Register adds a parser, replacing any parser for the same format.
func (r *ParserRegistry) Register(parser driven.Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[parser.Format()] = parser
}

// Parse dispatches to the parser registered for format.
func (r *ParserRegistry) Parse(ctx context.Context, format domain.Format, path, content string) ([]domain.Note, error) {
	r.mu.RLock()
	p, ok := r.parsers[format]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no parser for %s", domain.ErrUnsupportedFormat, format)
	}
	return p.Parse(ctx, path, content)
}

// Formats returns every format with a registered parser, sorted by name.
func (r *ParserRegistry) Formats() []domain.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]domain.Format, 0, len(r.parsers))
	for f := range r.parsers {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// formatForEntry picks a parser format from an entry's extension.
// Used when the catalog as a whole has no detected format.
func formatForEntry(path string) domain.Format {
	switch domain.Extension(path) {
	case "html", "htm":
		return domain.FormatKeep
	case "md", "markdown":
		return domain.FormatMarkdown
	case "enex":
		return domain.FormatEnex
	case "json":
		return domain.FormatJSON
	default:
		return domain.FormatUnknown
	}
}
