package markdown

import (
	"context"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
)

// Ensure Serializer implements the interface.
var _ driven.NoteSerializer = (*Serializer)(nil)

// Serializer writes one Markdown file per note.
type Serializer struct{}

// NewSerializer creates a Markdown serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Target returns the output format produced.
func (s *Serializer) Target() domain.Target {
	return domain.TargetMarkdown
}

// Extension returns the per-note file extension.
func (s *Serializer) Extension() string {
	return "md"
}

// Serialize renders a note as YAML frontmatter followed by its body.
func (s *Serializer) Serialize(_ context.Context, note domain.Note) (string, error) {
	header, err := yaml.Marshal(frontMatter{
		ID:       note.ID,
		Title:    note.Title,
		Tags:     note.Tags,
		Created:  note.Created,
		Updated:  note.Updated,
		Pinned:   note.Pinned,
		Archived: note.Archived,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(fence + "\n")
	b.Write(header)
	b.WriteString(fence + "\n\n")
	if body := strings.TrimSpace(note.Content); body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String(), nil
}
