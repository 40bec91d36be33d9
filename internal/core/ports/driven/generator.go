package driven

import (
	"context"

	"github.com/custodia-labs/migrator/internal/core/domain"
)

// Generator serialises the full canonical note list into one document.
type Generator interface {
	// Target returns the output format produced.
	Target() domain.Target

	// Generate serialises notes in order.
	Generate(ctx context.Context, notes []domain.Note) ([]byte, error)
}

// NoteSerializer serialises one note at a time, for targets that emit a file per note.
type NoteSerializer interface {
	// Target returns the output format produced.
	Target() domain.Target

	// Extension returns the per-note file extension without the dot.
	Extension() string

	// Serialize renders a single note.
	Serialize(ctx context.Context, note domain.Note) (string, error)
}
