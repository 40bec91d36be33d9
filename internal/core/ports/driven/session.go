package driven

import "github.com/custodia-labs/migrator/internal/core/domain"

// SessionStore holds the state of one migration session.
// Sources form an append-only arena; entries are append-only; the selection
// only ever references live entries.
type SessionStore interface {
	// AddSource appends a source and returns its index.
	AddSource(source domain.Source) int

	// Source returns the source at index.
	Source(index int) (domain.Source, error)

	// Sources returns every source in index order.
	Sources() []domain.Source

	// SetEntries attaches an entry list to the source at index.
	SetEntries(index int, entries []domain.Entry) error

	// AppendEntries adds tagged entries to the global catalog.
	AppendEntries(entries []domain.Entry)

	// Entries returns the catalog in insertion order.
	Entries() []domain.Entry

	// Select adds keys that reference live entries and returns how many were added.
	Select(keys ...domain.SelectionKey) int

	// Deselect removes keys and returns how many were removed.
	Deselect(keys ...domain.SelectionKey) int

	// ClearSelection empties the selection set.
	ClearSelection()

	// IsSelected reports whether key is in the selection set.
	IsSelected(key domain.SelectionKey) bool

	// Selection returns selected keys in catalog order.
	Selection() []domain.SelectionKey

	// DetectedFormat returns the format inferred for the current catalog.
	DetectedFormat() domain.Format

	// SetDetectedFormat records the inferred format.
	SetDetectedFormat(format domain.Format)

	// Reset discards every source, entry and selection.
	Reset()
}
