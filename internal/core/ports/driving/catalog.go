package driving

import "github.com/custodia-labs/migrator/internal/core/domain"

// CatalogService exposes the entry catalog and the selection model.
type CatalogService interface {
	// Entries returns every entry in the catalog.
	Entries() []domain.Entry

	// Visible returns the entries shown for the detected format.
	Visible() []domain.Entry

	// DetectedFormat returns the current inferred format.
	DetectedFormat() domain.Format

	// Select adds a key. Keys without a live entry are ignored.
	Select(key domain.SelectionKey) bool

	// Deselect removes a key.
	Deselect(key domain.SelectionKey) bool

	// Toggle flips a key and returns the new state.
	Toggle(key domain.SelectionKey) bool

	// SelectAll selects (on) or deselects (off) every visible entry in one batch.
	SelectAll(on bool) int

	// SelectNone empties the selection.
	SelectNone()

	// IsSelected reports whether key is selected.
	IsSelected(key domain.SelectionKey) bool

	// Selection returns the selected keys in catalog order.
	Selection() []domain.SelectionKey
}
