package services

import (
	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
	"github.com/custodia-labs/migrator/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// VisibleEntries filters the catalog for display and batch selection.
// Platform artifacts are never visible and images always are. Other entries are
// visible when their extension matches the format's note extension; with
// no detected format every entry is shown.
func VisibleEntries(entries []domain.Entry, format domain.Format) []domain.Entry {
	want := format.NoteExtension()
	visible := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		switch {
		case domain.IsPlatformArtifact(e.Path):
			continue
		case domain.IsImage(e.Name), want == "":
			visible = append(visible, e)
		case domain.Extension(e.Name) == want:
			visible = append(visible, e)
		}
	}
	return visible
}

// CatalogService exposes the entry catalog and selection of a session.
type CatalogService struct {
	session driven.SessionStore
}

// NewCatalogService creates a catalog service over a session.
func NewCatalogService(session driven.SessionStore) *CatalogService {
	return &CatalogService{session: session}
}

// Entries returns every entry in the catalog.
func (c *CatalogService) Entries() []domain.Entry {
	return c.session.Entries()
}

// Visible returns the entries shown for the detected format.
func (c *CatalogService) Visible() []domain.Entry {
	return VisibleEntries(c.session.Entries(), c.session.DetectedFormat())
}

// DetectedFormat returns the current inferred format.
func (c *CatalogService) DetectedFormat() domain.Format {
	return c.session.DetectedFormat()
}

// Select adds a key and reports whether it was added.
func (c *CatalogService) Select(key domain.SelectionKey) bool {
	return c.session.Select(key) == 1
}

// Deselect removes a key and reports whether it was present.
func (c *CatalogService) Deselect(key domain.SelectionKey) bool {
	return c.session.Deselect(key) == 1
}

// Toggle flips a key and returns the new state.
func (c *CatalogService) Toggle(key domain.SelectionKey) bool {
	if c.session.IsSelected(key) {
		c.session.Deselect(key)
		return false
	}
	return c.session.Select(key) == 1
}

// SelectAll selects or deselects every visible entry and returns how many changed.
// Selected entries that are not visible are left alone.
func (c *CatalogService) SelectAll(on bool) int {
	visible := c.Visible()
	keys := make([]domain.SelectionKey, len(visible))
	for i, e := range visible {
		keys[i] = e.Key()
	}
	if on {
		return c.session.Select(keys...)
	}
	return c.session.Deselect(keys...)
}

// SelectNone empties the selection.
func (c *CatalogService) SelectNone() {
	c.session.ClearSelection()
}

// IsSelected reports whether key is selected.
func (c *CatalogService) IsSelected(key domain.SelectionKey) bool {
	return c.session.IsSelected(key)
}

// Selection returns the selected keys in catalog order.
func (c *CatalogService) Selection() []domain.SelectionKey {
	return c.session.Selection()
}
