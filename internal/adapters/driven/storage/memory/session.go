package memory

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
)

// Ensure Session implements the interface.
var _ driven.SessionStore = (*Session)(nil)

// Session is the in-memory state of one migration session.
// Sources are an arena addressed by index; entries carry only that index.
type Session struct {
	mu       sync.RWMutex
	sources  []domain.Source
	entries  []domain.Entry
	live     map[domain.SelectionKey]int
	selected map[domain.SelectionKey]struct{}
	format   domain.Format
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		live:     make(map[domain.SelectionKey]int),
		selected: make(map[domain.SelectionKey]struct{}),
		format:   domain.FormatUnknown,
	}
}

// AddSource appends a source and returns its index.
func (s *Session) AddSource(source domain.Source) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	source.Index = len(s.sources)
	source.Entries = cloneEntries(source.Entries)
	s.sources = append(s.sources, source)
	return source.Index
}

// Source returns the source at index.
func (s *Session) Source(index int) (domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.sources) {
		return domain.Source{}, fmt.Errorf("source %d: %w", index, domain.ErrNotFound)
	}
	src := s.sources[index]
	src.Entries = cloneEntries(src.Entries)
	return src, nil
}

// Sources returns every source in index order.
func (s *Session) Sources() []domain.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Source, len(s.sources))
	for i, src := range s.sources {
		src.Entries = cloneEntries(src.Entries)
		result[i] = src
	}
	return result
}

// SetEntries attaches an entry list to the source at index.
func (s *Session) SetEntries(index int, entries []domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.sources) {
		return fmt.Errorf("source %d: %w", index, domain.ErrNotFound)
	}
	s.sources[index].Entries = cloneEntries(entries)
	return nil
}

// AppendEntries adds tagged entries to the global catalog.
// An entry whose key is already live is ignored.
func (s *Session) AppendEntries(entries []domain.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		key := e.Key()
		if _, dup := s.live[key]; dup {
			continue
		}
		s.live[key] = len(s.entries)
		s.entries = append(s.entries, e)
	}
}

// Entries returns the catalog in insertion order.
func (s *Session) Entries() []domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.entries)
}

// Select adds keys that reference live entries.
func (s *Session) Select(keys ...domain.SelectionKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, key := range keys {
		if _, ok := s.live[key]; !ok {
			continue
		}
		if _, ok := s.selected[key]; ok {
			continue
		}
		s.selected[key] = struct{}{}
		added++
	}
	return added
}

// Deselect removes keys from the selection.
func (s *Session) Deselect(keys ...domain.SelectionKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, key := range keys {
		if _, ok := s.selected[key]; ok {
			delete(s.selected, key)
			removed++
		}
	}
	return removed
}

// ClearSelection empties the selection set.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[domain.SelectionKey]struct{})
}

// IsSelected reports whether key is in the selection set.
func (s *Session) IsSelected(key domain.SelectionKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[key]
	return ok
}

// Selection returns selected keys in catalog order.
func (s *Session) Selection() []domain.SelectionKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.SelectionKey, 0, len(s.selected))
	for _, e := range s.entries {
		key := e.Key()
		if _, ok := s.selected[key]; ok {
			result = append(result, key)
		}
	}
	return result
}

// DetectedFormat returns the format inferred for the current catalog.
func (s *Session) DetectedFormat() domain.Format {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.format
}

// SetDetectedFormat records the inferred format.
func (s *Session) SetDetectedFormat(format domain.Format) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.format = format
}

// Reset discards every source, entry and selection.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = nil
	s.entries = nil
	s.live = make(map[domain.SelectionKey]int)
	s.selected = make(map[domain.SelectionKey]struct{})
	s.format = domain.FormatUnknown
}

func cloneEntries(entries []domain.Entry) []domain.Entry {
	if entries == nil {
		return nil
	}
	out := make([]domain.Entry, len(entries))
	copy(out, entries)
	return out
}
