// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/migrator/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/migrator/internal/core/domain"
)

// EntryList displays catalog entries with a cursor and selection marks.
type EntryList struct {
	entries []domain.Entry
	cursor  int
	styles  *styles.Styles
	width   int
	height  int
}

// NewEntryList creates a new entry list component.
func NewEntryList(s *styles.Styles) *EntryList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &EntryList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// View renders the visible window of the list. isSelected decides each mark.
func (l *EntryList) View(isSelected func(domain.SelectionKey) bool) string {
	if len(l.entries) == 0 {
		return l.styles.Muted.Render("No entries")
	}

	rows := l.height
	if rows < 1 {
		rows = 1
	}
	start := 0
	if l.cursor >= rows {
		start = l.cursor - rows + 1
	}
	end := start + rows
	if end > len(l.entries) {
		end = len(l.entries)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderEntry(i, isSelected(l.entries[i].Key())))
	}
	return strings.Join(lines, "\n")
}

func (l *EntryList) renderEntry(index int, selected bool) string {
	indicator := "  "
	if index == l.cursor {
		indicator = "> "
	}

	mark := l.styles.Muted.Render("[ ]")
	if selected {
		mark = l.styles.Checked.Render("[x]")
	}

	e := l.entries[index]
	size := humanize.Bytes(uint64(max(e.Size, 0)))
	maxPath := l.width - len(size) - 10
	if maxPath < 10 {
		maxPath = 10
	}
	path := e.Path
	if len(path) > maxPath {
		path = "..." + path[len(path)-maxPath+3:]
	}

	text := fmt.Sprintf("%-*s", maxPath, path)
	if index == l.cursor {
		text = l.styles.Cursor.Render(text)
	} else {
		text = l.styles.Normal.Render(text)
	}
	return indicator + mark + " " + text + "  " + l.styles.Muted.Render(size)
}

// SetEntries replaces the entries, keeping the cursor in range.
func (l *EntryList) SetEntries(entries []domain.Entry) {
	l.entries = entries
	if l.cursor >= len(entries) {
		l.cursor = max(len(entries)-1, 0)
	}
}

// Entries returns the current entries.
func (l *EntryList) Entries() []domain.Entry {
	return l.entries
}

// Cursor returns the index under the cursor.
func (l *EntryList) Cursor() int {
	return l.cursor
}

// Current returns the entry under the cursor, or false if the list is empty.
func (l *EntryList) Current() (domain.Entry, bool) {
	if len(l.entries) == 0 {
		return domain.Entry{}, false
	}
	return l.entries[l.cursor], true
}

// MoveUp moves the cursor up.
func (l *EntryList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// MoveDown moves the cursor down.
func (l *EntryList) MoveDown() {
	if l.cursor < len(l.entries)-1 {
		l.cursor++
	}
}

// SetDimensions sets the component dimensions. Height counts rows.
func (l *EntryList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of entries.
func (l *EntryList) Count() int {
	return len(l.entries)
}
