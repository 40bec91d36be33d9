// Package tui provides the interactive entry picker shown before a conversion.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/migrator/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/migrator/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/migrator/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/migrator/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driving"
)

// Picker lets the user adjust the selection over the visible entries.
// It implements tea.Model; every change goes straight to the catalog.
type Picker struct {
	catalog driving.CatalogService
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	list    *list.EntryList
	bar     *status.Bar

	confirmed bool
	quitting  bool
	width     int
	height    int
}

// NewPicker creates a picker over the catalog using the named theme.
func NewPicker(catalog driving.CatalogService, theme string) (*Picker, error) {
	if catalog == nil {
		return nil, ErrMissingCatalog
	}

	s := styles.NewStyles(styles.ThemeFor(theme))
	km := keymap.DefaultKeyMap()
	p := &Picker{
		catalog: catalog,
		styles:  s,
		keymap:  km,
		list:    list.NewEntryList(s),
		bar:     status.NewBar(s, km),
		width:   80,
		height:  24,
	}
	p.refresh()
	return p, nil
}

// Init implements tea.Model.
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.SetDimensions(msg.Width, msg.Height)
		return p, nil
	case tea.KeyMsg:
		return p.handleKey(msg.String())
	}
	return p, nil
}

func (p *Picker) handleKey(k string) (tea.Model, tea.Cmd) {
	p.bar.SetMessage("")

	switch {
	case keymap.Matches(k, p.keymap.Quit):
		p.quitting = true
		return p, tea.Quit
	case keymap.Matches(k, p.keymap.Confirm):
		if len(p.catalog.Selection()) == 0 {
			p.bar.SetMessage(domain.UserMessage(domain.ErrEmptySelection))
			return p, nil
		}
		p.confirmed = true
		return p, tea.Quit
	case keymap.Matches(k, p.keymap.Up):
		p.list.MoveUp()
	case keymap.Matches(k, p.keymap.Down):
		p.list.MoveDown()
	case keymap.Matches(k, p.keymap.Toggle):
		if e, ok := p.list.Current(); ok {
			p.catalog.Toggle(e.Key())
		}
	case keymap.Matches(k, p.keymap.All):
		p.catalog.SelectAll(true)
	case keymap.Matches(k, p.keymap.None):
		p.catalog.SelectNone()
	case keymap.Matches(k, p.keymap.Help):
		p.bar.ToggleHelp()
	}
	p.refresh()
	return p, nil
}

// refresh recomputes the visible entries and the status counts. The count
// is the selection a conversion would gather, out of every entry that is
// not platform metadata.
func (p *Picker) refresh() {
	p.list.SetEntries(p.catalog.Visible())

	total := 0
	for _, e := range p.catalog.Entries() {
		if !domain.IsPlatformArtifact(e.Path) {
			total++
		}
	}
	p.bar.SetCounts(len(p.catalog.Selection()), total)
	p.bar.SetFormat(p.catalog.DetectedFormat())
}

// View implements tea.Model.
func (p *Picker) View() string {
	if p.quitting || p.confirmed {
		return ""
	}

	var b strings.Builder
	b.WriteString(p.styles.Title.Render("Select entries to convert"))
	b.WriteString("\n\n")
	b.WriteString(p.list.View(p.catalog.IsSelected))
	b.WriteString("\n\n")
	b.WriteString(p.bar.View())
	return b.String()
}

// SetDimensions resizes the picker; the list gets what the header and bar leave.
func (p *Picker) SetDimensions(width, height int) {
	p.width = width
	p.height = height
	p.list.SetDimensions(width, height-5)
	p.bar.SetWidth(width)
}

// Confirmed reports whether the user accepted the selection.
func (p *Picker) Confirmed() bool {
	return p.confirmed
}

// Run shows the picker until the user confirms or quits.
// Quitting returns ErrCancelled.
func Run(catalog driving.CatalogService, theme string, opts ...tea.ProgramOption) error {
	p, err := NewPicker(catalog, theme)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(p, opts...).Run()
	if err != nil {
		return err
	}
	if picker, ok := final.(*Picker); !ok || !picker.Confirmed() {
		return ErrCancelled
	}
	return nil
}
