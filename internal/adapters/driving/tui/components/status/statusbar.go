// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/migrator/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/migrator/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/migrator/internal/core/domain"
)

// Bar displays the selection count, detected format and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	format   domain.Format
	selected int
	total    int
	message  string
	fullHelp bool
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		format: domain.FormatUnknown,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - s.styles.StatusBar.GetHorizontalFrameSize() - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	if s.message != "" {
		return s.styles.Warning.Render(s.message)
	}
	return s.styles.Normal.Render(fmt.Sprintf("%d of %d selected", s.selected, s.total)) +
		s.styles.Muted.Render(" · "+string(s.format))
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.fullHelp {
		for _, group := range s.keymap.FullHelp() {
			bindings = append(bindings, group...)
		}
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

// SetCounts sets the selected and selectable entry counts.
func (s *Bar) SetCounts(selected, total int) {
	s.selected = selected
	s.total = total
}

// Counts returns the selected and selectable entry counts.
func (s *Bar) Counts() (selected, total int) {
	return s.selected, s.total
}

// SetFormat sets the detected format shown next to the counts.
func (s *Bar) SetFormat(format domain.Format) {
	s.format = format
}

// SetMessage replaces the counts with a notice until cleared.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current notice.
func (s *Bar) Message() string {
	return s.message
}

// ToggleHelp switches between short and full key hints.
func (s *Bar) ToggleHelp() {
	s.fullHelp = !s.fullHelp
}

// FullHelp reports whether full key hints are shown.
func (s *Bar) FullHelp() bool {
	return s.fullHelp
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
