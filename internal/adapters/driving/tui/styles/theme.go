// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme names accepted by ThemeFor.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Theme defines the colour palette and styling for the TUI.
type Theme struct {
	// Name is "light" or "dark".
	Name string

	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success marks selected entries.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DarkTheme returns the palette for dark terminals.
func DarkTheme() *Theme {
	return &Theme{
		Name:       ThemeDark,
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Bar:        lipgloss.Color("#181825"),
	}
}

// LightTheme returns the palette for light terminals.
func LightTheme() *Theme {
	return &Theme{
		Name:       ThemeLight,
		Primary:    lipgloss.Color("#6D28D9"),
		Secondary:  lipgloss.Color("#0E7490"),
		Foreground: lipgloss.Color("#1F2937"),
		Muted:      lipgloss.Color("#6B7280"),
		Success:    lipgloss.Color("#15803D"),
		Warning:    lipgloss.Color("#B45309"),
		Error:      lipgloss.Color("#B91C1C"),
		Bar:        lipgloss.Color("#E5E7EB"),
	}
}

// DefaultTheme returns the light theme, matching the default ui.theme setting.
func DefaultTheme() *Theme {
	return LightTheme()
}

// ThemeFor returns the theme with the given name. Unknown names get the default.
func ThemeFor(name string) *Theme {
	if strings.EqualFold(strings.TrimSpace(name), ThemeDark) {
		return DarkTheme()
	}
	return DefaultTheme()
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Cursor style for the row under the cursor.
	Cursor lipgloss.Style

	// Checked style for the mark of a selected entry.
	Checked lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Warning style for notices.
	Warning lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Cursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Checked: lipgloss.NewStyle().
			Foreground(theme.Success),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
