package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Configuration keys understood by the config stores.
const (
	KeyOutputDir    = "output.dir"
	KeyOutputTarget = "output.target"
	KeyUITheme      = "ui.theme"
	KeyLogVerbose   = "log.verbose"
)

// ConfigKeys returns every known configuration key in display order.
func ConfigKeys() []string {
	return []string{KeyOutputDir, KeyOutputTarget, KeyUITheme, KeyLogVerbose}
}

// Settings are the user preferences read from configuration.
type Settings struct {
	// OutputDir is where deliverables are written.
	OutputDir string

	// Target is the default output format.
	Target Target

	// Theme is "light" or "dark".
	Theme string

	// Verbose enables debug logging.
	Verbose bool
}

// DefaultSettings returns the settings used when no configuration exists.
func DefaultSettings() Settings {
	return Settings{
		OutputDir: ".",
		Target:    TargetMarkdown,
		Theme:     "light",
	}
}

// NormaliseSetting validates a value for key and converts it to its stored type.
// Strings are accepted for every key so values can come straight from the command line.
func NormaliseSetting(key string, value any) (any, error) {
	switch key {
	case KeyOutputDir:
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%w: %s must be a non-empty path", ErrInvalidInput, key)
		}
		return s, nil

	case KeyOutputTarget:
		s, ok := value.(string)
		if !ok {
			if t, isTarget := value.(Target); isTarget {
				s = string(t)
			}
		}
		t, err := ParseTarget(s)
		if err != nil {
			return nil, err
		}
		return string(t), nil

	case KeyUITheme:
		s, _ := value.(string)
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "light" && s != "dark" {
			return nil, fmt.Errorf("%w: %s must be light or dark", ErrInvalidInput, key)
		}
		return s, nil

	case KeyLogVerbose:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be true or false", ErrInvalidInput, key)
			}
			return b, nil
		}
		return nil, fmt.Errorf("%w: %s must be true or false", ErrInvalidInput, key)

	default:
		return nil, fmt.Errorf("%w: unknown setting %q", ErrInvalidInput, key)
	}
}

// SettingsFrom builds Settings from a key lookup, falling back to defaults
// for missing or invalid values.
func SettingsFrom(get func(key string) (any, bool)) Settings {
	s := DefaultSettings()
	if v, ok := get(KeyOutputDir); ok {
		if n, err := NormaliseSetting(KeyOutputDir, v); err == nil {
			s.OutputDir = n.(string)
		}
	}
	if v, ok := get(KeyOutputTarget); ok {
		if n, err := NormaliseSetting(KeyOutputTarget, v); err == nil {
			s.Target = Target(n.(string))
		}
	}
	if v, ok := get(KeyUITheme); ok {
		if n, err := NormaliseSetting(KeyUITheme, v); err == nil {
			s.Theme = n.(string)
		}
	}
	if v, ok := get(KeyLogVerbose); ok {
		if n, err := NormaliseSetting(KeyLogVerbose, v); err == nil {
			s.Verbose = n.(bool)
		}
	}
	return s
}
