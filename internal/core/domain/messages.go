package domain

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage maps a pipeline error to the notice shown to the user.
// Errors outside the taxonomy fall back to their own text.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedArchiveKind):
		return "GZIP (.tgz) not supported. Use .zip."
	case errors.Is(err, ErrNoSupportedFiles):
		return "No supported files found."
	case errors.Is(err, ErrEmptySelection):
		return "Select at least one file."
	case errors.Is(err, ErrNoValidNotes):
		return "No valid notes parsed."
	case errors.Is(err, ErrConversionInProgress):
		return "A conversion is already running."
	case errors.Is(err, ErrExtractionFailure):
		return "Could not read archive: " + err.Error()
	case errors.Is(err, ErrPackingFailure):
		return "Could not build export: " + err.Error()
	case errors.Is(err, ErrUnsupportedTarget):
		return fmt.Sprintf("Unknown output format. Choose one of: %s.", targetList())
	default:
		return err.Error()
	}
}

// SkippedNotice returns the notice for loose files dropped by the allow-list.
func SkippedNotice(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%d unsupported file(s) skipped.", n)
}

func targetList() string {
	names := make([]string, 0, len(Targets()))
	for _, t := range Targets() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
