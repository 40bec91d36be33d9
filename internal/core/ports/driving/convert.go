package driving

import (
	"context"

	"github.com/custodia-labs/migrator/internal/core/domain"
)

// ConversionService runs conversions of the current selection.
type ConversionService interface {
	// Convert gathers, parses and emits the selection in the target format.
	// Only one run may be active. A call made while a run is active does
	// nothing beyond returning domain.ErrConversionInProgress: the active
	// run, the session and the selection are left untouched.
	Convert(ctx context.Context, target domain.Target) (*ConversionResult, error)

	// Running reports whether a run is active.
	Running() bool
}

// ConversionResult is the outcome of a successful run.
type ConversionResult struct {
	Deliverable domain.Deliverable
	Stats       ConversionStats
}

// ConversionStats counts what happened during a run.
type ConversionStats struct {
	// Gathered is the number of entries read (text and binary).
	Gathered int

	// Parsed is the number of canonical notes produced.
	Parsed int

	// Skipped is the number of text entries whose parse failed.
	Skipped int

	// Assets is the number of binary files carried into the deliverable.
	Assets int
}
