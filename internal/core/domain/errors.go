package domain

import "errors"

// Domain errors represent pipeline failures.
// Callers match them with errors.Is; adapters wrap them with context.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Ingestion Errors.

	// ErrUnsupportedArchiveKind indicates a compressed tarball was supplied.
	// The whole ingestion batch is rejected and no state changes.
	ErrUnsupportedArchiveKind = errors.New("unsupported archive kind")

	// ErrNoSupportedFiles indicates a batch produced nothing usable.
	ErrNoSupportedFiles = errors.New("no supported files")

	// Conversion Errors.

	// ErrExtractionFailure indicates the background service could not open or read an archive.
	ErrExtractionFailure = errors.New("extraction failed")

	// ErrEmptySelection indicates a conversion was requested with nothing selected.
	ErrEmptySelection = errors.New("empty selection")

	// ErrNoValidNotes indicates every selected entry failed to parse.
	ErrNoValidNotes = errors.New("no valid notes parsed")

	// ErrPackingFailure indicates the output archive could not be assembled.
	ErrPackingFailure = errors.New("packing failed")

	// ErrConversionInProgress indicates a conversion run is already active.
	ErrConversionInProgress = errors.New("conversion in progress")

	// ErrUnsupportedFormat indicates no parser exists for a source format
	// or an entry is not in the shape a parser expects.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrUnsupportedTarget indicates an unknown output format was requested.
	ErrUnsupportedTarget = errors.New("unsupported target")

	// Worker Errors.

	// ErrWorkerClosed indicates the background service has been shut down.
	ErrWorkerClosed = errors.New("worker closed")
)
