package driven

import (
	"context"

	"github.com/custodia-labs/migrator/internal/core/domain"
)

// ArchiveService is the background extraction service seen from the caller.
// Every method suspends until the matching response arrives.
type ArchiveService interface {
	// Scan lists every non-directory entry of an archive.
	// Failures wrap domain.ErrExtractionFailure.
	Scan(ctx context.Context, archive domain.ArchiveHandle, sourceIndex int) (*ScanResult, error)

	// Extract reads the requested paths. Images land in Binary, everything
	// else is decoded as text into Content. Unknown paths are skipped.
	// Failures wrap domain.ErrExtractionFailure.
	Extract(ctx context.Context, archive domain.ArchiveHandle, paths []string) (*ExtractResult, error)

	// Pack builds a zip with text files at the root and binary files under assets/.
	// Failures wrap domain.ErrPackingFailure.
	Pack(ctx context.Context, texts []domain.TextFile, binaries []domain.BinaryFile) (*PackResult, error)
}

// ScanResult is the listing of one archive.
type ScanResult struct {
	SourceIndex int
	Entries     []domain.Entry
}

// ExtractResult holds the payloads read from one archive.
type ExtractResult struct {
	Content *domain.ContentMap
	Binary  *domain.BinaryMap
}

// PackResult is a packed archive and its timestamped file name.
type PackResult struct {
	Filename string
	Data     []byte
}
