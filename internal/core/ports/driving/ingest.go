package driving

import (
	"context"

	"github.com/custodia-labs/migrator/internal/core/domain"
)

// IngestService turns user-supplied files into sources and catalog entries.
type IngestService interface {
	// Ingest classifies a batch of files. Archives are enumerated through the
	// background service; loose files become one source immediately.
	// A batch containing a compressed tarball is rejected without state change.
	Ingest(ctx context.Context, files []domain.InputFile) (*IngestReport, error)

	// FinalizeBatch attaches entries to a source, appends them to the catalog,
	// selects them and recomputes the detected format.
	FinalizeBatch(sourceIndex int, entries []domain.Entry) error
}

// IngestReport summarises one ingestion batch.
type IngestReport struct {
	// Sources lists the indexes of sources created by the batch.
	Sources []int

	// Entries is the number of entries appended to the catalog.
	Entries int

	// Skipped counts loose files dropped by the extension allow-list.
	Skipped int

	// Format is the detected format after the batch.
	Format domain.Format

	// Notice is the user-facing skip notice, empty when nothing was skipped.
	Notice string
}
