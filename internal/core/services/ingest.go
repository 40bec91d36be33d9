package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
	"github.com/custodia-labs/migrator/internal/core/ports/driving"
	"github.com/custodia-labs/migrator/internal/logger"
)

// Ensure SourceRegistry implements the interface.
var _ driving.IngestService = (*SourceRegistry)(nil)

// LooseSourceName labels the source created for a batch of loose files.
const LooseSourceName = "loose files"

// SourceRegistry turns user-supplied files into sources and catalog entries.
type SourceRegistry struct {
	session  driven.SessionStore
	archives driven.ArchiveService
	files    driven.FileReader
}

// NewSourceRegistry creates a source registry.
func NewSourceRegistry(
	session driven.SessionStore,
	archives driven.ArchiveService,
	files driven.FileReader,
) *SourceRegistry {
	return &SourceRegistry{
		session:  session,
		archives: archives,
		files:    files,
	}
}

// Ingest classifies a batch of files.
//
// The whole batch is rejected when any file is a compressed tarball. Archives
// become one source each and are scanned in order; loose files that pass the
// allow-list become a single source finalised straight away. A failed scan
// leaves its source with no entries and is reported in the returned error
// alongside a valid report.
func (r *SourceRegistry) Ingest(ctx context.Context, files []domain.InputFile) (*driving.IngestReport, error) {
	// 1. Reject tarballs before touching state
	for _, f := range files {
		if domain.IsCompressedTar(f.Name) {
			return nil, fmt.Errorf("%w: %s (use .zip)", domain.ErrUnsupportedArchiveKind, f.Name)
		}
	}

	// 2. Partition into archives and allowed loose files
	var archives, loose []domain.InputFile
	skipped := 0
	seen := make(map[string]bool)
	for _, f := range files {
		switch {
		case domain.IsArchive(f.Name):
			archives = append(archives, f)
		case domain.IsHidden(f.Name):
			logger.Debug("Ignoring hidden file %s", f.Name)
		case !domain.IsAllowedLoose(f.Name):
			skipped++
		case seen[f.Name]:
			logger.Warn("Duplicate file name %s ignored", f.Name)
		default:
			seen[f.Name] = true
			loose = append(loose, f)
		}
	}

	report := &driving.IngestReport{
		Skipped: skipped,
		Notice:  domain.SkippedNotice(skipped),
	}
	if len(archives) == 0 && len(loose) == 0 {
		report.Format = r.session.DetectedFormat()
		return report, domain.ErrNoSupportedFiles
	}

	// 3. Reserve archive sources so their indexes follow the batch order
	pending := make([]int, len(archives))
	for i, f := range archives {
		pending[i] = r.session.AddSource(domain.Source{
			Kind:    domain.SourceArchive,
			Name:    f.Name,
			Archive: domain.ArchiveHandle(f),
		})
		report.Sources = append(report.Sources, pending[i])
	}

	// 4. Loose files are known up front
	if len(loose) > 0 {
		idx := r.session.AddSource(domain.Source{
			Kind:  domain.SourceLoose,
			Name:  LooseSourceName,
			Files: loose,
		})
		report.Sources = append(report.Sources, idx)

		entries := make([]domain.Entry, 0, len(loose))
		for _, f := range loose {
			entries = append(entries, domain.Entry{
				Path:        f.Name,
				Name:        domain.BaseName(f.Name),
				Size:        r.looseSize(f),
				SourceIndex: idx,
			})
		}
		if err := r.FinalizeBatch(idx, entries); err != nil {
			return report, err
		}
		report.Entries += len(entries)
	}

	// 5. Scan archives one at a time
	var errs []error
	for i, idx := range pending {
		logger.Debug("Scanning %s", archives[i].Name)
		res, err := r.archives.Scan(ctx, domain.ArchiveHandle(archives[i]), idx)
		if err != nil {
			if ctx.Err() != nil {
				errs = append(errs, err)
				break
			}
			logger.Warn("Could not scan %s: %v", archives[i].Name, err)
			errs = append(errs, fmt.Errorf("scan %s: %w", archives[i].Name, err))
			continue
		}
		if err := r.FinalizeBatch(res.SourceIndex, res.Entries); err != nil {
			errs = append(errs, err)
			continue
		}
		report.Entries += len(res.Entries)
	}

	report.Format = r.session.DetectedFormat()
	logger.Info("Ingested %d source(s), %d entries, format %s", len(report.Sources), report.Entries, report.Format)
	return report, errors.Join(errs...)
}

// FinalizeBatch attaches entries to a source, appends them to the catalog,
// selects them and recomputes the detected format. Platform artifacts such
// as __MACOSX sidecars are catalogued but left unselected.
func (r *SourceRegistry) FinalizeBatch(sourceIndex int, entries []domain.Entry) error {
	tagged := make([]domain.Entry, len(entries))
	keys := make([]domain.SelectionKey, 0, len(entries))
	for i, e := range entries {
		e.SourceIndex = sourceIndex
		if e.Name == "" {
			e.Name = domain.BaseName(e.Path)
		}
		tagged[i] = e
		if domain.IsPlatformArtifact(e.Path) {
			logger.Debug("Not selecting platform metadata %s", e.Path)
			continue
		}
		keys = append(keys, e.Key())
	}

	if err := r.session.SetEntries(sourceIndex, tagged); err != nil {
		return fmt.Errorf("finalize batch: %w", err)
	}
	r.session.AppendEntries(tagged)
	r.session.Select(keys...)
	r.redetect()
	return nil
}

// redetect infers the format from every catalog entry name. The first entry
// is the representative; when it lives in an archive the archive name stands
// in for it so container rules apply.
func (r *SourceRegistry) redetect() {
	all := r.session.Entries()
	if len(all) == 0 {
		r.session.SetDetectedFormat(domain.FormatUnknown)
		return
	}

	names := make([]string, len(all))
	for i, e := range all {
		names[i] = e.Path
	}

	representative := all[0].Path
	if src, err := r.session.Source(all[0].SourceIndex); err == nil && src.Kind == domain.SourceArchive {
		representative = src.Name
	}

	format, err := domain.DetectFormat(representative, names)
	if err != nil {
		logger.Warn("Format detection failed: %v", err)
		format = domain.FormatUnknown
	}
	logger.Debug("Detected format %s from %s", format, representative)
	r.session.SetDetectedFormat(format)
}

func (r *SourceRegistry) looseSize(f domain.InputFile) int64 {
	if f.Size > 0 || r.files == nil {
		return f.Size
	}
	size, err := r.files.Size(f.Path)
	if err != nil {
		logger.Debug("Could not stat %s: %v", f.Path, err)
		return 0
	}
	return size
}
