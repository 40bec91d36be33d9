package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driving"
)

// inputFiles turns command-line paths into input files.
func inputFiles(paths []string) ([]domain.InputFile, error) {
	files := make([]domain.InputFile, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory; zip it or pass its files", p)
		}
		files = append(files, domain.InputFile{
			Name: filepath.Base(p),
			Path: p,
			Size: info.Size(),
		})
	}
	return files, nil
}

// load ingests the paths and prints any notices.
// Scan failures are reported but do not stop the command while entries remain.
func load(ctx context.Context, cmd *cobra.Command, paths []string) (*driving.IngestReport, error) {
	files, err := inputFiles(paths)
	if err != nil {
		return nil, err
	}

	report, err := ingestService.Ingest(ctx, files)
	if report != nil && report.Notice != "" {
		cmd.PrintErrln(report.Notice)
	}
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrExtractionFailure) && report != nil && report.Entries > 0:
		cmd.PrintErrln(domain.UserMessage(err))
	default:
		return report, userError{err}
	}
	return report, nil
}

// userError shows the user-facing message while keeping the cause for errors.Is.
type userError struct {
	err error
}

func (e userError) Error() string {
	return domain.UserMessage(e.err)
}

func (e userError) Unwrap() error {
	return e.err
}
