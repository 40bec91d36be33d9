package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/migrator/internal/adapters/driving/tui"
	"github.com/custodia-labs/migrator/internal/core/domain"
)

var (
	convertTarget      string
	convertOut         string
	convertInteractive bool
)

// pickEntries runs the interactive picker; replaced in tests.
var pickEntries = func(theme string) error {
	return tui.Run(catalogService, theme)
}

// isTerminal reports whether stdin and stdout are terminals; replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert note exports to another format",
	Long: `Reads the given files, detects their source format and writes one
deliverable named migrator-export-<date>.<ext> into the output directory.

Archives (.zip) are listed and read in the background; loose .html, .json,
.enex, .md and image files are read directly. Compressed tarballs are
rejected.

Targets:
` + targetHelp(),
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertTarget, "to", "t", "", "output format (default from config, else markdown)")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "output directory (default from config, else .)")
	convertCmd.Flags().BoolVarP(&convertInteractive, "interactive", "i", false, "pick entries before converting")
	rootCmd.AddCommand(convertCmd)
}

func targetHelp() string {
	var b strings.Builder
	for _, t := range domain.Targets() {
		fmt.Fprintf(&b, "  %-9s %s\n", t, t.Description())
	}
	return b.String()
}

func runConvert(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}
	prefs := settings()

	target := prefs.Target
	if convertTarget != "" {
		t, err := domain.ParseTarget(convertTarget)
		if err != nil {
			return userError{err}
		}
		target = t
	}
	outDir := prefs.OutputDir
	if convertOut != "" {
		outDir = convertOut
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := load(ctx, cmd, args)
	if err != nil {
		return err
	}
	cmd.Printf("Detected format: %s (%d entries)\n", report.Format, report.Entries)

	if convertInteractive {
		if !isTerminal() {
			return errors.New("--interactive needs a terminal")
		}
		if err := pickEntries(prefs.Theme); err != nil {
			if errors.Is(err, tui.ErrCancelled) {
				cmd.Println("Cancelled.")
				return nil
			}
			return err
		}
	}

	result, err := conversionService.Convert(ctx, target)
	if err != nil {
		return userError{err}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	dest := filepath.Join(outDir, result.Deliverable.Filename)
	if err := os.WriteFile(dest, result.Deliverable.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	stats := result.Stats
	cmd.Printf("Wrote %s (%d notes", dest, stats.Parsed)
	if stats.Assets > 0 {
		cmd.Printf(", %d assets", stats.Assets)
	}
	cmd.Println(")")
	if stats.Skipped > 0 {
		cmd.PrintErrf("%d entries could not be parsed and were skipped.\n", stats.Skipped)
	}
	return nil
}
