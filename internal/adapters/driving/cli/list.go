package cli

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/migrator/internal/core/domain"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list [files...]",
	Short: "List the entries found in the given files",
	Long: `Reads the given files and prints the entries a conversion would offer.
Only entries matching the detected format are shown unless --all is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "show every entry, including ones the detected format ignores")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := load(ctx, cmd, args); err != nil {
		return err
	}

	entries := catalogService.Visible()
	if listAll {
		entries = catalogService.Entries()
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Sel", "Path", "Size", "Source"})
	for i, e := range entries {
		mark := ""
		if catalogService.IsSelected(e.Key()) {
			mark = "x"
		}
		t.AppendRow(table.Row{i + 1, mark, e.Path, humanize.Bytes(uint64(max(e.Size, 0))), e.SourceIndex})
	}
	t.AppendFooter(table.Row{"", "", formatLabel(catalogService.DetectedFormat()), "", len(entries)})
	t.Render()
	return nil
}

func formatLabel(f domain.Format) string {
	return "format: " + string(f)
}
