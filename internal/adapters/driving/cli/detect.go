package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect [files...]",
	Short: "Print the detected source format",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireServices(); err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		report, err := load(ctx, cmd, args)
		if err != nil {
			return err
		}
		cmd.Println(report.Format)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
