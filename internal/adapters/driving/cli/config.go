package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/migrator/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change preferences",
	Long: `Shows the current preferences. Known keys:

  output.dir     directory deliverables are written to
  output.target  default output format (enex, markdown, json, html)
  ui.theme       picker colours, light or dark
  log.verbose    debug logging (true or false)`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one preference",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one preference",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configStore == nil {
			return errors.New("config store not configured")
		}
		cmd.Println(configStore.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func settingValue(s domain.Settings, key string) (string, bool) {
	switch key {
	case domain.KeyOutputDir:
		return s.OutputDir, true
	case domain.KeyOutputTarget:
		return string(s.Target), true
	case domain.KeyUITheme:
		return s.Theme, true
	case domain.KeyLogVerbose:
		return fmt.Sprintf("%t", s.Verbose), true
	default:
		return "", false
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	s := settings()
	for _, key := range domain.ConfigKeys() {
		value, _ := settingValue(s, key)
		cmd.Printf("%-14s %s\n", key, value)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	value, ok := settingValue(settings(), strings.TrimSpace(args[0]))
	if !ok {
		return fmt.Errorf("unknown key %q (known: %s)", args[0], strings.Join(domain.ConfigKeys(), ", "))
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	key := strings.TrimSpace(args[0])
	if err := configStore.Set(key, args[1]); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	value, _ := settingValue(configStore.Settings(), key)
	cmd.Printf("%s = %s\n", key, value)
	return nil
}
