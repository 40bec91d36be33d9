// Package cli provides the cobra command tree for migrator.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
	"github.com/custodia-labs/migrator/internal/core/ports/driving"
	"github.com/custodia-labs/migrator/internal/logger"
)

var (
	// version is set at build time.
	version = "dev"

	verbose   bool
	configDir string

	ingestService     driving.IngestService
	catalogService    driving.CatalogService
	conversionService driving.ConversionService
	configStore       driven.ConfigStore

	// openConfig builds the config store once --config-dir is known.
	openConfig func(dir string) (driven.ConfigStore, error)
)

var rootCmd = &cobra.Command{
	Use:   "migrator",
	Short: "Convert note exports between formats",
	Long: `Migrator converts note exports locally, without uploading anything.

It reads Google Keep Takeout pages, Notion workspace exports, Evernote and
Apple Notes .enex files, Markdown vaults and migrator JSON, and writes them
out as .enex, a Markdown vault (.zip), JSON or a single HTML page.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.migrator)")
}

// Services bundles the core services the commands drive.
type Services struct {
	Ingest     driving.IngestService
	Catalog    driving.CatalogService
	Conversion driving.ConversionService
}

// SetServices sets the core services used by every command.
func SetServices(s Services) {
	ingestService = s.Ingest
	catalogService = s.Catalog
	conversionService = s.Conversion
}

// SetConfigOpener sets the function that opens the config store.
func SetConfigOpener(fn func(dir string) (driven.ConfigStore, error)) {
	openConfig = fn
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

func setup(_ *cobra.Command, _ []string) error {
	if openConfig != nil {
		store, err := openConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		configStore = store
	}
	logger.SetVerbose(verbose || settings().Verbose)
	return nil
}

// settings returns the configured preferences, or the defaults without a store.
func settings() domain.Settings {
	if configStore == nil {
		return domain.DefaultSettings()
	}
	return configStore.Settings()
}

func requireServices() error {
	if ingestService == nil || catalogService == nil || conversionService == nil {
		return errors.New("services not configured")
	}
	return nil
}
