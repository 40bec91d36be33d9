// Package main is the entry point for the migrator CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/migrator/internal/adapters/driven/config/file"
	"github.com/custodia-labs/migrator/internal/adapters/driving/cli"
	"github.com/custodia-labs/migrator/internal/app"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	a, err := app.New(context.Background(), app.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = a.Close() }()

	cli.SetServices(cli.Services{
		Ingest:     a.Ingest,
		Catalog:    a.Catalog,
		Conversion: a.Conversion,
	})
	cli.SetConfigOpener(func(dir string) (driven.ConfigStore, error) {
		return file.NewConfigStore(dir)
	})
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}
