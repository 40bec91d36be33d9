package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/migrator/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/migrator/internal/app"
	"github.com/custodia-labs/migrator/internal/logger"
)

// setupTestServices wires a fresh session and resets command state.
func setupTestServices(t *testing.T) *memory.ConfigStore {
	t.Helper()

	a, err := app.New(context.Background(), app.Options{
		Fs:  afero.NewOsFs(),
		Now: func() time.Time { return time.Date(2025, 2, 3, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	store := memory.NewConfigStore()
	SetServices(Services{Ingest: a.Ingest, Catalog: a.Catalog, Conversion: a.Conversion})
	configStore = store
	openConfig = nil

	convertTarget, convertOut, convertInteractive = "", "", false
	listAll, verbose = false, false

	origPick, origTerminal := pickEntries, isTerminal
	isTerminal = func() bool { return false }

	t.Cleanup(func() {
		_ = a.Close()
		SetServices(Services{})
		configStore = nil
		logger.SetVerbose(false)
		pickEntries, isTerminal = origPick, origTerminal
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return store
}

// run executes the root command and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func writeZipFile(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fw, err := w.Create(n)
		require.NoError(t, err)
		_, err = fw.Write([]byte(files[n]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return writeFile(t, dir, name, buf.String())
}
