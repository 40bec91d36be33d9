// Package fsys reads user-supplied files through an afero filesystem.
package fsys

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/custodia-labs/migrator/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.FileReader = (*Reader)(nil)

// Reader implements driven.FileReader on top of afero.
type Reader struct {
	fs afero.Fs
}

// NewReader creates a reader over fs. A nil fs means the OS filesystem.
func NewReader(fs afero.Fs) *Reader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Reader{fs: fs}
}

// ReadFile returns the full content of the file at path.
func (r *Reader) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Size returns the size in bytes of the file at path.
func (r *Reader) Size(path string) (int64, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("stat %s: is a directory", path)
	}
	return info.Size(), nil
}

// Fs exposes the underlying filesystem so other adapters can share it.
func (r *Reader) Fs() afero.Fs {
	return r.fs
}
