package fsys

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/note.md", []byte("# Hello"), 0644))

	r := NewReader(fs)

	data, err := r.ReadFile("/in/note.md")
	require.NoError(t, err)
	assert.Equal(t, "# Hello", string(data))

	_, err = r.ReadFile("/in/missing.md")
	assert.Error(t, err)
}

func TestReader_Size(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/a.png", make([]byte, 42), 0644))
	require.NoError(t, fs.MkdirAll("/in/dir", 0755))

	r := NewReader(fs)

	size, err := r.Size("/in/a.png")
	require.NoError(t, err)
	assert.Equal(t, int64(42), size)

	_, err = r.Size("/in/dir")
	assert.Error(t, err)

	_, err = r.Size("/in/nope")
	assert.Error(t, err)
}

func TestNewReader_DefaultsToOsFs(t *testing.T) {
	r := NewReader(nil)
	_, ok := r.Fs().(*afero.OsFs)
	assert.True(t, ok)
}
