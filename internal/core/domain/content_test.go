package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContentMap_PreservesOrder(t *testing.T) {
	m := NewContentMap()
	m.Set("b.md", "B")
	m.Set("a.md", "A")
	m.Set("b.md", "B2")

	files := m.Files()
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, "b.md", files[0].Name)
	assert.Equal(t, "B2", files[0].Content)
	assert.Equal(t, "a.md", files[1].Name)

	got, ok := m.Get("a.md")
	assert.True(t, ok)
	assert.Equal(t, "A", got)
}

func TestContentMap_Merge(t *testing.T) {
	a := NewContentMap()
	a.Set("1.md", "one")
	b := NewContentMap()
	b.Set("2.md", "two")

	a.Merge(b)

	assert.Equal(t, 2, a.Len())
	var nilMap *ContentMap
	assert.Equal(t, 0, nilMap.Len())
}

func TestBinaryMap_HasBasename(t *testing.T) {
	m := NewBinaryMap()
	m.Set("Takeout/Keep/photo.png", []byte{1, 2})

	assert.True(t, m.HasBasename("photo.png"))
	assert.False(t, m.HasBasename("Keep/photo.png"))
	assert.False(t, m.HasBasename("other.png"))
	assert.False(t, m.HasBasename(""))
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "migrator-export-2026-03-09.json", ExportFilename(now, "json"))
	assert.Equal(t, "migrator-export-2026-03-09.zip", ExportFilename(now, TargetMarkdown.Extension()))
}
