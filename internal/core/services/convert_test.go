package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/migrator/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/migrator/internal/codecs/jsonnotes"
	"github.com/custodia-labs/migrator/internal/codecs/keep"
	"github.com/custodia-labs/migrator/internal/codecs/markdown"
	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driving"
)

type convertFixture struct {
	session   *memory.Session
	archives  *mockArchives
	files     mockFiles
	registry  *SourceRegistry
	generator *recordingGenerator
	orch      *ConversionOrchestrator
}

func newConvertFixture(parsers ...domain.Format) *convertFixture {
	f := &convertFixture{
		session:   memory.NewSession(),
		archives:  newMockArchives(),
		files:     mockFiles{},
		generator: &recordingGenerator{target: domain.TargetEnex},
	}
	registry := NewParserRegistry()
	for _, format := range parsers {
		registry.Register(lineParser{format: format})
	}
	f.registry = NewSourceRegistry(f.session, f.archives, f.files)
	f.orch = NewConversionOrchestrator(
		f.session, f.archives, f.files, registry, plainSerializer{},
		f.generator, jsonnotes.NewGenerator(),
	)
	f.orch.SetClock(func() time.Time { return time.Date(2025, 3, 4, 22, 0, 0, 0, time.UTC) })
	return f
}

func (f *convertFixture) loose(t *testing.T, files map[string]string, order ...string) {
	t.Helper()
	inputs := make([]domain.InputFile, 0, len(order))
	for _, name := range order {
		f.files["/in/"+name] = []byte(files[name])
		inputs = append(inputs, domain.InputFile{Name: name, Path: "/in/" + name})
	}
	_, err := f.registry.Ingest(context.Background(), inputs)
	require.NoError(t, err)
}

func TestConvert_EmptySelection(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.loose(t, map[string]string{"a.md": "A\nbody"}, "a.md")
	f.session.ClearSelection()
	entries := f.session.Entries()

	result, err := f.orch.Convert(context.Background(), domain.TargetJSON)

	assert.ErrorIs(t, err, domain.ErrEmptySelection)
	assert.Nil(t, result)
	assert.Equal(t, entries, f.session.Entries())
	assert.Empty(t, f.session.Selection())
	assert.False(t, f.orch.Running())
}

func TestConvert_NoValidNotes(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.loose(t, map[string]string{"a.md": "!bad", "b.md": "!bad too"}, "a.md", "b.md")

	_, err := f.orch.Convert(context.Background(), domain.TargetJSON)

	assert.ErrorIs(t, err, domain.ErrNoValidNotes)
	assert.False(t, f.orch.Running())
}

func TestConvert_UnsupportedTarget(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)

	_, err := f.orch.Convert(context.Background(), domain.TargetHTML)

	assert.ErrorIs(t, err, domain.ErrUnsupportedTarget)
}

func TestConvert_AlreadyRunning(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.loose(t, map[string]string{"a.md": "A\n1"}, "a.md")
	before := f.session.Selection()
	f.orch.running.Store(true)

	result, err := f.orch.Convert(context.Background(), domain.TargetJSON)

	assert.ErrorIs(t, err, domain.ErrConversionInProgress)
	assert.Nil(t, result)
	assert.True(t, f.orch.Running())
	assert.Equal(t, before, f.session.Selection())
	assert.Len(t, f.session.Entries(), 1)
}

func TestConvert_JSONPreservesSelectionOrder(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.loose(t, map[string]string{"b.md": "Second\ntwo", "a.md": "First\none"}, "b.md", "a.md")

	result, err := f.orch.Convert(context.Background(), domain.TargetJSON)

	require.NoError(t, err)
	assert.Equal(t, "migrator-export-2025-03-04.json", result.Deliverable.Filename)
	assert.Equal(t, "application/json", result.Deliverable.MIMEType)

	var notes []domain.Note
	require.NoError(t, json.Unmarshal(result.Deliverable.Data, &notes))
	require.Len(t, notes, 2)
	assert.Equal(t, "Second", notes[0].Title)
	assert.Equal(t, "First", notes[1].Title)
	assert.Equal(t, driving.ConversionStats{Gathered: 2, Parsed: 2}, result.Stats)
}

func TestConvert_SkipsFailedEntries(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.loose(t, map[string]string{
		"a.md": "A\nfine",
		"b.md": "!bad",
		"c.md": "C\nalso fine\n---\nD\nsecond note in one file",
	}, "a.md", "b.md", "c.md")

	result, err := f.orch.Convert(context.Background(), domain.TargetEnex)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Stats.Gathered)
	assert.Equal(t, 3, result.Stats.Parsed)
	assert.Equal(t, 1, result.Stats.Skipped)
	assert.Equal(t, "A,C,D", string(result.Deliverable.Data))
	assert.Equal(t, "migrator-export-2025-03-04.enex", result.Deliverable.Filename)
}

func TestConvert_Idempotent(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.loose(t, map[string]string{"a.md": "A\n1", "b.md": "B\n2"}, "a.md", "b.md")

	_, err := f.orch.Convert(context.Background(), domain.TargetEnex)
	require.NoError(t, err)
	first := f.generator.notes

	_, err = f.orch.Convert(context.Background(), domain.TargetEnex)
	require.NoError(t, err)
	second := f.generator.notes

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Title, second[i].Title)
	}
}

func TestConvert_OnlySelectedEntries(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.loose(t, map[string]string{"a.md": "A\n1", "b.md": "B\n2"}, "a.md", "b.md")
	f.session.Deselect("0:a.md")

	result, err := f.orch.Convert(context.Background(), domain.TargetEnex)

	require.NoError(t, err)
	assert.Equal(t, "B", string(result.Deliverable.Data))
}

func TestConvert_UnknownFormatFallsBackPerEntry(t *testing.T) {
	f := newConvertFixture(domain.FormatJSON)
	f.loose(t, map[string]string{"a.json": "A\n1", "b.json": "B\n2"}, "a.json", "b.json")
	require.Equal(t, domain.FormatUnknown, f.session.DetectedFormat())

	result, err := f.orch.Convert(context.Background(), domain.TargetEnex)

	require.NoError(t, err)
	assert.Equal(t, "A,B", string(result.Deliverable.Data))
}

func TestConvert_ArchiveExtractedOncePerSource(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.archives.add("one.zip", "a.md", "A\n1")
	f.archives.add("one.zip", "b.md", "B\n2")
	f.archives.add("two.zip", "a.md", "C\n3")
	_, err := f.registry.Ingest(context.Background(), []domain.InputFile{
		{Name: "one.zip", Path: "/in/one.zip"},
		{Name: "two.zip", Path: "/in/two.zip"},
	})
	require.NoError(t, err)

	result, err := f.orch.Convert(context.Background(), domain.TargetEnex)

	require.NoError(t, err)
	assert.Equal(t, []string{"one.zip", "two.zip"}, f.archives.extractCalls)
	assert.Equal(t, "A,B,C", string(result.Deliverable.Data))
	assert.Equal(t, "two.zip/a.md", f.generator.notes[2].Origin)
}

func TestConvert_SameNamedArchivesKeepEveryNote(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.archives.add("/a/export.zip", "notes/a.md", "One\n1")
	f.archives.add("/b/export.zip", "notes/a.md", "Two\n2")
	f.archives.add("/c/export.zip", "notes/a.md", "Three\n3")
	_, err := f.registry.Ingest(context.Background(), []domain.InputFile{
		{Name: "export.zip", Path: "/a/export.zip"},
		{Name: "export.zip", Path: "/b/export.zip"},
		{Name: "export.zip", Path: "/c/export.zip"},
	})
	require.NoError(t, err)
	require.Len(t, f.session.Selection(), 3)

	result, err := f.orch.Convert(context.Background(), domain.TargetEnex)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Stats.Gathered)
	assert.Equal(t, 3, result.Stats.Parsed)
	assert.Equal(t, "One,Two,Three", string(result.Deliverable.Data))

	origins := make([]string, 0, 3)
	for _, n := range f.generator.notes {
		origins = append(origins, n.Origin)
	}
	assert.Equal(t, []string{"notes/a.md", "export.zip/notes/a.md", "export.zip (2)/notes/a.md"}, origins)
}

func TestConvert_ExtractionFailureAborts(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.archives.add("one.zip", "a.md", "A\n1")
	_, err := f.registry.Ingest(context.Background(), []domain.InputFile{{Name: "one.zip", Path: "/in/one.zip"}})
	require.NoError(t, err)
	f.archives.broken["one.zip"] = true

	_, err = f.orch.Convert(context.Background(), domain.TargetEnex)

	assert.ErrorIs(t, err, domain.ErrExtractionFailure)
	assert.False(t, f.orch.Running())
}

func TestConvert_LooseReadFailureAborts(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.loose(t, map[string]string{"a.md": "A\n1"}, "a.md")
	delete(f.files, "/in/a.md")

	_, err := f.orch.Convert(context.Background(), domain.TargetEnex)

	assert.ErrorIs(t, err, domain.ErrExtractionFailure)
}

func TestConvert_MarkdownPacksNotesAndAssets(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.loose(t, map[string]string{
		"a.md":      "Trip: Paris!\n![](photos/beach.png) and ![](elsewhere.png)",
		"b.md":      "Trip: Paris?\nsecond",
		"c.md":      "???\nno usable title",
		"beach.png": "PNGDATA",
	}, "a.md", "b.md", "c.md", "beach.png")

	result, err := f.orch.Convert(context.Background(), domain.TargetMarkdown)

	require.NoError(t, err)
	assert.Equal(t, "migrator-export-2025-01-02.zip", result.Deliverable.Filename)
	assert.Equal(t, "application/zip", result.Deliverable.MIMEType)
	assert.Equal(t, 1, result.Stats.Assets)

	require.Len(t, f.archives.packedTexts, 3)
	assert.Equal(t, "Trip Paris.md", f.archives.packedTexts[0].Name)
	assert.Equal(t, "Trip Paris 2.md", f.archives.packedTexts[1].Name)
	assert.Equal(t, "note.md", f.archives.packedTexts[2].Name)
	assert.Contains(t, f.archives.packedTexts[0].Content, "![](assets/beach.png)")
	assert.Contains(t, f.archives.packedTexts[0].Content, "![](elsewhere.png)")

	require.Len(t, f.archives.packedBins, 1)
	assert.Equal(t, "beach.png", f.archives.packedBins[0].Name)
	assert.Equal(t, []byte("PNGDATA"), f.archives.packedBins[0].Data)
}

func TestConvert_PackingFailure(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.loose(t, map[string]string{"a.md": "A\n1"}, "a.md")
	f.archives.packErr = errors.New("disk full")

	_, err := f.orch.Convert(context.Background(), domain.TargetMarkdown)

	assert.ErrorIs(t, err, domain.ErrPackingFailure)
	assert.False(t, f.orch.Running())
}

func TestConvert_SerializeFailureNamesEntryNotTitle(t *testing.T) {
	f := newConvertFixture(domain.FormatMarkdown)
	f.loose(t, map[string]string{"diary.md": "Private thoughts\nbody"}, "diary.md")
	orch := NewConversionOrchestrator(
		f.session, f.archives, f.files,
		NewParserRegistry(lineParser{format: domain.FormatMarkdown}), failingSerializer{},
	)

	_, err := orch.Convert(context.Background(), domain.TargetMarkdown)

	require.ErrorIs(t, err, domain.ErrPackingFailure)
	assert.Contains(t, err.Error(), "note 1 (diary.md)")
	assert.NotContains(t, err.Error(), "Private thoughts")
}

func TestConvert_KeepPageWithImageToMarkdown(t *testing.T) {
	session := memory.NewSession()
	archives := newMockArchives()
	page := `<html><body><div class="note">
<div class="title">Beach day</div>
<div class="content">Sand everywhere</div>
<div class="attachments"><ul><li><img alt="" src="sunset.jpg"></li></ul></div>
</div></body></html>`
	archives.add("takeout.zip", "Takeout/Keep/Beach day.html", page)
	archives.add("takeout.zip", "Takeout/Keep/sunset.jpg", "JPEG")

	registry := NewSourceRegistry(session, archives, mockFiles{})
	_, err := registry.Ingest(context.Background(), []domain.InputFile{{Name: "takeout.zip", Path: "/in/takeout.zip"}})
	require.NoError(t, err)
	require.Equal(t, domain.FormatKeep, session.DetectedFormat())

	orch := NewConversionOrchestrator(
		session, archives, mockFiles{},
		NewParserRegistry(keep.NewParser()),
		markdown.NewSerializer(),
	)
	result, err := orch.Convert(context.Background(), domain.TargetMarkdown)

	require.NoError(t, err)
	assert.Equal(t, driving.ConversionStats{Gathered: 2, Parsed: 1, Assets: 1}, result.Stats)
	require.Len(t, archives.packedTexts, 1)
	assert.Equal(t, "Beach day.md", archives.packedTexts[0].Name)
	assert.True(t, strings.Contains(archives.packedTexts[0].Content, "![](assets/sunset.jpg)"))
	require.Len(t, archives.packedBins, 1)
	assert.Equal(t, "sunset.jpg", archives.packedBins[0].Name)
}
