package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/migrator/internal/core/domain"
)

var fixedNow = func() time.Time { return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC) }

func newTestApp(t *testing.T) (*App, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	a, err := New(context.Background(), Options{Fs: fs, Now: fixedNow})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, fs
}

func writeZip(t *testing.T, fs afero.Fs, name string, files map[string]string) domain.InputFile {
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
	require.NoError(t, afero.WriteFile(fs, "/"+name, buf.Bytes(), 0o644))
	return domain.InputFile{Name: name, Path: "/" + name, Size: int64(buf.Len())}
}

func writeLoose(t *testing.T, fs afero.Fs, name, content string) domain.InputFile {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, "/"+name, []byte(content), 0o644))
	return domain.InputFile{Name: name, Path: "/" + name}
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(b)
	}
	return out
}

const keepPage = `<!DOCTYPE html><html><head><title>Beach</title></head><body>
<div class="note">
<div class="heading">Jun 1, 2024, 10:15:00 AM</div>
<div class="title">Beach</div>
<div class="content">Sand everywhere<br>Bring towels</div>
<div class="attachments"><ul><li><img alt="" src="sunset.jpg"></li></ul></div>
<div class="chips"><span class="label"><span class="label-name">Holiday</span></span></div>
</div></body></html>`

func TestKeepArchiveToMarkdownVault(t *testing.T) {
	a, fs := newTestApp(t)
	ctx := context.Background()
	takeout := writeZip(t, fs, "takeout.zip", map[string]string{
		"Takeout/Keep/Beach.html": keepPage,
		"Takeout/Keep/sunset.jpg": "JPEGDATA",
	})

	report, err := a.Ingest.Ingest(ctx, []domain.InputFile{takeout})
	require.NoError(t, err)
	assert.Equal(t, domain.FormatKeep, report.Format)
	assert.Equal(t, 2, report.Entries)
	assert.Len(t, a.Catalog.Selection(), 2)

	result, err := a.Conversion.Convert(ctx, domain.TargetMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "migrator-export-2025-06-01.zip", result.Deliverable.Filename)

	files := readZip(t, result.Deliverable.Data)
	assert.Equal(t, "JPEGDATA", files["assets/sunset.jpg"])
	require.Contains(t, files, "Beach.md")
	note := files["Beach.md"]
	assert.Contains(t, note, "title: Beach")
	assert.Contains(t, note, "- Holiday")
	assert.Contains(t, note, "Sand everywhere\nBring towels")
	assert.Contains(t, note, "![](assets/sunset.jpg)")
}

func TestMacOSArchiveSidecarsAreNotConverted(t *testing.T) {
	a, fs := newTestApp(t)
	ctx := context.Background()
	vault := writeZip(t, fs, "vault.zip", map[string]string{
		"vault/Trip.md":            "# Trip\n\nPacking list",
		"__MACOSX/vault/._Trip.md": "\x00\x05\x16\x07resource fork",
		"vault/.DS_Store":          "Bud1",
	})

	_, err := a.Ingest.Ingest(ctx, []domain.InputFile{vault})
	require.NoError(t, err)
	assert.Len(t, a.Catalog.Entries(), 3)
	assert.Len(t, a.Catalog.Visible(), 1)
	assert.Equal(t, []domain.SelectionKey{"0:vault/Trip.md"}, a.Catalog.Selection())

	result, err := a.Conversion.Convert(ctx, domain.TargetMarkdown)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Parsed)
	assert.Zero(t, result.Stats.Skipped)

	files := readZip(t, result.Deliverable.Data)
	assert.Len(t, files, 1)
	assert.Contains(t, files, "Trip.md")
}

func TestSameNamedArchivesAllConverted(t *testing.T) {
	a, fs := newTestApp(t)
	ctx := context.Background()
	var inputs []domain.InputFile
	for _, dir := range []string{"a", "b", "c"} {
		require.NoError(t, fs.MkdirAll("/"+dir, 0o755))
		in := writeZip(t, fs, dir+"/export.zip", map[string]string{"notes/a.md": "# Note " + dir})
		in.Name = "export.zip"
		inputs = append(inputs, in)
	}

	_, err := a.Ingest.Ingest(ctx, inputs)
	require.NoError(t, err)

	result, err := a.Conversion.Convert(ctx, domain.TargetJSON)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Stats.Parsed)

	var notes []domain.Note
	require.NoError(t, json.Unmarshal(result.Deliverable.Data, &notes))
	titles := make([]string, len(notes))
	for i, n := range notes {
		titles[i] = n.Title
	}
	assert.Equal(t, []string{"Note a", "Note b", "Note c"}, titles)
}

func TestLooseMarkdownToJSONKeepsOrder(t *testing.T) {
	a, fs := newTestApp(t)
	ctx := context.Background()
	second := writeLoose(t, fs, "second.md", "# Second\n\nbody two")
	first := writeLoose(t, fs, "first.md", "---\ntitle: First\ntags: [a, b]\n---\nbody one")

	_, err := a.Ingest.Ingest(ctx, []domain.InputFile{second, first})
	require.NoError(t, err)

	result, err := a.Conversion.Convert(ctx, domain.TargetJSON)
	require.NoError(t, err)
	assert.Equal(t, "migrator-export-2025-06-01.json", result.Deliverable.Filename)

	var notes []domain.Note
	require.NoError(t, json.Unmarshal(result.Deliverable.Data, &notes))
	require.Len(t, notes, 2)
	assert.Equal(t, "Second", notes[0].Title)
	assert.Equal(t, "body two", notes[0].Content)
	assert.Equal(t, "First", notes[1].Title)
	assert.Equal(t, []string{"a", "b"}, notes[1].Tags)
}

func TestJSONRoundTripThroughEnex(t *testing.T) {
	a, fs := newTestApp(t)
	ctx := context.Background()
	doc := writeLoose(t, fs, "notes.json",
		`[{"title": "Groceries", "content": "- [ ] milk\n- [x] eggs", "tags": ["home"]}]`)

	_, err := a.Ingest.Ingest(ctx, []domain.InputFile{doc})
	require.NoError(t, err)
	require.Equal(t, domain.FormatJSON, a.Session.DetectedFormat())

	result, err := a.Conversion.Convert(ctx, domain.TargetEnex)
	require.NoError(t, err)
	assert.Equal(t, "migrator-export-2025-06-01.enex", result.Deliverable.Filename)

	out := string(result.Deliverable.Data)
	assert.Contains(t, out, "<title>Groceries</title>")
	assert.Contains(t, out, `<en-todo checked="true"></en-todo>`)
	assert.Contains(t, out, "<tag>home</tag>")
}

func TestNotionArchiveToHTML(t *testing.T) {
	a, fs := newTestApp(t)
	ctx := context.Background()
	export := writeZip(t, fs, "notion.zip", map[string]string{
		"Workspace/Roadmap 0123456789abcdef0123456789abcdef.md": "# Roadmap\n\nShip **v2**",
		"Workspace/Tasks 0123456789abcdef0123456789abcdef.csv":  "Name,Status\nA,Done\n",
	})

	report, err := a.Ingest.Ingest(ctx, []domain.InputFile{export})
	require.NoError(t, err)
	require.Equal(t, domain.FormatNotion, report.Format)

	result, err := a.Conversion.Convert(ctx, domain.TargetHTML)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Parsed)
	assert.Equal(t, 1, result.Stats.Skipped)
	assert.Contains(t, string(result.Deliverable.Data), "<h2>Roadmap</h2>")
	assert.Contains(t, string(result.Deliverable.Data), "<strong>v2</strong>")
}

func TestTarballRejected(t *testing.T) {
	a, fs := newTestApp(t)
	tarball := writeLoose(t, fs, "backup.tgz", "not really")

	_, err := a.Ingest.Ingest(context.Background(), []domain.InputFile{tarball})

	assert.ErrorIs(t, err, domain.ErrUnsupportedArchiveKind)
	assert.Empty(t, a.Session.Sources())
}

func TestEmptySelection(t *testing.T) {
	a, fs := newTestApp(t)
	ctx := context.Background()
	_, err := a.Ingest.Ingest(ctx, []domain.InputFile{writeLoose(t, fs, "a.md", "x")})
	require.NoError(t, err)
	a.Catalog.SelectAll(true)
	a.Catalog.SelectNone()

	_, err = a.Conversion.Convert(ctx, domain.TargetJSON)

	assert.ErrorIs(t, err, domain.ErrEmptySelection)
	assert.Len(t, a.Catalog.Entries(), 1)
}

func TestCorruptArchiveFailsScan(t *testing.T) {
	a, fs := newTestApp(t)
	bad := writeLoose(t, fs, "broken.zip", "definitely not a zip")

	report, err := a.Ingest.Ingest(context.Background(), []domain.InputFile{bad})

	assert.ErrorIs(t, err, domain.ErrExtractionFailure)
	require.NotNil(t, report)
	assert.Zero(t, report.Entries)
}

func TestParsersCoverEveryFormat(t *testing.T) {
	assert.ElementsMatch(t, []domain.Format{
		domain.FormatEnex, domain.FormatJSON, domain.FormatKeep, domain.FormatMarkdown, domain.FormatNotion,
	}, Parsers().Formats())

	targets := make([]domain.Target, 0)
	for _, g := range Generators(fixedNow) {
		targets = append(targets, g.Target())
	}
	assert.ElementsMatch(t, []domain.Target{domain.TargetJSON, domain.TargetEnex, domain.TargetHTML}, targets)
}
