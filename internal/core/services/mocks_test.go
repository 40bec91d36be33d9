package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
)

// mockArchives is an in-memory ArchiveService keyed by archive name.
type mockArchives struct {
	mu       sync.Mutex
	archives map[string]map[string][]byte
	order    map[string][]string
	broken   map[string]bool

	extractCalls []string
	packedTexts  []domain.TextFile
	packedBins   []domain.BinaryFile
	packErr      error
}

func newMockArchives() *mockArchives {
	return &mockArchives{
		archives: make(map[string]map[string][]byte),
		order:    make(map[string][]string),
		broken:   make(map[string]bool),
	}
}

func (m *mockArchives) add(name, path, content string) {
	if m.archives[name] == nil {
		m.archives[name] = make(map[string][]byte)
	}
	m.archives[name][path] = []byte(content)
	m.order[name] = append(m.order[name], path)
}

// lookup resolves an archive by path first so same-named archives stay apart.
func (m *mockArchives) lookup(h domain.ArchiveHandle) string {
	if _, ok := m.archives[h.Path]; ok {
		return h.Path
	}
	return h.Name
}

func (m *mockArchives) Scan(_ context.Context, archive domain.ArchiveHandle, sourceIndex int) (*driven.ScanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.broken[archive.Name] {
		return nil, fmt.Errorf("%w: zip: not a valid zip file", domain.ErrExtractionFailure)
	}
	name := m.lookup(archive)
	res := &driven.ScanResult{SourceIndex: sourceIndex}
	for _, p := range m.order[name] {
		res.Entries = append(res.Entries, domain.Entry{
			Path:        p,
			Name:        domain.BaseName(p),
			Size:        int64(len(m.archives[name][p])),
			SourceIndex: sourceIndex,
		})
	}
	return res, nil
}

func (m *mockArchives) Extract(_ context.Context, archive domain.ArchiveHandle, paths []string) (*driven.ExtractResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extractCalls = append(m.extractCalls, archive.Name)
	if m.broken[archive.Name] {
		return nil, fmt.Errorf("%w: zip: not a valid zip file", domain.ErrExtractionFailure)
	}
	res := &driven.ExtractResult{Content: domain.NewContentMap(), Binary: domain.NewBinaryMap()}
	for _, p := range paths {
		data, ok := m.archives[m.lookup(archive)][p]
		if !ok {
			continue
		}
		if domain.IsImage(p) {
			res.Binary.Set(p, data)
		} else {
			res.Content.Set(p, string(data))
		}
	}
	return res, nil
}

func (m *mockArchives) Pack(_ context.Context, texts []domain.TextFile, binaries []domain.BinaryFile) (*driven.PackResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.packErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPackingFailure, m.packErr)
	}
	m.packedTexts = texts
	m.packedBins = binaries
	return &driven.PackResult{Filename: "migrator-export-2025-01-02.zip", Data: []byte("PK")}, nil
}

// mockFiles is an in-memory FileReader.
type mockFiles map[string][]byte

func (m mockFiles) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, domain.ErrNotFound)
	}
	return data, nil
}

func (m mockFiles) Size(path string) (int64, error) {
	data, ok := m[path]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return int64(len(data)), nil
}

// lineParser takes the first line as title and the rest as content.
// Content starting with "!bad" fails to parse; "---" separates notes.
type lineParser struct {
	format domain.Format
}

func (p lineParser) Format() domain.Format {
	return p.format
}

func (p lineParser) Parse(_ context.Context, path, content string) ([]domain.Note, error) {
	if strings.HasPrefix(content, "!bad") {
		return nil, errors.New("malformed")
	}
	var notes []domain.Note
	for _, chunk := range strings.Split(content, "\n---\n") {
		title, body, _ := strings.Cut(chunk, "\n")
		notes = append(notes, domain.Note{Title: title, Content: body, Origin: path})
	}
	return notes, nil
}

// recordingGenerator captures the notes it was asked to emit.
type recordingGenerator struct {
	target domain.Target
	notes  []domain.Note
}

func (g *recordingGenerator) Target() domain.Target {
	return g.target
}

func (g *recordingGenerator) Generate(_ context.Context, notes []domain.Note) ([]byte, error) {
	g.notes = notes
	titles := make([]string, len(notes))
	for i, n := range notes {
		titles[i] = n.Title
	}
	return []byte(strings.Join(titles, ",")), nil
}

// plainSerializer writes the title as a heading above the content.
type plainSerializer struct{}

func (plainSerializer) Target() domain.Target {
	return domain.TargetMarkdown
}

func (plainSerializer) Extension() string {
	return "md"
}

func (plainSerializer) Serialize(_ context.Context, note domain.Note) (string, error) {
	return "# " + note.Title + "\n\n" + note.Content + "\n", nil
}

// failingSerializer rejects every note.
type failingSerializer struct {
	plainSerializer
}

func (failingSerializer) Serialize(context.Context, domain.Note) (string, error) {
	return "", errors.New("encoder broke")
}
