package worker

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"

	"github.com/custodia-labs/migrator/internal/core/domain"
)

// archive is an open zip backed by an afero file.
type archive struct {
	file   afero.File
	reader *zip.Reader
}

func openArchive(fs afero.Fs, handle domain.ArchiveHandle) (*archive, error) {
	f, err := fs.Open(handle.Path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &archive{file: f, reader: r}, nil
}

func (a *archive) Close() error {
	return a.file.Close()
}

// scanArchive lists every non-directory entry with its uncompressed size.
func scanArchive(fs afero.Fs, handle domain.ArchiveHandle, sourceIndex int) ([]domain.Entry, error) {
	a, err := openArchive(fs, handle)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	entries := make([]domain.Entry, 0, len(a.reader.File))
	for _, f := range a.reader.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		entries = append(entries, domain.Entry{
			Path:        f.Name,
			Name:        domain.BaseName(f.Name),
			Size:        int64(f.UncompressedSize64),
			SourceIndex: sourceIndex,
		})
	}
	return entries, nil
}

// extractArchive reads the requested paths. Images go to the binary map and
// everything else is decoded as UTF-8 text. Paths not in the archive are skipped.
func extractArchive(fs afero.Fs, handle domain.ArchiveHandle, paths []string) (*domain.ContentMap, *domain.BinaryMap, error) {
	a, err := openArchive(fs, handle)
	if err != nil {
		return nil, nil, err
	}
	defer a.Close()

	files := make(map[string]*zip.File, len(a.reader.File))
	for _, f := range a.reader.File {
		files[f.Name] = f
	}

	content := domain.NewContentMap()
	binary := domain.NewBinaryMap()
	for _, p := range paths {
		f, ok := files[p]
		if !ok || f.FileInfo().IsDir() {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", p, err)
		}
		if domain.IsImage(p) {
			binary.Set(p, data)
		} else {
			content.Set(p, strings.ToValidUTF8(string(data), "\uFFFD"))
		}
	}
	return content, binary, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// packArchive writes texts at the archive root and binaries under assets/.
func packArchive(texts []domain.TextFile, binaries []domain.BinaryFile, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	write := func(name string, data []byte) error {
		fw, err := w.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}

	for _, t := range texts {
		if err := write(t.Name, []byte(t.Content)); err != nil {
			return nil, err
		}
	}

	if len(binaries) > 0 {
		if _, err := w.CreateHeader(&zip.FileHeader{Name: domain.AssetsDir + "/", Modified: modified}); err != nil {
			return nil, err
		}
		for _, b := range binaries {
			if err := write(path.Join(domain.AssetsDir, b.Name), b.Data); err != nil {
				return nil, err
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
