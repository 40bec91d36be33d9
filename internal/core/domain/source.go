package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceKind distinguishes archives from batches of loose files.
type SourceKind int

const (
	// SourceArchive is a zip archive enumerated by the background service.
	SourceArchive SourceKind = iota

	// SourceLoose is a batch of individually supplied files.
	SourceLoose
)

// String returns the display name of the kind.
func (k SourceKind) String() string {
	switch k {
	case SourceArchive:
		return "archive"
	case SourceLoose:
		return "loose"
	default:
		return "unknown"
	}
}

// InputFile is a user-supplied file handle.
// Content is read on demand through the FileReader port.
type InputFile struct {
	// Name is the base name shown to the user.
	Name string

	// Path is where the bytes live.
	Path string

	// Size is the file size in bytes.
	Size int64
}

// ArchiveHandle is an opaque reference to an archive handed to the background service.
type ArchiveHandle struct {
	Name string
	Path string
	Size int64
}

// Source is one user-supplied unit of input.
// Sources live in an append-only arena and are addressed by Index.
type Source struct {
	// Index is the position of the source in the session arena.
	Index int

	// Kind is archive or loose.
	Kind SourceKind

	// Name is the archive file name, or a label for a loose batch.
	Name string

	// Archive is set for archive sources.
	Archive ArchiveHandle

	// Files is set for loose sources.
	Files []InputFile

	// Entries lists every file discovered in the source.
	Entries []Entry
}

// File returns the loose file whose name equals path.
func (s *Source) File(path string) (InputFile, bool) {
	for _, f := range s.Files {
		if f.Name == path {
			return f, true
		}
	}
	return InputFile{}, false
}

// Entry is one file discoverable inside a Source.
// SourceIndex is a back-reference into the session arena, never a pointer.
type Entry struct {
	// Path is the full intra-source path, unique within its Source.
	Path string

	// Name is the base name.
	Name string

	// Size is the uncompressed size in bytes.
	Size int64

	// SourceIndex is the index of the owning Source.
	SourceIndex int
}

// Key returns the selection key addressing this entry.
func (e Entry) Key() SelectionKey {
	return NewSelectionKey(e.SourceIndex, e.Path)
}

// SelectionKey is the "sourceIndex:path" unit of user selection.
type SelectionKey string

// NewSelectionKey builds the key for a path inside a source.
func NewSelectionKey(sourceIndex int, path string) SelectionKey {
	return SelectionKey(strconv.Itoa(sourceIndex) + ":" + path)
}

// Split returns the source index and path encoded in the key.
func (k SelectionKey) Split() (int, string, error) {
	idx, path, ok := strings.Cut(string(k), ":")
	if !ok {
		return 0, "", fmt.Errorf("%w: selection key %q", ErrInvalidInput, string(k))
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return 0, "", fmt.Errorf("%w: selection key %q", ErrInvalidInput, string(k))
	}
	return n, path, nil
}
