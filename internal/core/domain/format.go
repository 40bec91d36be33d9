package domain

import (
	"fmt"
	"path"
	"strings"
)

// Format identifies the inferred source note format of the current input.
type Format string

const (
	// FormatKeep is a Google Keep Takeout export (one HTML page per note).
	FormatKeep Format = "keep"

	// FormatNotion is a Notion workspace export (Markdown pages plus CSV databases).
	FormatNotion Format = "notion"

	// FormatEnex is an Evernote / Apple Notes XML export.
	FormatEnex Format = "enex"

	// FormatMarkdown is plain Markdown files.
	FormatMarkdown Format = "markdown"

	// FormatJSON is the structured note document produced by the json target.
	FormatJSON Format = "json"

	// FormatUnknown means no rule matched.
	FormatUnknown Format = "unknown"
)

// NoteExtension returns the extension (without dot) of note files for the format.
// Unknown formats return an empty string.
func (f Format) NoteExtension() string {
	switch f {
	case FormatKeep:
		return "html"
	case FormatMarkdown, FormatNotion:
		return "md"
	case FormatEnex:
		return "enex"
	case FormatJSON:
		return "json"
	default:
		return ""
	}
}

// Target identifies the requested output representation.
type Target string

const (
	// TargetJSON serialises every note into one JSON document.
	TargetJSON Target = "json"

	// TargetEnex serialises every note into one .enex document.
	TargetEnex Target = "enex"

	// TargetMarkdown writes one .md file per note, packed into a zip with an assets/ folder.
	TargetMarkdown Target = "markdown"

	// TargetHTML renders every note into a single web page.
	TargetHTML Target = "html"
)

// Targets returns every supported output target in display order.
func Targets() []Target {
	return []Target{TargetEnex, TargetMarkdown, TargetJSON, TargetHTML}
}

// ParseTarget converts user input into a Target.
func ParseTarget(s string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(s))); t {
	case TargetJSON, TargetEnex, TargetMarkdown, TargetHTML:
		return t, nil
	case "md":
		return TargetMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedTarget, s)
	}
}

// Extension returns the deliverable file extension for the target.
func (t Target) Extension() string {
	if t == TargetMarkdown {
		return "zip"
	}
	return string(t)
}

// MIMEType returns the deliverable content type for the target.
func (t Target) MIMEType() string {
	switch t {
	case TargetJSON:
		return "application/json"
	case TargetEnex:
		return "application/xml"
	case TargetMarkdown:
		return "application/zip"
	case TargetHTML:
		return "text/html"
	default:
		return "application/octet-stream"
	}
}

// Description returns the label shown next to the target in help output.
func (t Target) Description() string {
	switch t {
	case TargetEnex:
		return "Apple Notes / Evernote (.enex)"
	case TargetMarkdown:
		return "Obsidian / Markdown (.zip)"
	case TargetJSON:
		return "Raw Data (.json)"
	case TargetHTML:
		return "Web Page (.html)"
	default:
		return string(t)
	}
}

var imageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// looseExtensions is the allow-list for files supplied outside an archive.
var looseExtensions = map[string]bool{
	"html": true,
	"json": true,
	"enex": true,
	"md":   true,
}

// Extension returns the lower-cased text after the last dot of the base name.
// Names without a dot return an empty string.
func Extension(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// BaseName returns the last slash-separated element of an entry path.
func BaseName(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// IsImage reports whether the name has a raster image extension.
func IsImage(name string) bool {
	return imageExtensions[Extension(name)]
}

// IsCompressedTar reports whether the name denotes a gzip-compressed tarball.
func IsCompressedTar(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".tgz") || strings.HasSuffix(lower, ".tar.gz")
}

// IsArchive reports whether the name denotes a zip-like container.
func IsArchive(name string) bool {
	return Extension(name) == "zip"
}

// IsHidden reports whether the base name starts with a dot.
func IsHidden(name string) bool {
	return strings.HasPrefix(BaseName(name), ".")
}

// macOSMetadataDir holds resource forks zipped by Finder.
const macOSMetadataDir = "__MACOSX"

// IsPlatformArtifact reports whether an entry path is operating-system
// metadata rather than user content: a hidden file, or anything under a
// __MACOSX directory.
func IsPlatformArtifact(p string) bool {
	if IsHidden(p) {
		return true
	}
	for _, segment := range strings.Split(strings.ReplaceAll(p, "\\", "/"), "/") {
		if segment == macOSMetadataDir {
			return true
		}
	}
	return false
}

// IsAllowedLoose reports whether a loose file passes the extension allow-list.
func IsAllowedLoose(name string) bool {
	ext := Extension(name)
	return looseExtensions[ext] || imageExtensions[ext]
}
