// Package fileutil derives safe, unique file names for exported notes.
package fileutil

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultNoteName is used when a title has no usable characters.
const DefaultNoteName = "note"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)

// foldAccents decomposes characters and drops combining marks so "Café" keeps its "e".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SafeName strips everything except ASCII letters, digits, whitespace, hyphens
// and underscores from title. Returns fallback when nothing is left.
func SafeName(title, fallback string) string {
	name := unsafeChars.ReplaceAllString(foldAccents(title), "")
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	return name
}

// UniqueNamer hands out names that have not been used before,
// appending " 2", " 3", ... before the extension on collision.
// Comparison is case-insensitive so the output unpacks cleanly on any filesystem.
type UniqueNamer struct {
	used map[string]struct{}
}

// NewUniqueNamer creates an empty namer.
func NewUniqueNamer() *UniqueNamer {
	return &UniqueNamer{used: make(map[string]struct{})}
}

// Name returns base+ext, or a numbered variant if that was already issued.
func (u *UniqueNamer) Name(base, ext string) string {
	candidate := base + ext
	for n := 2; ; n++ {
		key := strings.ToLower(candidate)
		if _, taken := u.used[key]; !taken {
			u.used[key] = struct{}{}
			return candidate
		}
		candidate = base + " " + strconv.Itoa(n) + ext
	}
}
