package domain

import (
	"fmt"
	"strings"
)

// DetectFormat infers the source format from a representative file name and
// the names of every file under consideration. It never opens any file.
//
// Compressed tarballs are rejected before any other rule is evaluated.
func DetectFormat(representative string, siblings []string) (Format, error) {
	if IsCompressedTar(representative) {
		return FormatUnknown, fmt.Errorf("%w: %s (use .zip)", ErrUnsupportedArchiveKind, representative)
	}

	switch Extension(representative) {
	case "enex":
		return FormatEnex, nil
	case "json":
		if len(siblings) <= 1 {
			return FormatJSON, nil
		}
	case "md":
		return FormatMarkdown, nil
	case "html":
		return FormatKeep, nil
	case "zip":
		return detectContainer(siblings), nil
	}

	return FormatUnknown, nil
}

// detectContainer scans a listing for the signals of each export flavour.
func detectContainer(names []string) Format {
	var hasHTML, hasMarkdown, hasCSV bool
	for _, name := range names {
		lower := strings.ToLower(name)
		switch {
		case strings.HasSuffix(lower, ".html"):
			hasHTML = true
		case strings.HasSuffix(lower, ".md"):
			hasMarkdown = true
		case strings.HasSuffix(lower, ".csv"):
			hasCSV = true
		}
	}

	switch {
	case hasMarkdown && hasCSV:
		return FormatNotion
	case hasHTML:
		return FormatKeep
	default:
		return FormatMarkdown
	}
}
