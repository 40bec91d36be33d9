package markdown

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/custodia-labs/migrator/internal/codecs/noteid"
	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
	"github.com/custodia-labs/migrator/internal/logger"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser reads .md files.
type Parser struct{}

// NewParser creates a Markdown parser.
func NewParser() *Parser {
	return &Parser{}
}

// Format returns the source format this parser reads.
func (p *Parser) Format() domain.Format {
	return domain.FormatMarkdown
}

// Parse decodes one Markdown file into a single note.
// The title comes from frontmatter, then a leading H1, then the file name.
func (p *Parser) Parse(_ context.Context, entryPath, content string) ([]domain.Note, error) {
	if !IsMarkdownFile(entryPath) {
		return nil, fmt.Errorf("%w: %s is not a markdown file", domain.ErrUnsupportedFormat, entryPath)
	}

	note := domain.Note{Origin: entryPath}
	body := content

	if header, rest, ok := splitFrontMatter(content); ok {
		var fm frontMatter
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			logger.Debug("markdown: ignoring frontmatter in %s: %v", entryPath, err)
		} else {
			body = rest
			note.ID = fm.ID
			note.Title = fm.Title
			note.Tags = fm.Tags
			note.Created = fm.Created
			note.Updated = fm.Updated
			note.Pinned = fm.Pinned
			note.Archived = fm.Archived
		}
	}

	body = strings.ReplaceAll(body, "\r\n", "\n")
	if note.Title == "" {
		if title, rest, ok := leadingHeading(body); ok {
			note.Title = title
			body = rest
		}
	}
	if note.Title == "" {
		note.Title = TitleFromPath(entryPath)
	}
	if note.ID == "" {
		note.ID = noteid.For(entryPath, 0)
	}
	note.Content = strings.TrimSpace(body)

	return []domain.Note{note}, nil
}

// IsMarkdownFile reports whether the entry has a Markdown extension.
func IsMarkdownFile(p string) bool {
	ext := domain.Extension(p)
	return ext == "md" || ext == "markdown"
}

// leadingHeading returns the text of an H1 that is the first non-blank line.
func leadingHeading(body string) (title, rest string, ok bool) {
	trimmed := strings.TrimLeft(body, "\n \t")
	line, after, _ := strings.Cut(trimmed, "\n")
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "# ") {
		return "", body, false
	}
	title = strings.TrimSpace(strings.TrimPrefix(line, "#"))
	if title == "" {
		return "", body, false
	}
	return title, after, true
}

// TitleFromPath derives a title from a file name: extension removed,
// underscores and hyphens turned into spaces.
func TitleFromPath(p string) string {
	name := domain.BaseName(p)
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}
