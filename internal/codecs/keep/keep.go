// Package keep reads Google Keep notes from a Takeout export.
//
// Each note is one HTML page. The parser reads the title, the text body,
// checklist items, labels, the heading timestamp and attached images.
package keep

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/custodia-labs/migrator/internal/codecs/htmltext"
	"github.com/custodia-labs/migrator/internal/codecs/markdown"
	"github.com/custodia-labs/migrator/internal/codecs/noteid"
	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Takeout heading date layouts, newest first.
var dateLayouts = []string{
	"Jan 2, 2006, 3:04:05 PM",
	"Jan 2, 2006, 3:04 PM",
	"2 Jan 2006, 15:04:05",
}

// Parser reads Keep HTML pages.
type Parser struct{}

// NewParser creates a Keep parser.
func NewParser() *Parser {
	return &Parser{}
}

// Format returns the source format this parser reads.
func (p *Parser) Format() domain.Format {
	return domain.FormatKeep
}

// Parse decodes one Keep page into a single note.
// Pages without any note markup are rejected.
func (p *Parser) Parse(_ context.Context, path, content string) ([]domain.Note, error) {
	ext := domain.Extension(path)
	if ext != "html" && ext != "htm" {
		return nil, fmt.Errorf("%w: %s is not an html page", domain.ErrUnsupportedFormat, path)
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, path, err)
	}

	root := htmltext.First(doc, htmltext.ByClass("note"))
	titleNode := htmltext.First(doc, htmltext.ByClass("title"))
	contentNode := htmltext.First(doc, htmltext.ByClass("content"))
	if root == nil && titleNode == nil && contentNode == nil {
		return nil, fmt.Errorf("%w: %s has no keep note", domain.ErrUnsupportedFormat, path)
	}
	if root == nil {
		root = doc
	}

	note := domain.Note{
		ID:       noteid.For(path, 0),
		Title:    htmltext.Text(titleNode),
		Origin:   path,
		Archived: htmltext.First(root, htmltext.ByClass("archived")) != nil,
		Pinned:   htmltext.First(root, htmltext.ByClass("pinned")) != nil,
	}
	if note.Title == "" {
		note.Title = markdown.TitleFromPath(path)
	}

	if heading := htmltext.First(root, htmltext.ByClass("heading")); heading != nil {
		if ts, ok := parseDate(htmltext.Text(heading)); ok {
			note.Created = ts
			note.Updated = ts
		}
	}

	for _, label := range htmltext.Find(root, htmltext.ByClass("label-name")) {
		if name := htmltext.Text(label); name != "" {
			note.Tags = append(note.Tags, name)
		}
	}

	var parts []string
	if contentNode != nil {
		if body := renderContent(contentNode); body != "" {
			parts = append(parts, body)
		}
	}
	// Checklists may sit outside the content block.
	if contentNode == nil || htmltext.First(contentNode, htmltext.ByClass("listitem")) == nil {
		if list := renderList(root); list != "" {
			parts = append(parts, list)
		}
	}
	if images := renderAttachments(root); images != "" {
		parts = append(parts, images)
	}
	note.Content = strings.Join(parts, "\n\n")

	return []domain.Note{note}, nil
}

// renderContent converts the content block, turning checklist items into task lines.
func renderContent(n *html.Node) string {
	var parts, lines []string
	var pending []*html.Node

	flush := func() {
		if len(pending) > 0 {
			if md := htmltext.NodesToMarkdown(pending...); md != "" {
				parts = append(parts, md)
			}
			pending = nil
		}
		if len(lines) > 0 {
			parts = append(parts, strings.Join(lines, "\n"))
			lines = nil
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch {
		case htmltext.HasClass(child, "listitem"):
			if len(pending) > 0 {
				flush()
			}
			lines = append(lines, checklistLine(child))
		case htmltext.First(child, htmltext.ByClass("listitem")) != nil:
			flush()
			if nested := renderContent(child); nested != "" {
				parts = append(parts, nested)
			}
		default:
			if child.Type == html.TextNode && strings.TrimSpace(child.Data) == "" {
				if len(pending) > 0 {
					pending = append(pending, child)
				}
				continue
			}
			if len(lines) > 0 {
				flush()
			}
			pending = append(pending, child)
		}
	}
	flush()
	return strings.Join(parts, "\n\n")
}

func renderList(root *html.Node) string {
	var lines []string
	for _, item := range htmltext.Find(root, htmltext.ByClass("listitem")) {
		lines = append(lines, checklistLine(item))
	}
	return strings.Join(lines, "\n")
}

func checklistLine(item *html.Node) string {
	bullet := htmltext.Text(htmltext.First(item, htmltext.ByClass("bullet")))
	checked := htmltext.HasClass(item, "checked") || bullet == "☑" || bullet == "☒" || bullet == "✔"

	text := htmltext.Text(htmltext.First(item, htmltext.ByClass("text")))
	if text == "" {
		text = strings.TrimSpace(strings.TrimPrefix(htmltext.Text(item), bullet))
	}

	if checked {
		return "- [x] " + text
	}
	return "- [ ] " + text
}

func renderAttachments(root *html.Node) string {
	var refs []string
	for _, block := range htmltext.Find(root, htmltext.ByClass("attachments")) {
		for _, img := range htmltext.Find(block, htmltext.ByTag("img")) {
			if src := htmltext.Attr(img, "src"); src != "" {
				refs = append(refs, "!["+htmltext.Attr(img, "alt")+"]("+src+")")
			}
		}
	}
	return strings.Join(refs, "\n")
}

func parseDate(s string) (time.Time, bool) {
	s = strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(strings.TrimSpace(s))
	for _, layout := range dateLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
