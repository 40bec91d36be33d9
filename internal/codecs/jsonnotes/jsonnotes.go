// Package jsonnotes reads and writes notes as JSON.
//
// The generator writes the canonical note list. The parser accepts that
// shape as well as single objects and Google Keep Takeout JSON records.
package jsonnotes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/migrator/internal/codecs/noteid"
	"github.com/custodia-labs/migrator/internal/core/domain"
	"github.com/custodia-labs/migrator/internal/core/ports/driven"
)

// Ensure the codecs implement their interfaces.
var (
	_ driven.Parser    = (*Parser)(nil)
	_ driven.Generator = (*Generator)(nil)
)

// record is the union of the canonical note and Keep Takeout fields.
type record struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Tags     []string  `json:"tags"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	Pinned   bool      `json:"pinned"`
	Archived bool      `json:"archived"`

	TextContent string `json:"textContent"`
	ListContent []struct {
		Text      string `json:"text"`
		IsChecked bool   `json:"isChecked"`
	} `json:"listContent"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Attachments []struct {
		FilePath string `json:"filePath"`
	} `json:"attachments"`
	IsPinned    bool  `json:"isPinned"`
	IsArchived  bool  `json:"isArchived"`
	IsTrashed   bool  `json:"isTrashed"`
	CreatedUsec int64 `json:"createdTimestampUsec"`
	EditedUsec  int64 `json:"userEditedTimestampUsec"`
}

func (r record) empty() bool {
	return r.Title == "" && r.Content == "" && r.TextContent == "" &&
		len(r.ListContent) == 0 && len(r.Attachments) == 0
}

func (r record) note(origin string, index int) domain.Note {
	n := domain.Note{
		ID:       r.ID,
		Title:    r.Title,
		Tags:     r.Tags,
		Created:  r.Created,
		Updated:  r.Updated,
		Pinned:   r.Pinned || r.IsPinned,
		Archived: r.Archived || r.IsArchived,
		Origin:   origin,
	}
	if n.ID == "" {
		n.ID = noteid.For(origin, index)
	}

	var parts []string
	if r.Content != "" {
		parts = append(parts, r.Content)
	}
	if r.TextContent != "" {
		parts = append(parts, r.TextContent)
	}
	if len(r.ListContent) > 0 {
		lines := make([]string, 0, len(r.ListContent))
		for _, item := range r.ListContent {
			box := "[ ]"
			if item.IsChecked {
				box = "[x]"
			}
			lines = append(lines, "- "+box+" "+item.Text)
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	if len(r.Attachments) > 0 {
		refs := make([]string, 0, len(r.Attachments))
		for _, a := range r.Attachments {
			if a.FilePath != "" {
				refs = append(refs, "![]("+a.FilePath+")")
			}
		}
		parts = append(parts, strings.Join(refs, "\n"))
	}
	n.Content = strings.Join(parts, "\n\n")

	for _, l := range r.Labels {
		if l.Name != "" {
			n.Tags = append(n.Tags, l.Name)
		}
	}
	if n.Created.IsZero() && r.CreatedUsec > 0 {
		n.Created = time.UnixMicro(r.CreatedUsec).UTC()
	}
	if n.Updated.IsZero() && r.EditedUsec > 0 {
		n.Updated = time.UnixMicro(r.EditedUsec).UTC()
	}
	return n
}

// Parser reads .json files.
type Parser struct{}

// NewParser creates a JSON parser.
func NewParser() *Parser {
	return &Parser{}
}

// Format returns the source format this parser reads.
func (p *Parser) Format() domain.Format {
	return domain.FormatJSON
}

// Parse decodes a single object or an array of objects.
// Trashed Keep notes and records with no title or body are dropped.
func (p *Parser) Parse(_ context.Context, path, content string) ([]domain.Note, error) {
	if domain.Extension(path) != "json" {
		return nil, fmt.Errorf("%w: %s is not a json file", domain.ErrUnsupportedFormat, path)
	}

	data := bytes.TrimSpace([]byte(content))
	var records []record
	switch {
	case len(data) > 0 && data[0] == '[':
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, path, err)
		}
	case len(data) > 0 && data[0] == '{':
		var r record
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, path, err)
		}
		records = []record{r}
	default:
		return nil, fmt.Errorf("%w: %s: expected a JSON object or array", domain.ErrInvalidInput, path)
	}

	notes := make([]domain.Note, 0, len(records))
	for i, r := range records {
		if r.IsTrashed || r.empty() {
			continue
		}
		notes = append(notes, r.note(path, i))
	}
	return notes, nil
}

// Generator writes the canonical note list as indented JSON.
type Generator struct{}

// NewGenerator creates a JSON generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Target returns the output format produced.
func (g *Generator) Target() domain.Target {
	return domain.TargetJSON
}

// Generate serialises notes in order as a JSON array.
func (g *Generator) Generate(_ context.Context, notes []domain.Note) ([]byte, error) {
	if notes == nil {
		notes = []domain.Note{}
	}
	out, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
