package markdown

import (
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// frontMatter is the YAML header written above every exported note.
type frontMatter struct {
	ID       string    `yaml:"id,omitempty"`
	Title    string    `yaml:"title,omitempty"`
	Tags     tagList   `yaml:"tags,omitempty"`
	Created  time.Time `yaml:"created,omitempty"`
	Updated  time.Time `yaml:"updated,omitempty"`
	Pinned   bool      `yaml:"pinned,omitempty"`
	Archived bool      `yaml:"archived,omitempty"`
}

// tagList accepts either a YAML sequence or a comma separated scalar.
type tagList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *tagList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var out []string
		for _, part := range strings.Split(value.Value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*t = out
		return nil
	default:
		var out []string
		if err := value.Decode(&out); err != nil {
			return err
		}
		*t = out
		return nil
	}
}

const fence = "---"

// splitFrontMatter separates a leading YAML block from the body.
// ok is false when the content has no frontmatter.
func splitFrontMatter(content string) (header, body string, ok bool) {
	content = strings.TrimPrefix(content, "\ufeff")
	normalised := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalised, fence+"\n") {
		return "", content, false
	}
	rest := normalised[len(fence)+1:]

	if strings.HasPrefix(rest, fence+"\n") || rest == fence {
		return "", strings.TrimPrefix(strings.TrimPrefix(rest, fence), "\n"), true
	}
	end := strings.Index(rest, "\n"+fence+"\n")
	if end < 0 {
		if strings.HasSuffix(rest, "\n"+fence) {
			return rest[:len(rest)-len(fence)-1], "", true
		}
		return "", content, false
	}
	return rest[:end], rest[end+len(fence)+2:], true
}
