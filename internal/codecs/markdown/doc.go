// Package markdown reads and writes Markdown notes with YAML frontmatter.
package markdown
