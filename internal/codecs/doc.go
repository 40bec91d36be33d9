// Package codecs holds the note parsers and generators.
//
// Each subpackage reads or writes one note format and exchanges
// domain.Note values with the conversion pipeline:
//
//   - keep: Google Keep Takeout HTML pages (parser)
//   - notion: Notion Markdown exports (parser)
//   - markdown: Markdown with YAML frontmatter (parser and per-note serializer)
//   - enex: Evernote / Apple Notes XML (parser and generator)
//   - jsonnotes: structured JSON documents (parser and generator)
//   - html: single web page (generator)
//
// htmltext is shared by the others to move between HTML and Markdown.
package codecs
