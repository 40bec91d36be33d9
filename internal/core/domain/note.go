package domain

import "time"

// Note is the canonical note produced by parsers and consumed by generators.
// Content holds Markdown text; image references inside it may be relinked.
type Note struct {
	// ID is a stable identifier assigned by the parser.
	ID string `json:"id,omitempty"`

	// Title is used to derive output file names.
	Title string `json:"title"`

	// Content is the Markdown body.
	Content string `json:"content"`

	// Tags are labels attached to the note.
	Tags []string `json:"tags,omitempty"`

	// Created is when the note was first written.
	Created time.Time `json:"created,omitzero"`

	// Updated is when the note was last edited.
	Updated time.Time `json:"updated,omitzero"`

	// Pinned and Archived carry Keep state through round trips.
	Pinned   bool `json:"pinned,omitempty"`
	Archived bool `json:"archived,omitempty"`

	// Origin is the entry path the note was parsed from.
	Origin string `json:"origin,omitempty"`
}
