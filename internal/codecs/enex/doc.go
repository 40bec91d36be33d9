// Package enex reads and writes Evernote export files (.enex), the format
// Apple Notes imports. Note bodies are ENML, converted to and from Markdown.
package enex
