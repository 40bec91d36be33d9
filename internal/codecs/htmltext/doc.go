// Package htmltext converts between HTML fragments and Markdown note bodies.
// HTML is read with golang.org/x/net/html; Markdown is rendered with goldmark.
package htmltext
