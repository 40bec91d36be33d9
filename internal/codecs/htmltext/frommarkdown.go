package htmltext

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var renderer = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
		extension.Table,
		extension.TaskList,
		extension.Linkify,
	),
)

// FromMarkdown renders a Markdown body to an HTML fragment.
// Raw HTML in the source is not passed through.
func FromMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ENML element names that must not appear in an en-note.
var enmlForbidden = map[string]bool{
	"applet": true, "base": true, "basefont": true, "bgsound": true, "blink": true,
	"body": true, "button": true, "dir": true, "embed": true, "fieldset": true,
	"form": true, "frame": true, "frameset": true, "head": true, "html": true,
	"iframe": true, "ilayer": true, "input": true, "isindex": true, "label": true,
	"layer": true, "legend": true, "link": true, "marquee": true, "menu": true,
	"meta": true, "noframes": true, "noscript": true, "object": true, "optgroup": true,
	"option": true, "param": true, "plaintext": true, "script": true, "select": true,
	"style": true, "textarea": true, "xml": true,
}

// ToENML renders a Markdown body as the inner XML of an en-note element.
// Checkbox inputs become en-todo; forbidden elements are unwrapped and
// class, id and event attributes are removed.
func ToENML(md string) (string, error) {
	fragment, err := FromMarkdown(md)
	if err != nil {
		return "", err
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		for _, clean := range sanitizeENML(n) {
			if err := html.Render(&buf, clean); err != nil {
				return "", err
			}
		}
	}
	return buf.String(), nil
}

// sanitizeENML returns the nodes that replace n in ENML output.
func sanitizeENML(n *html.Node) []*html.Node {
	if n.Type != html.ElementNode {
		if n.Type == html.CommentNode {
			return nil
		}
		return []*html.Node{n}
	}

	if n.Data == "input" && strings.EqualFold(Attr(n, "type"), "checkbox") {
		todo := &html.Node{Type: html.ElementNode, Data: "en-todo"}
		checked := "false"
		if HasAttr(n, "checked") {
			checked = "true"
		}
		todo.Attr = []html.Attribute{{Key: "checked", Val: checked}}
		return []*html.Node{todo}
	}

	var kids []*html.Node
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		n.RemoveChild(child)
		kids = append(kids, sanitizeENML(child)...)
		child = next
	}

	if enmlForbidden[n.Data] {
		return kids
	}

	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if key == "class" || key == "id" || strings.HasPrefix(key, "on") {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
	for _, k := range kids {
		n.AppendChild(k)
	}
	return []*html.Node{n}
}
