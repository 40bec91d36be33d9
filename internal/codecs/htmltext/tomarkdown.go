package htmltext

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	spaceRun      = regexp.MustCompile(`[ \t\r\n\f]+`)
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// ToMarkdown converts an HTML fragment (or document) into Markdown text.
// Unknown elements contribute their children; script, style and head are dropped.
func ToMarkdown(src string) string {
	nodes, err := html.ParseFragment(strings.NewReader(src), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return strings.TrimSpace(src)
	}
	return NodesToMarkdown(nodes...)
}

// NodesToMarkdown converts already parsed nodes into Markdown text.
func NodesToMarkdown(nodes ...*html.Node) string {
	c := &converter{}
	for _, n := range nodes {
		c.node(n)
	}
	return tidy(c.b.String())
}

func tidy(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = trailingSpace.ReplaceAllString(s, "\n")
	s = multiNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

type list struct {
	ordered bool
	n       int
}

type converter struct {
	b     strings.Builder
	lists []list
	pre   int
}

func (c *converter) write(s string) {
	c.b.WriteString(s)
}

// atBreak reports whether the output is empty or ends in whitespace.
func (c *converter) atBreak() bool {
	s := c.b.String()
	return s == "" || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, " ")
}

// block ensures the output ends with a blank line.
func (c *converter) block() {
	s := c.b.String()
	switch {
	case s == "" || strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "\n"):
		c.write("\n")
	default:
		c.write("\n\n")
	}
}

// line ensures the output ends with a newline.
func (c *converter) line() {
	s := c.b.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		c.write("\n")
	}
}

func (c *converter) children(n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.node(child)
	}
}

func (c *converter) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if c.pre > 0 {
			c.write(n.Data)
			return
		}
		text := spaceRun.ReplaceAllString(n.Data, " ")
		if c.atBreak() {
			text = strings.TrimLeft(text, " ")
		}
		c.write(text)
		return
	case html.DocumentNode:
		c.children(n)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.Data {
	case "script", "style", "head", "title", "noscript":
		return
	case "br":
		c.write("\n")
	case "hr":
		c.block()
		c.write("---")
		c.block()
	case "p", "div", "section", "article", "en-note", "body", "html", "table", "figure":
		c.block()
		c.children(n)
		c.block()
	case "tr":
		c.line()
		c.tableRow(n)
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level, _ := strconv.Atoi(n.Data[1:])
		c.block()
		c.write(strings.Repeat("#", level) + " " + strings.TrimSpace(inline(n)))
		c.block()
	case "strong", "b":
		c.wrap(n, "**")
	case "em", "i":
		c.wrap(n, "*")
	case "s", "del", "strike":
		c.wrap(n, "~~")
	case "code":
		if c.pre > 0 {
			c.children(n)
			return
		}
		c.wrap(n, "`")
	case "pre":
		c.block()
		c.write("```\n")
		c.pre++
		c.children(n)
		c.pre--
		c.line()
		c.write("```")
		c.block()
	case "blockquote":
		inner := NodesToMarkdown(childNodes(n)...)
		c.block()
		for _, l := range strings.Split(inner, "\n") {
			c.write("> " + l + "\n")
		}
		c.block()
	case "a":
		text := strings.TrimSpace(inline(n))
		href := Attr(n, "href")
		switch {
		case href == "" || href == text:
			c.write(text)
		case text == "":
			c.write("<" + href + ">")
		default:
			c.write("[" + text + "](" + href + ")")
		}
	case "img":
		src := Attr(n, "src")
		if src == "" {
			return
		}
		c.write("![" + Attr(n, "alt") + "](" + src + ")")
	case "ul", "ol":
		c.line()
		if len(c.lists) == 0 {
			c.block()
		}
		c.lists = append(c.lists, list{ordered: n.Data == "ol"})
		c.children(n)
		c.lists = c.lists[:len(c.lists)-1]
		if len(c.lists) == 0 {
			c.block()
		}
	case "li":
		c.listItem(n)
	case "input":
		if strings.EqualFold(Attr(n, "type"), "checkbox") {
			c.write(checkbox(HasAttr(n, "checked")))
		}
	case "en-todo":
		if len(c.lists) == 0 {
			c.line()
			c.write("- ")
		}
		c.write(checkbox(Attr(n, "checked") == "true"))
		c.children(n)
	default:
		c.children(n)
	}
}

func (c *converter) wrap(n *html.Node, mark string) {
	text := inline(n)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		c.write(text)
		return
	}
	if strings.HasPrefix(text, " ") {
		c.write(" ")
	}
	c.write(mark + trimmed + mark)
	if strings.HasSuffix(text, " ") {
		c.write(" ")
	}
}

func (c *converter) listItem(n *html.Node) {
	c.line()
	depth := len(c.lists)
	if depth == 0 {
		c.write("- ")
		c.children(n)
		c.line()
		return
	}
	top := &c.lists[depth-1]
	top.n++
	c.write(strings.Repeat("  ", depth-1))
	if top.ordered {
		c.write(strconv.Itoa(top.n) + ". ")
	} else {
		c.write("- ")
	}
	c.children(n)
	c.line()
}

func (c *converter) tableRow(n *html.Node) {
	var cells []string
	for cell := n.FirstChild; cell != nil; cell = cell.NextSibling {
		if cell.Type == html.ElementNode && (cell.Data == "td" || cell.Data == "th") {
			cells = append(cells, strings.TrimSpace(inline(cell)))
		}
	}
	if len(cells) > 0 {
		c.write("| " + strings.Join(cells, " | ") + " |\n")
	}
}

func checkbox(checked bool) string {
	if checked {
		return "[x] "
	}
	return "[ ] "
}

// inline renders n's children on a single line.
func inline(n *html.Node) string {
	c := &converter{}
	c.children(n)
	return strings.ReplaceAll(c.b.String(), "\n", " ")
}

func childNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		out = append(out, child)
	}
	return out
}
