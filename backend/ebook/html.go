package ebook

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// stripHTML walks a parsed HTML fragment the way the teacher's
// layout/html.go walks one to render it, inverted here to extract plain
// text: block-level elements (p, div, headings, li, br) insert a newline at
// their boundary instead of triggering a draw call, and inline elements
// fall through to their children. Entity decoding is automatic since
// golang.org/x/net/html's tokenizer unescapes &nbsp; &amp; &lt; &gt; &quot;
// &apos; while parsing.
func stripHTML(source string) string {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return ""
	}
	var sb strings.Builder
	walkText(doc, &sb)
	return collapseBlankLines(sb.String())
}

func isBlockAtom(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Li, atom.Tr, atom.Section, atom.Article, atom.Blockquote, atom.Pre:
		return true
	}
	return false
}

func walkText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Head:
			return
		case atom.Br:
			sb.WriteString("\n")
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, sb)
	}

	if n.Type == html.ElementNode && isBlockAtom(n.DataAtom) {
		sb.WriteString("\n")
	}
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := true
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, trimmed)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
