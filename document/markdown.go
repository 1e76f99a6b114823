package document

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderMarkdown projects doc into its canonical markdown form (spec
// §4.1.2). Rendering walks the body's children in order; transparent
// containers (list, ordered_list, inline) contribute no text of their own,
// only their children's.
func RenderMarkdown(doc *CanonicalDocument) string {
	var b strings.Builder
	r := &markdownRenderer{doc: doc, out: &b}
	r.renderChildren(doc.Body.Children, 0, nil)
	return strings.TrimRight(b.String(), " \t\n")
}

type markdownRenderer struct {
	doc *CanonicalDocument
	out *strings.Builder
}

// renderChildren renders refs at the given list depth. prevOrdered is the
// ordering of the list group the refs belong to (nil outside a list); a list
// item whose ordering differs from it is preceded by a blank line. Adjacent
// sibling list groups are compared the same way, so an ordered list directly
// followed by an unordered one (or the reverse) is separated by a blank line
// (spec §4.1.2).
func (r *markdownRenderer) renderChildren(refs []Ref, depth int, prevOrdered *bool) {
	var prevList *bool
	for _, ref := range refs {
		if node, ok := r.doc.Resolve(ref); ok {
			if g, isGroup := node.(GroupNode); isGroup && (g.Label == GroupList || g.Label == GroupOrderedList) {
				ordered := g.Label == GroupOrderedList
				if prevList != nil && *prevList != ordered {
					r.out.WriteString("\n")
				}
				prevList = &ordered
			} else {
				prevList = nil
			}
		}
		r.renderNode(ref, depth, prevOrdered)
	}
}

func (r *markdownRenderer) renderNode(ref Ref, depth int, prevOrdered *bool) {
	node, ok := r.doc.Resolve(ref)
	if !ok {
		return
	}
	switch n := node.(type) {
	case GroupNode:
		switch n.Label {
		case GroupList, GroupOrderedList:
			ordered := n.Label == GroupOrderedList
			childDepth := depth
			if prevOrdered != nil {
				// A list nested directly in another list is one level deeper.
				childDepth = depth + 1
			}
			r.renderChildren(n.Children, childDepth, &ordered)
		default:
			r.renderChildren(n.Children, depth, prevOrdered)
		}
	case InlineNode:
		r.renderChildren(n.Children, depth, prevOrdered)
	case TextNode:
		r.renderText(n, depth, prevOrdered)
	case TableNode:
		r.renderTable(n)
	case PictureNode:
		r.out.WriteString("<!-- image -->\n\n")
	}
}

func (r *markdownRenderer) renderText(n TextNode, depth int, prevOrdered *bool) {
	switch n.Label {
	case TextTitle:
		r.out.WriteString("# " + r.inlineText(n) + "\n\n")
	case TextSectionHeader:
		level := 1
		if n.Level != nil {
			level = *n.Level
		}
		r.out.WriteString(strings.Repeat("#", level) + " " + r.inlineText(n) + "\n\n")
	case TextCode:
		lang := n.CodeLanguage
		r.out.WriteString("```" + lang + "\n" + n.Text + "\n```\n\n")
	case TextFormula:
		r.out.WriteString("$$" + n.Text + "$$\n\n")
	case TextListItem:
		r.renderListItem(n, depth, prevOrdered)
	default:
		r.out.WriteString(r.inlineText(n) + "\n\n")
	}
}

func (r *markdownRenderer) renderListItem(n TextNode, depth int, prevOrdered *bool) {
	if prevOrdered != nil && *prevOrdered != n.Enumerated {
		r.out.WriteString("\n")
	}
	if prevOrdered != nil {
		*prevOrdered = n.Enumerated
	}
	indent := strings.Repeat(" ", 4*depth)
	marker := n.Marker
	if n.Enumerated {
		if marker == "" {
			marker = "1."
		}
	} else {
		marker = "-"
	}
	text := r.inlineText(n)
	for _, childRef := range n.Children {
		if s := r.inlineChildText(childRef); s != "" {
			text = strings.TrimRight(text, " ") + " " + s
		}
	}
	r.out.WriteString(indent + marker + " " + text + "\n")
}

// inlineChildText renders an inline child's text without terminal
// formatting wrappers that would duplicate the parent's own (used only for
// list-item children that are inline groups).
func (r *markdownRenderer) inlineChildText(ref Ref) string {
	node, ok := r.doc.Resolve(ref)
	if !ok {
		return ""
	}
	switch n := node.(type) {
	case InlineNode:
		var parts []string
		for _, c := range n.Children {
			if s := r.inlineChildText(c); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case TextNode:
		return r.inlineText(n)
	default:
		return ""
	}
}

// inlineText wraps a hyperlink with an allowed scheme as [text](url), then
// applies bold+italic, bold or italic, and wraps strikethrough around the
// result (spec §4.1.2). Formatting has no inline-code flag, so no code span
// is produced; underline has no markdown equivalent and is dropped.
func (r *markdownRenderer) inlineText(n TextNode) string {
	text := n.Text
	f := n.Formatting

	if f.Hyperlink != "" && hasAllowedScheme(f.Hyperlink) {
		text = fmt.Sprintf("[%s](%s)", text, f.Hyperlink)
	}

	switch {
	case f.IsBold && f.IsItalic:
		text = "***" + text + "***"
	case f.IsBold:
		text = "**" + text + "**"
	case f.IsItalic:
		text = "*" + text + "*"
	}
	if f.Strikethrough {
		text = "~~" + text + "~~"
	}
	return text
}

func hasAllowedScheme(url string) bool {
	for _, scheme := range []string{"http://", "https://", "mailto:", "#", "/"} {
		if strings.HasPrefix(url, scheme) {
			return true
		}
	}
	return false
}

// renderTable implements spec §4.1.2's per-column alignment rule: a column
// is numeric iff every non-header cell parses as an integer or float.
// Numeric columns right-align with width max(header_len, max_data_len)+2;
// text columns left-align with width max(header_len+2, max_data_len).
func (r *markdownRenderer) renderTable(n TableNode) {
	grid := n.Data.Grid
	if n.Data.NumRows == 0 || n.Data.NumCols == 0 {
		r.out.WriteString("\n")
		return
	}
	numCols := n.Data.NumCols
	header := grid[0]

	numeric := make([]bool, numCols)
	widths := make([]int, numCols)
	for c := 0; c < numCols; c++ {
		isNumeric := true
		maxData := 0
		for row := 1; row < n.Data.NumRows; row++ {
			text := grid[row][c].Text
			if !isNumber(text) {
				isNumeric = false
			}
			if l := len(text); l > maxData {
				maxData = l
			}
		}
		headerLen := len(header[c].Text)
		numeric[c] = isNumeric
		if isNumeric {
			w := headerLen
			if maxData > w {
				w = maxData
			}
			widths[c] = w + 2
		} else {
			w := headerLen + 2
			if maxData > w {
				w = maxData
			}
			widths[c] = w
		}
	}

	writeRow := func(row []TableCell) {
		r.out.WriteString("|")
		for c := 0; c < numCols; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c].Text
			}
			if numeric[c] {
				r.out.WriteString(" " + padLeft(cell, widths[c]) + " |")
			} else {
				r.out.WriteString(" " + padRight(cell, widths[c]) + " |")
			}
		}
		r.out.WriteString("\n")
	}

	writeRow(header)
	r.out.WriteString("|")
	for c := 0; c < numCols; c++ {
		r.out.WriteString(strings.Repeat("-", widths[c]+2) + "|")
	}
	r.out.WriteString("\n")
	for row := 1; row < n.Data.NumRows; row++ {
		writeRow(grid[row])
	}
	r.out.WriteString("\n")
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
