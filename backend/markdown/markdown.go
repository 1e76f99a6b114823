// Package markdown converts Markdown (and Markdown-with-frontmatter)
// sources into the canonical document tree (spec §4.2.3). It strips any
// leading YAML/TOML frontmatter fence, renders the body to HTML with
// goldmark plus the treeblood MathML extension the teacher's
// layout/latex.go uses for the reverse direction, then walks that HTML the
// same way backend/ebook walks EPUB/FB2 markup into nodes.
package markdown

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	treeblood "github.com/wyatt915/goldmark-treeblood"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/backend/frontmatter"
	"github.com/docling-project/docling-go/document"
)

// MarkdownBackend converts FormatMD sources (spec §4.2.3).
type MarkdownBackend struct{}

func (MarkdownBackend) Supports(f backend.InputFormat) bool { return f == backend.FormatMD }

// Detect has no reliable magic bytes of its own; Markdown is recognized by
// extension upstream (backend.FromExtension), so Detect always declines.
func (MarkdownBackend) Detect(data []byte) (backend.InputFormat, bool) {
	return "", false
}

var mdConverter = goldmark.New(
	goldmark.WithExtensions(extension.GFM, treeblood.MathML()),
)

func (MarkdownBackend) Convert(name string, data []byte, sink backend.Sink) error {
	fm := frontmatter.Extract(string(data))
	if !fm.IsEmpty() {
		sink = emitFrontmatterHeading(fm, sink)
	}

	var buf bytes.Buffer
	if err := mdConverter.Convert([]byte(fm.Content), &buf); err != nil {
		return err
	}

	doc, err := html.Parse(strings.NewReader(buf.String()))
	if err != nil {
		return err
	}
	w := &mdWalker{sink: sink}
	w.walk(doc)
	return nil
}

func emitFrontmatterHeading(fm frontmatter.Frontmatter, sink backend.Sink) backend.Sink {
	if fm.Title != "" {
		_, b := sink.AppendHeading("#/body", fm.Title, 1, document.LayerBody)
		sink = b
	}
	if fm.Description != "" {
		_, b := sink.AppendText("#/body", document.TextParagraph, fm.Description, document.LayerBody)
		sink = b
	}
	var meta []string
	if fm.Author != "" {
		meta = append(meta, "Author: "+fm.Author)
	}
	if fm.Date != "" {
		meta = append(meta, "Date: "+fm.Date)
	}
	if len(fm.Tags) > 0 {
		meta = append(meta, "Tags: "+strings.Join(fm.Tags, ", "))
	}
	if len(fm.Categories) > 0 {
		meta = append(meta, "Categories: "+strings.Join(fm.Categories, ", "))
	}
	for _, line := range meta {
		_, b := sink.AppendText("#/body", document.TextParagraph, line, document.LayerBody)
		sink = b
	}
	return sink
}

// mdWalker threads the sink through a single top-to-bottom html.Node walk,
// the way walkEpubNode does, but additionally tracks the innermost list
// group ref and its ordinal counter so nested <ul>/<ol> can attach under
// the parent <li>'s own ref rather than always under #/body.
type mdWalker struct {
	sink backend.Sink
}

func (w *mdWalker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Head:
			return
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			w.emitHeading(n)
			return
		case atom.P:
			w.emitParagraph("#/body", n)
			return
		case atom.Pre:
			w.emitCodeBlock(n)
			return
		case atom.Ul, atom.Ol:
			w.emitList("#/body", n)
			return
		case atom.Table:
			w.emitTable(n)
			return
		case atom.Blockquote:
			w.emitParagraph("#/body", n)
			return
		}
		if n.Data == "math" {
			w.emitFormula("#/body", n)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *mdWalker) emitHeading(n *html.Node) {
	text := strings.TrimSpace(flatText(n))
	if text == "" {
		return
	}
	level := headingLevel(n.DataAtom)
	_, b := w.sink.AppendHeading("#/body", text, level, document.LayerBody)
	w.sink = b
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	default:
		return 6
	}
}

func (w *mdWalker) emitParagraph(parent document.Ref, n *html.Node) {
	text := strings.TrimSpace(flatText(n))
	if text == "" {
		return
	}
	_, b := w.sink.AppendText(parent, document.TextParagraph, text, document.LayerBody)
	w.sink = b
}

// emitCodeBlock handles goldmark's fenced-code rendering shape,
// <pre><code class="language-xyz">...</code></pre>, pulling the language
// out of the class attribute the way the CommonMark spec defines it.
func (w *mdWalker) emitCodeBlock(n *html.Node) {
	var code *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			code = c
			break
		}
	}
	if code == nil {
		return
	}
	text := strings.TrimRight(rawText(code), "\n")
	lang := ""
	for _, attr := range code.Attr {
		if attr.Key == "class" {
			lang = strings.TrimPrefix(attr.Val, "language-")
		}
	}
	ref, b := w.sink.AppendText("#/body", document.TextCode, text, document.LayerBody)
	w.sink = b
	if lang != "" {
		w.sink = w.sink.SetCodeLanguage(ref, lang)
	}
}

// emitFormula handles the <math> MathML element treeblood.MathML() emits
// in place of $...$/$$...$$ delimiters. MathML has no inverse back to
// LaTeX, so the flattened element text (treeblood's token content) is kept
// as-is rather than attempting to reconstruct the original source; this is
// a lossy, approximate round-trip.
func (w *mdWalker) emitFormula(parent document.Ref, n *html.Node) {
	text := strings.TrimSpace(flatText(n))
	if text == "" {
		return
	}
	_, b := w.sink.AppendText(parent, document.TextFormula, text, document.LayerBody)
	w.sink = b
}

// emitList appends a list group under parent and walks each <li>,
// attaching one level of nested <ul>/<ol> under the item's own ref so the
// generic byRef parent check in Builder accepts it.
func (w *mdWalker) emitList(parent document.Ref, n *html.Node) {
	ordered := n.DataAtom == atom.Ol
	listRef, b := w.sink.AppendList(parent, ordered, "", document.LayerBody)
	w.sink = b

	counter := 1
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		marker := "-"
		if ordered {
			marker = strconv.Itoa(counter) + "."
			counter++
		}
		text := strings.TrimSpace(directText(c))
		itemRef, b := w.sink.AppendListItem(listRef, text, marker, ordered, document.LayerBody)
		w.sink = b

		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			if gc.Type == html.ElementNode && (gc.DataAtom == atom.Ul || gc.DataAtom == atom.Ol) {
				w.emitList(itemRef, gc)
			}
		}
	}
}

// emitTable handles a GFM table (thead/tbody/tr/th/td), building a fully
// expanded TableData grid the way document.TableData expects; GFM tables
// carry no row/col spans so every cell occupies exactly one grid position.
func (w *mdWalker) emitTable(n *html.Node) {
	var rows [][]document.TableCell
	var headerRowCount int

	var walkSection func(*html.Node, bool)
	walkSection = func(sec *html.Node, isHeader bool) {
		for tr := sec.FirstChild; tr != nil; tr = tr.NextSibling {
			if tr.Type != html.ElementNode || tr.DataAtom != atom.Tr {
				continue
			}
			var row []document.TableCell
			for cell := tr.FirstChild; cell != nil; cell = cell.NextSibling {
				if cell.Type != html.ElementNode || (cell.DataAtom != atom.Td && cell.DataAtom != atom.Th) {
					continue
				}
				row = append(row, document.TableCell{
					Text:         strings.TrimSpace(flatText(cell)),
					ColumnHeader: cell.DataAtom == atom.Th,
				})
			}
			if row != nil {
				rows = append(rows, row)
				if isHeader {
					headerRowCount++
				}
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Thead:
			walkSection(c, true)
		case atom.Tbody:
			walkSection(c, false)
		case atom.Tr:
			walkSection(n, false)
		}
	}

	if len(rows) == 0 {
		return
	}
	numCols := 0
	for _, r := range rows {
		if len(r) > numCols {
			numCols = len(r)
		}
	}
	grid := make([][]document.TableCell, len(rows))
	for i, r := range rows {
		padded := make([]document.TableCell, numCols)
		copy(padded, r)
		for c := range padded {
			padded[c].StartRowOffsetIdx = i
			padded[c].EndRowOffsetIdx = i + 1
			padded[c].StartColOffsetIdx = c
			padded[c].EndColOffsetIdx = c + 1
			padded[c].RowSpan = 1
			padded[c].ColSpan = 1
		}
		grid[i] = padded
	}
	data, err := document.NewTableData(len(rows), numCols, grid)
	if err != nil {
		return
	}
	_, b := w.sink.AppendTable("#/body", data, document.LayerBody)
	w.sink = b
}

// directText collects a node's own text content, stopping at any nested
// <ul>/<ol> child so a list item's marker text excludes its sublist.
func directText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && (n.DataAtom == atom.Ul || n.DataAtom == atom.Ol) {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func flatText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		} else if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func rawText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return sb.String()
}
