// Package office implements the Office Open XML and OpenDocument backends
// (spec §4.2.1, §4.2.3): DOCX, PPTX, XLSX and ODP are all zip archives of
// XML parts, so every backend here shares the same "open as a zip
// filesystem, stream-decode the relevant part with encoding/xml, accumulate
// into a typed Go struct" idiom the teacher uses for PDF object graphs
// (ir/semantic/page_parser.go, structure_parser.go) and that the pack's own
// DOCX readers (tsawler/tabula, didikprabowo/mbadocx) use for OOXML parts.
package office

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/document"
)

// DocxBackend converts Word documents (spec §4.2.1).
type DocxBackend struct{}

func (DocxBackend) Supports(f backend.InputFormat) bool { return f == backend.FormatDOCX }

func (DocxBackend) Detect(data []byte) (backend.InputFormat, bool) {
	if looksLikeZip(data) {
		if r, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err == nil {
			if hasEntry(r, "word/document.xml") {
				return backend.FormatDOCX, true
			}
		}
	}
	return "", false
}

func looksLikeZip(data []byte) bool {
	return len(data) >= 4 && data[0] == 'P' && data[1] == 'K'
}

func hasEntry(r *zip.Reader, name string) bool {
	for _, f := range r.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

func readZipEntry(r *zip.Reader, name string) ([]byte, error) {
	f, err := r.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// --- document.xml ---

type wBody struct {
	XMLName xml.Name   `xml:"body"`
	Items   []wBodyItem `xml:",any"`
}

// wBodyItem captures both <w:p> and <w:tbl> children in document order.
type wBodyItem struct {
	XMLName xml.Name
	Para    *wParagraph `xml:"-"`
	Table   *wTable     `xml:"-"`
}

type wParagraph struct {
	PPr *wParagraphProps `xml:"pPr"`
	Runs []wRun `xml:"r"`
}

type wParagraphProps struct {
	PStyle *wVal `xml:"pStyle"`
	NumPr  *wNumPr `xml:"numPr"`
}

type wVal struct {
	Val string `xml:"val,attr"`
}

type wNumPr struct {
	Ilvl  *wVal `xml:"ilvl"`
	NumID *wVal `xml:"numId"`
}

type wRun struct {
	RPr  *wRunProps `xml:"rPr"`
	Text []wText    `xml:"t"`
}

type wRunProps struct {
	Bold   *struct{} `xml:"b"`
	Italic *struct{} `xml:"i"`
}

type wText struct {
	Value string `xml:",chardata"`
}

type wTable struct {
	Rows []wTableRow `xml:"tr"`
}

type wTableRow struct {
	Cells []wTableCell `xml:"tc"`
}

type wTableCell struct {
	TcPr *wTcPr `xml:"tcPr"`
	Paragraphs []wParagraph `xml:"p"`
}

type wTcPr struct {
	GridSpan *wVal `xml:"gridSpan"`
	VMerge   *wVMerge `xml:"vMerge"`
}

type wVMerge struct {
	Val string `xml:"val,attr"`
}

// --- styles.xml ---

type wStyles struct {
	Styles []wStyle `xml:"style"`
}

type wStyle struct {
	StyleID string `xml:"styleId,attr"`
	Name    *wVal  `xml:"name"`
}

// headingLevelFromStyle resolves a pStyle to a 1..=6 heading level, or 0 if
// the style is not a heading style (spec §4.2.1: "heading-level mapping via
// pStyle").
func headingLevelFromStyle(styleID string) int {
	lower := strings.ToLower(styleID)
	if !strings.HasPrefix(lower, "heading") && lower != "title" {
		return 0
	}
	if lower == "title" {
		return 1
	}
	numPart := strings.TrimPrefix(lower, "heading")
	n, err := strconv.Atoi(numPart)
	if err != nil || n < 1 {
		return 1
	}
	if n > 6 {
		n = 6
	}
	return n
}

func paragraphText(p wParagraph) (text string, bold, italic bool) {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t.Value)
		}
		if r.RPr != nil {
			if r.RPr.Bold != nil {
				bold = true
			}
			if r.RPr.Italic != nil {
				italic = true
			}
		}
	}
	return b.String(), bold, italic
}

// Convert implements backend.Backend (spec §4.2.1).
func (DocxBackend) Convert(name string, data []byte, sink backend.Sink) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open docx %s as zip: %w", name, err)
	}

	docBytes, err := readZipEntry(zr, "word/document.xml")
	if err != nil {
		return fmt.Errorf("read word/document.xml: %w", err)
	}

	styleMap := map[string]string{} // styleId -> styleId (pass-through; name unused here)
	if stylesBytes, err := readZipEntry(zr, "word/styles.xml"); err == nil {
		var styles wStyles
		if err := xml.Unmarshal(stylesBytes, &styles); err == nil {
			for _, s := range styles.Styles {
				styleMap[s.StyleID] = s.StyleID
			}
		}
	}

	numbering := document.NewNumberingRegistry()
	if numBytes, err := readZipEntry(zr, "word/numbering.xml"); err == nil {
		parseNumberingXML(numBytes, numbering)
	}
	counters := document.NewListCounters()

	body, err := decodeBody(docBytes)
	if err != nil {
		return fmt.Errorf("decode document.xml body: %w", err)
	}

	var currentList document.Ref
	var currentListOrdered bool
	haveList := false

	for _, item := range body.Items {
		switch {
		case item.Para != nil:
			p := *item.Para
			text, bold, italic := paragraphText(p)
			if strings.TrimSpace(text) == "" && (p.PPr == nil || p.PPr.NumID() == "") {
				continue
			}

			if p.PPr != nil && p.PPr.NumPr != nil && p.PPr.NumPr.NumID != nil {
				numID, _ := strconv.Atoi(p.PPr.NumPr.NumID.Val)
				ilvl := 0
				if p.PPr.NumPr.Ilvl != nil {
					ilvl, _ = strconv.Atoi(p.PPr.NumPr.Ilvl.Val)
				}
				marker, enumerated := document.GenerateMarker(numbering, counters, numID, ilvl)
				if !haveList || currentListOrdered != enumerated {
					ref, b := sink.AppendList("#/body", enumerated, "", document.LayerBody)
					sink = b
					currentList = ref
					currentListOrdered = enumerated
					haveList = true
				}
				_, b := sink.AppendListItem(currentList, text, marker, enumerated, document.LayerBody)
				sink = b
				continue
			}
			haveList = false

			level := 0
			if p.PPr != nil && p.PPr.PStyle != nil {
				level = headingLevelFromStyle(p.PPr.PStyle.Val)
			}
			var ref document.Ref
			var b *document.Builder
			if level > 0 {
				ref, b = sink.AppendHeading("#/body", text, level, document.LayerBody)
			} else {
				ref, b = sink.AppendText("#/body", document.TextParagraph, text, document.LayerBody)
			}
			sink = b
			if bold || italic {
				sink = sink.SetFormatting(ref, document.Formatting{IsBold: bold, IsItalic: italic})
			}
		case item.Table != nil:
			haveList = false
			data, err := tableFromWTable(*item.Table)
			if err != nil {
				return fmt.Errorf("build table: %w", err)
			}
			_, b := sink.AppendTable("#/body", data, document.LayerBody)
			sink = b
		}
	}
	return nil
}

func (p *wParagraphProps) numIDSafe() string {
	if p == nil || p.NumPr == nil || p.NumPr.NumID == nil {
		return ""
	}
	return p.NumPr.NumID.Val
}

func (p *wParagraphProps) NumID() string { return p.numIDSafe() }

// decodeBody streams <w:body> children in document order, distinguishing
// <w:p> from <w:tbl> (spec §4.2.1: "emit in document order").
func decodeBody(docBytes []byte) (*wBody, error) {
	dec := xml.NewDecoder(bytes.NewReader(docBytes))
	var body wBody
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "body" {
			continue
		}
		for {
			inner, err := dec.Token()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			switch el := inner.(type) {
			case xml.StartElement:
				switch el.Name.Local {
				case "p":
					var p wParagraph
					if err := dec.DecodeElement(&p, &el); err != nil {
						return nil, err
					}
					body.Items = append(body.Items, wBodyItem{XMLName: el.Name, Para: &p})
				case "tbl":
					var t wTable
					if err := dec.DecodeElement(&t, &el); err != nil {
						return nil, err
					}
					body.Items = append(body.Items, wBodyItem{XMLName: el.Name, Table: &t})
				}
			case xml.EndElement:
				if el.Name.Local == "body" {
					return &body, nil
				}
			}
		}
	}
	return &body, nil
}

// tableFromWTable builds a document.TableData, replicating gridSpan/vMerge
// continuations across covered grid positions (spec §3.3, §4.2.1).
func tableFromWTable(t wTable) (document.TableData, error) {
	numRows := len(t.Rows)
	numCols := 0
	for _, row := range t.Rows {
		width := 0
		for _, cell := range row.Cells {
			span := 1
			if cell.TcPr != nil && cell.TcPr.GridSpan != nil {
				if v, err := strconv.Atoi(cell.TcPr.GridSpan.Val); err == nil && v > 0 {
					span = v
				}
			}
			width += span
		}
		if width > numCols {
			numCols = width
		}
	}

	grid := make([][]document.TableCell, numRows)
	for i := range grid {
		grid[i] = make([]document.TableCell, numCols)
	}

	// vMergeAnchor tracks, per column, the (row, span, cell) of the open
	// vertical merge so a "continue" cell can extend it rather than guess
	// at the anchor by inspecting already-overwritten grid state.
	type anchor struct {
		row  int
		span int
		cell document.TableCell
	}
	vMergeAnchor := make(map[int]anchor)

	for rowIdx, row := range t.Rows {
		col := 0
		for _, cell := range row.Cells {
			span := 1
			if cell.TcPr != nil && cell.TcPr.GridSpan != nil {
				if v, err := strconv.Atoi(cell.TcPr.GridSpan.Val); err == nil && v > 0 {
					span = v
				}
			}
			continuesVertical := cell.TcPr != nil && cell.TcPr.VMerge != nil && cell.TcPr.VMerge.Val != "restart"

			if continuesVertical {
				if a, ok := vMergeAnchor[col]; ok {
					rowSpan := rowIdx - a.row + 1
					document.PlaceSpan(grid, a.row, col, rowSpan, a.span, a.cell)
					vMergeAnchor[col] = anchor{row: a.row, span: a.span, cell: a.cell}
					col += span
					continue
				}
				// No open merge to continue; treat as a fresh cell.
				continuesVertical = false
			}

			var text strings.Builder
			for _, p := range cell.Paragraphs {
				t, _, _ := paragraphText(p)
				if text.Len() > 0 && t != "" {
					text.WriteString(" ")
				}
				text.WriteString(t)
			}

			cellData := document.TableCell{Text: text.String(), RowHeader: rowIdx == 0}
			document.PlaceSpan(grid, rowIdx, col, 1, span, cellData)
			if cell.TcPr != nil && cell.TcPr.VMerge != nil && cell.TcPr.VMerge.Val == "restart" {
				vMergeAnchor[col] = anchor{row: rowIdx, span: span, cell: cellData}
			} else {
				delete(vMergeAnchor, col)
			}
			col += span
		}
	}

	return document.NewTableData(numRows, numCols, grid)
}

// parseNumberingXML parses word/numbering.xml's abstractNum/num/lvl
// structure into a NumberingRegistry (spec §6).
func parseNumberingXML(data []byte, reg *document.NumberingRegistry) {
	var nx numberingXML
	if err := xml.Unmarshal(data, &nx); err != nil {
		return
	}
	for _, an := range nx.AbstractNums {
		id, err := strconv.Atoi(an.AbstractNumID)
		if err != nil {
			continue
		}
		levels := make(map[int]document.LevelDefinition)
		for _, lvl := range an.Levels {
			ilvl, err := strconv.Atoi(lvl.Ilvl)
			if err != nil {
				continue
			}
			start := 1
			if lvl.Start != nil {
				if v, err := strconv.Atoi(lvl.Start.Val); err == nil {
					start = v
				}
			}
			format := document.FormatBullet
			if lvl.NumFmt != nil {
				format = mapNumFmt(lvl.NumFmt.Val)
			}
			pattern := ""
			if lvl.LvlText != nil {
				pattern = lvl.LvlText.Val
			}
			levels[ilvl] = document.LevelDefinition{
				Ilvl: ilvl, Format: format, StartVal: start, LvlTextPattern: pattern,
			}
		}
		reg.DefineAbstractNum(id, levels)
	}
	for _, n := range nx.Nums {
		numID, err1 := strconv.Atoi(n.NumID)
		abstractID := 0
		if n.AbstractNumID != nil {
			abstractID, _ = strconv.Atoi(n.AbstractNumID.Val)
		}
		if err1 == nil {
			reg.DefineNum(numID, abstractID)
		}
	}
}

func mapNumFmt(val string) document.NumFormat {
	switch val {
	case "decimal":
		return document.FormatDecimal
	case "decimalZero":
		return document.FormatDecimalZero
	case "lowerRoman":
		return document.FormatLowerRoman
	case "upperRoman":
		return document.FormatUpperRoman
	case "lowerLetter":
		return document.FormatLowerLetter
	case "upperLetter":
		return document.FormatUpperLetter
	case "bullet":
		return document.FormatBullet
	default:
		return document.FormatBullet
	}
}

type numberingXML struct {
	AbstractNums []xmlAbstractNum `xml:"abstractNum"`
	Nums         []xmlNum         `xml:"num"`
}

type xmlAbstractNum struct {
	AbstractNumID string    `xml:"abstractNumId,attr"`
	Levels        []xmlLvl  `xml:"lvl"`
}

type xmlLvl struct {
	Ilvl    string `xml:"ilvl,attr"`
	Start   *wVal  `xml:"start"`
	NumFmt  *wVal  `xml:"numFmt"`
	LvlText *wVal  `xml:"lvlText"`
}

type xmlNum struct {
	NumID         string `xml:"numId,attr"`
	AbstractNumID *wVal  `xml:"abstractNumId"`
}
