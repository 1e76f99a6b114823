package office

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/document"
)

// XlsxBackend converts spreadsheets (spec §4.2.1). Each sheet renders as a
// `## <sheet_name>` heading followed by tab-joined row text; empty rows are
// skipped.
type XlsxBackend struct{}

func (XlsxBackend) Supports(f backend.InputFormat) bool { return f == backend.FormatXLSX }

func (XlsxBackend) Detect(data []byte) (backend.InputFormat, bool) {
	if looksLikeZip(data) {
		if r, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err == nil && hasEntry(r, "xl/workbook.xml") {
			return backend.FormatXLSX, true
		}
	}
	return "", false
}

type xlWorkbook struct {
	Sheets []xlSheetRef `xml:"sheets>sheet"`
}

type xlSheetRef struct {
	Name    string `xml:"name,attr"`
	SheetID string `xml:"sheetId,attr"`
	RID     string `xml:"id,attr"`
}

type xlSheetData struct {
	Rows []xlRow `xml:"sheetData>row"`
}

type xlRow struct {
	Cells []xlCell `xml:"c"`
}

type xlCell struct {
	Type  string `xml:"t,attr"`
	Value string `xml:"v"`
	Is    *xlInlineString `xml:"is"`
}

type xlInlineString struct {
	T string `xml:"t"`
}

type xlSST struct {
	Items []xlSSTItem `xml:"si"`
}

type xlSSTItem struct {
	T string `xml:"t"`
}

type xlRels struct {
	Relationships []xlRel `xml:"Relationship"`
}

type xlRel struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

func (XlsxBackend) Convert(name string, data []byte, sink backend.Sink) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open xlsx %s as zip: %w", name, err)
	}

	wbBytes, err := readZipEntry(zr, "xl/workbook.xml")
	if err != nil {
		return fmt.Errorf("read xl/workbook.xml: %w", err)
	}
	var wb xlWorkbook
	if err := xml.Unmarshal(wbBytes, &wb); err != nil {
		return fmt.Errorf("parse workbook.xml: %w", err)
	}

	relsBytes, _ := readZipEntry(zr, "xl/_rels/workbook.xml.rels")
	relTarget := map[string]string{}
	if relsBytes != nil {
		var rels xlRels
		if err := xml.Unmarshal(relsBytes, &rels); err == nil {
			for _, r := range rels.Relationships {
				relTarget[r.ID] = r.Target
			}
		}
	}

	var sst []string
	if sstBytes, err := readZipEntry(zr, "xl/sharedStrings.xml"); err == nil {
		var table xlSST
		if err := xml.Unmarshal(sstBytes, &table); err == nil {
			for _, item := range table.Items {
				sst = append(sst, item.T)
			}
		}
	}

	for _, sheetRef := range wb.Sheets {
		target := relTarget[sheetRef.RID]
		path := "xl/" + strings.TrimPrefix(target, "/xl/")
		if target == "" {
			continue
		}
		sheetBytes, err := readZipEntry(zr, path)
		if err != nil {
			continue
		}
		var sheet xlSheetData
		if err := xml.Unmarshal(sheetBytes, &sheet); err != nil {
			continue
		}

		ref, b := sink.AppendHeading("#/body", sheetRef.Name, 2, document.LayerBody)
		sink = b
		_ = ref

		for _, row := range sheet.Rows {
			var cells []string
			for _, c := range row.Cells {
				cells = append(cells, cellText(c, sst))
			}
			lineText := strings.TrimRight(strings.Join(cells, "\t"), "\t")
			if strings.TrimSpace(lineText) == "" {
				continue
			}
			_, b := sink.AppendText("#/body", document.TextParagraph, lineText, document.LayerBody)
			sink = b
		}
	}
	return nil
}

func cellText(c xlCell, sst []string) string {
	if c.Type == "inlineStr" && c.Is != nil {
		return c.Is.T
	}
	if c.Type == "s" {
		idx, err := strconv.Atoi(c.Value)
		if err == nil && idx >= 0 && idx < len(sst) {
			return sst[idx]
		}
		return ""
	}
	return c.Value
}
