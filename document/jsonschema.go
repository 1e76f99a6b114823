package document

import (
	"bytes"
	"encoding/json"
)

// SchemaVersion is the fixed DoclingDocument schema version this package
// emits (spec §4.1.3).
const SchemaVersion = "1.8.0"

// jsonDocument mirrors the DoclingDocument envelope with the exact top-level
// key order spec §4.1.3 requires: schema_name, version, name, origin?, body,
// furniture?, groups, texts, tables, pictures, key_value_items, form_items,
// pages, num_pages, markdown?. Go's encoding/json emits struct fields in
// declaration order, which is how that ordering is made stable without a
// hand-rolled encoder.
type jsonDocument struct {
	SchemaName string `json:"schema_name"`
	Version    string `json:"version"`
	Name       string `json:"name"`
	Origin     *jsonOrigin `json:"origin,omitempty"`
	Body       jsonGroup `json:"body"`
	Furniture  *jsonGroup `json:"furniture,omitempty"`
	Groups     []jsonGroup `json:"groups"`
	Texts      []jsonText `json:"texts"`
	Tables     []jsonTable `json:"tables"`
	Pictures   []jsonPicture `json:"pictures"`
	KeyValueItems []json.RawMessage `json:"key_value_items"`
	FormItems  []json.RawMessage `json:"form_items"`
	Pages      []jsonPage `json:"pages"`
	NumPages   int `json:"num_pages"`
	Markdown   *string `json:"markdown,omitempty"`
}

// jsonOrigin carries source provenance metadata, present only when the
// backend that produced the document supplied it.
type jsonOrigin struct {
	MimeType string `json:"mimetype,omitempty"`
	Filename string `json:"filename,omitempty"`
	URI      string `json:"uri,omitempty"`
	Binhash  string `json:"binary_hash,omitempty"`
}

type jsonGroup struct {
	Self     Ref `json:"self_ref"`
	Parent   Ref `json:"parent_ref,omitempty"`
	Label    GroupLabel `json:"label"`
	Name     string `json:"name,omitempty"`
	ContentLayer ContentLayer `json:"content_layer"`
	Children []Ref `json:"children"`
}

type jsonText struct {
	Self       Ref `json:"self_ref"`
	Parent     Ref `json:"parent_ref,omitempty"`
	Label      TextLabel `json:"label"`
	ContentLayer ContentLayer `json:"content_layer"`
	Orig       string `json:"orig"`
	Text       string `json:"text"`
	Level      *int `json:"level,omitempty"`
	Enumerated *bool `json:"enumerated,omitempty"`
	Marker     string `json:"marker,omitempty"`
	CodeLanguage string `json:"code_language,omitempty"`
	IsBold     *bool `json:"is_bold,omitempty"`
	IsItalic   *bool `json:"is_italic,omitempty"`
	Hyperlink  string `json:"hyperlink,omitempty"`
	Prov       []jsonProvenance `json:"prov,omitempty"`
	Children   []Ref `json:"children,omitempty"`
}

type jsonTable struct {
	Self     Ref `json:"self_ref"`
	Parent   Ref `json:"parent_ref,omitempty"`
	ContentLayer ContentLayer `json:"content_layer"`
	Data     jsonTableData `json:"data"`
	Prov     []jsonProvenance `json:"prov,omitempty"`
	Captions []Ref `json:"captions,omitempty"`
}

type jsonTableData struct {
	NumRows int `json:"num_rows"`
	NumCols int `json:"num_cols"`
	Grid    [][]jsonTableCell `json:"grid"`
}

type jsonTableCell struct {
	Text              string `json:"text"`
	RowSpan           int `json:"row_span"`
	ColSpan           int `json:"col_span"`
	StartRowOffsetIdx int `json:"start_row_offset_idx"`
	EndRowOffsetIdx   int `json:"end_row_offset_idx"`
	StartColOffsetIdx int `json:"start_col_offset_idx"`
	EndColOffsetIdx   int `json:"end_col_offset_idx"`
	ColumnHeader      bool `json:"column_header"`
	RowHeader         bool `json:"row_header"`
}

type jsonPicture struct {
	Self        Ref `json:"self_ref"`
	Parent      Ref `json:"parent_ref,omitempty"`
	ContentLayer ContentLayer `json:"content_layer"`
	Label       PictureLabel `json:"label"`
	Prov        []jsonProvenance `json:"prov,omitempty"`
	Captions    []Ref `json:"captions,omitempty"`
	OCRText     string `json:"ocr_text,omitempty"`
}

type jsonProvenance struct {
	PageNo int `json:"page_no"`
	BBox   jsonBBox `json:"bbox"`
	CharSpan [2]int `json:"charspan"`
}

type jsonBBox struct {
	L, T, R, B float64
	CoordOrigin CoordOrigin `json:"coord_origin"`
}

// MarshalJSON gives jsonBBox its own stable key order (l, t, r, b,
// coord_origin) independent of struct field declaration quirks from the
// embedded float group.
func (b jsonBBox) MarshalJSON() ([]byte, error) {
	type alias struct {
		L float64 `json:"l"`
		T float64 `json:"t"`
		R float64 `json:"r"`
		B float64 `json:"b"`
		CoordOrigin CoordOrigin `json:"coord_origin"`
	}
	return json.Marshal(alias{b.L, b.T, b.R, b.B, b.CoordOrigin})
}

type jsonPage struct {
	PageNo int `json:"page_no"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// MarshalDocumentJSON renders doc into the canonical DoclingDocument JSON
// envelope (spec §4.1.3), with stable key order and two-space indentation.
func MarshalDocumentJSON(doc *CanonicalDocument, numPages int, includeMarkdown bool) ([]byte, error) {
	out := jsonDocument{
		SchemaName: "DoclingDocument",
		Version:    SchemaVersion,
		Name:       doc.Name,
		Body:       toJSONGroup(doc.Body),
		Groups:     make([]jsonGroup, 0, len(doc.Groups)),
		Texts:      make([]jsonText, 0, len(doc.Texts)),
		Tables:     make([]jsonTable, 0, len(doc.Tables)),
		Pictures:   make([]jsonPicture, 0, len(doc.Pictures)),
		KeyValueItems: []json.RawMessage{},
		FormItems:  []json.RawMessage{},
		Pages:      make([]jsonPage, 0, numPages),
		NumPages:   numPages,
	}
	for _, g := range doc.Groups {
		out.Groups = append(out.Groups, toJSONGroup(g))
	}
	for _, t := range doc.Texts {
		out.Texts = append(out.Texts, toJSONText(t))
	}
	for _, t := range doc.Tables {
		out.Tables = append(out.Tables, toJSONTable(t))
	}
	for _, p := range doc.Pictures {
		out.Pictures = append(out.Pictures, toJSONPicture(p))
	}
	for i := 1; i <= numPages; i++ {
		out.Pages = append(out.Pages, jsonPage{PageNo: i})
	}
	if includeMarkdown {
		md := RenderMarkdown(doc)
		out.Markdown = &md
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func toJSONGroup(g GroupNode) jsonGroup {
	return jsonGroup{
		Self: g.Self(), Parent: g.Parent(), Label: g.Label, Name: g.Name,
		ContentLayer: g.Layer(), Children: orEmptyRefs(g.Children),
	}
}

func toJSONText(t TextNode) jsonText {
	out := jsonText{
		Self: t.Self(), Parent: t.Parent(), Label: t.Label, ContentLayer: t.Layer(),
		Orig: t.Orig, Text: t.Text, Level: t.Level, Marker: t.Marker,
		CodeLanguage: t.CodeLanguage, Hyperlink: t.Formatting.Hyperlink,
		Children: t.Children,
	}
	if t.Enumerated {
		v := true
		out.Enumerated = &v
	}
	if t.Formatting.IsBold {
		v := true
		out.IsBold = &v
	}
	if t.Formatting.IsItalic {
		v := true
		out.IsItalic = &v
	}
	for _, p := range t.Prov {
		out.Prov = append(out.Prov, toJSONProvenance(p))
	}
	return out
}

func toJSONTable(t TableNode) jsonTable {
	grid := make([][]jsonTableCell, len(t.Data.Grid))
	for i, row := range t.Data.Grid {
		jrow := make([]jsonTableCell, len(row))
		for j, c := range row {
			jrow[j] = jsonTableCell{
				Text: c.Text, RowSpan: c.RowSpan, ColSpan: c.ColSpan,
				StartRowOffsetIdx: c.StartRowOffsetIdx, EndRowOffsetIdx: c.EndRowOffsetIdx,
				StartColOffsetIdx: c.StartColOffsetIdx, EndColOffsetIdx: c.EndColOffsetIdx,
				ColumnHeader: c.ColumnHeader, RowHeader: c.RowHeader,
			}
		}
		grid[i] = jrow
	}
	out := jsonTable{
		Self: t.Self(), Parent: t.Parent(), ContentLayer: t.Layer(),
		Data: jsonTableData{NumRows: t.Data.NumRows, NumCols: t.Data.NumCols, Grid: grid},
		Captions: t.Captions,
	}
	for _, p := range t.Prov {
		out.Prov = append(out.Prov, toJSONProvenance(p))
	}
	return out
}

func toJSONPicture(p PictureNode) jsonPicture {
	out := jsonPicture{
		Self: p.Self(), Parent: p.Parent(), ContentLayer: p.Layer(),
		Label: p.Label, Captions: p.Captions, OCRText: p.OCRText,
	}
	for _, pr := range p.Prov {
		out.Prov = append(out.Prov, toJSONProvenance(pr))
	}
	return out
}

func toJSONProvenance(p Provenance) jsonProvenance {
	return jsonProvenance{
		PageNo: p.PageNo,
		BBox: jsonBBox{L: p.BBox.L, T: p.BBox.T, R: p.BBox.R, B: p.BBox.B, CoordOrigin: p.BBox.CoordOrigin},
		CharSpan: [2]int{p.CharSpan.Start, p.CharSpan.End},
	}
}

func orEmptyRefs(refs []Ref) []Ref {
	if refs == nil {
		return []Ref{}
	}
	return refs
}
