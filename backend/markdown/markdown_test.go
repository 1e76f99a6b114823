package markdown

import (
	"testing"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/document"
)

func convert(t *testing.T, src string) *document.CanonicalDocument {
	t.Helper()
	var be MarkdownBackend
	builder := document.NewDocument("doc.md")
	if err := be.Convert("doc.md", []byte(src), builder); err != nil {
		t.Fatalf("convert: %v", err)
	}
	doc, err := builder.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return doc
}

func TestSupportsOnlyMarkdown(t *testing.T) {
	var be MarkdownBackend
	if !be.Supports(backend.FormatMD) {
		t.Fatalf("expected support for FormatMD")
	}
	if be.Supports(backend.FormatHTML) {
		t.Fatalf("did not expect support for FormatHTML")
	}
}

func TestConvertHeadingsAndParagraphs(t *testing.T) {
	doc := convert(t, "# Title\n\nFirst paragraph.\n\n## Section\n\nSecond paragraph.\n")

	var headings, paragraphs []string
	for _, tx := range doc.Texts {
		if tx.Label == document.TextSectionHeader {
			headings = append(headings, tx.Text)
		} else if tx.Label == document.TextParagraph {
			paragraphs = append(paragraphs, tx.Text)
		}
	}
	wantHeadings := []string{"Title", "Section"}
	if len(headings) != len(wantHeadings) {
		t.Fatalf("headings = %v, want %v", headings, wantHeadings)
	}
	for i, h := range wantHeadings {
		if headings[i] != h {
			t.Fatalf("heading[%d] = %q, want %q", i, headings[i], h)
		}
	}
	wantParagraphs := []string{"First paragraph.", "Second paragraph."}
	if len(paragraphs) != len(wantParagraphs) {
		t.Fatalf("paragraphs = %v, want %v", paragraphs, wantParagraphs)
	}
}

func TestConvertFrontmatterEmitsLeadingHeading(t *testing.T) {
	src := "---\ntitle: Report\nauthor: Ada\n---\nBody line.\n"
	doc := convert(t, src)
	if len(doc.Texts) < 2 {
		t.Fatalf("expected at least 2 text nodes, got %d", len(doc.Texts))
	}
	if doc.Texts[0].Text != "Report" || doc.Texts[0].Label != document.TextSectionHeader {
		t.Fatalf("first node = %+v, want Report heading", doc.Texts[0])
	}
	found := false
	for _, tx := range doc.Texts {
		if tx.Text == "Body line." {
			found = true
		}
	}
	if !found {
		t.Fatalf("body line not found in %+v", doc.Texts)
	}
}

func TestConvertFencedCodeBlockCapturesLanguage(t *testing.T) {
	src := "```go\nfmt.Println(1)\n```\n"
	doc := convert(t, src)
	var found bool
	for _, tx := range doc.Texts {
		if tx.Label == document.TextCode {
			found = true
			if tx.CodeLanguage != "go" {
				t.Fatalf("CodeLanguage = %q, want go", tx.CodeLanguage)
			}
			if tx.Text != "fmt.Println(1)" {
				t.Fatalf("Text = %q", tx.Text)
			}
		}
	}
	if !found {
		t.Fatalf("expected a code node, got %+v", doc.Texts)
	}
}

func TestConvertListItemsWithNesting(t *testing.T) {
	src := "- First\n- Second\n  - Nested\n"
	doc := convert(t, src)

	var groupLabels []document.GroupLabel
	for _, g := range doc.Groups {
		groupLabels = append(groupLabels, g.Label)
	}
	if len(groupLabels) != 2 {
		t.Fatalf("expected 2 list groups (outer + nested), got %v", groupLabels)
	}

	var items []string
	for _, tx := range doc.Texts {
		if tx.Label == document.TextListItem {
			items = append(items, tx.Text)
		}
	}
	want := []string{"First", "Second", "Nested"}
	if len(items) != len(want) {
		t.Fatalf("items = %v, want %v", items, want)
	}
	for i, w := range want {
		if items[i] != w {
			t.Fatalf("item[%d] = %q, want %q", i, items[i], w)
		}
	}
}

func TestConvertOrderedListMarkersIncrement(t *testing.T) {
	src := "1. Alpha\n2. Beta\n3. Gamma\n"
	doc := convert(t, src)

	var markers []string
	for _, tx := range doc.Texts {
		if tx.Label == document.TextListItem {
			markers = append(markers, tx.Marker)
			if !tx.Enumerated {
				t.Fatalf("expected enumerated list item, got %+v", tx)
			}
		}
	}
	want := []string{"1.", "2.", "3."}
	if len(markers) != len(want) {
		t.Fatalf("markers = %v, want %v", markers, want)
	}
	for i, w := range want {
		if markers[i] != w {
			t.Fatalf("marker[%d] = %q, want %q", i, markers[i], w)
		}
	}
}

func TestConvertGFMTableBuildsGrid(t *testing.T) {
	src := "| Name | Cost |\n| --- | --- |\n| Widget | 12 |\n| Gadget | 7 |\n"
	doc := convert(t, src)
	if len(doc.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(doc.Tables))
	}
	data := doc.Tables[0].Data
	if data.NumRows != 3 || data.NumCols != 2 {
		t.Fatalf("table shape = %dx%d, want 3x2", data.NumRows, data.NumCols)
	}
	if data.Grid[0][0].Text != "Name" || !data.Grid[0][0].ColumnHeader {
		t.Fatalf("header cell = %+v", data.Grid[0][0])
	}
	if data.Grid[1][0].Text != "Widget" || data.Grid[2][1].Text != "7" {
		t.Fatalf("data cells = %+v / %+v", data.Grid[1][0], data.Grid[2][1])
	}
}
