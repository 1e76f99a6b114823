package pdfpipeline

import (
	"context"
	"testing"

	"github.com/docling-project/docling-go/document"
)

type fakeLayout struct{ clusters []LayoutCluster }

func (f fakeLayout) Name() string { return "fake-layout" }
func (f fakeLayout) Detect(ctx context.Context, img PageImage) ([]LayoutCluster, error) {
	return f.clusters, nil
}

type fakeLines struct{ polys []TextPolygon }

func (f fakeLines) Name() string { return "fake-lines" }
func (f fakeLines) DetectLines(ctx context.Context, img PageImage) ([]TextPolygon, error) {
	return f.polys, nil
}

type fakeRecognizer struct{ text map[int]string }

func (f fakeRecognizer) Name() string { return "fake-recognizer" }
func (f fakeRecognizer) RecognizeCrop(ctx context.Context, img PageImage, poly TextPolygon) (string, float64, error) {
	x := int(poly.Points[0][0])
	return f.text[x], 0.9, nil
}

func polyAt(x, y float64) TextPolygon {
	return TextPolygon{Points: [4][2]float64{{x, y}, {x + 2, y}, {x + 2, y + 2}, {x, y + 2}}}
}

func TestConvertPageEmitsTitleAndParagraph(t *testing.T) {
	layout := fakeLayout{clusters: []LayoutCluster{
		{ID: 1, Label: LayoutTitle, Confidence: 0.95, BBox: BBox{0, 0, 100, 20}},
		{ID: 2, Label: LayoutText, Confidence: 0.9, BBox: BBox{0, 30, 100, 60}},
	}}
	lines := fakeLines{polys: []TextPolygon{polyAt(10, 10), polyAt(10, 40)}}
	recognizer := fakeRecognizer{text: map[int]string{10: "Hello"}}

	p := NewPipeline(layout, lines, recognizer, nil)
	sink := document.NewDocument("page")

	sink, err := p.ConvertPage(context.Background(), PageImage{Width: 100, Height: 100}, 1, 100, sink)
	if err != nil {
		t.Fatalf("ConvertPage error: %v", err)
	}
	doc, err := sink.Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(doc.Texts) != 2 {
		t.Fatalf("texts = %+v, want 2 nodes", doc.Texts)
	}
}

type fakeTables struct{ structure TableStructure }

func (f fakeTables) Name() string { return "fake-tables" }
func (f fakeTables) RecognizeTable(ctx context.Context, img PageImage, region BBox) (TableStructure, error) {
	return f.structure, nil
}

func TestConvertPageWithTableCluster(t *testing.T) {
	layout := fakeLayout{clusters: []LayoutCluster{
		{ID: 1, Label: LayoutTable, Confidence: 0.9, BBox: BBox{0, 0, 100, 100}},
	}}
	tables := fakeTables{structure: TableStructure{
		NumRows: 1, NumCols: 1,
		Cells: []TableFormerCell{{Tag: CellTagFcel, Row: 0, Col: 0, Text: "cell", ColSpan: 1}},
	}}
	p := NewPipeline(layout, nil, nil, tables)
	sink := document.NewDocument("page")

	sink, err := p.ConvertPage(context.Background(), PageImage{Width: 100, Height: 100}, 1, 100, sink)
	if err != nil {
		t.Fatalf("ConvertPage error: %v", err)
	}
	doc, err := sink.Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(doc.Tables) != 1 {
		t.Fatalf("tables = %+v, want 1 table node", doc.Tables)
	}
}

func TestConvertPageUnassignedLinesSeedSyntheticCluster(t *testing.T) {
	layout := fakeLayout{clusters: []LayoutCluster{
		{ID: 1, Label: LayoutTitle, Confidence: 0.9, BBox: BBox{0, 0, 10, 10}},
	}}
	lines := fakeLines{polys: []TextPolygon{polyAt(500, 500)}}
	recognizer := fakeRecognizer{text: map[int]string{500: "Stray"}}

	p := NewPipeline(layout, lines, recognizer, nil)
	sink := document.NewDocument("page")

	sink, err := p.ConvertPage(context.Background(), PageImage{Width: 600, Height: 600}, 1, 600, sink)
	if err != nil {
		t.Fatalf("ConvertPage error: %v", err)
	}
	doc, err := sink.Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	found := false
	for _, tx := range doc.Texts {
		if tx.Text == "Stray" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected synthetic cluster to carry unassigned line text, got %+v", doc.Texts)
	}
}
