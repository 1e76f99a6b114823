package pdfpipeline

import "testing"

func TestApplyMergeDirectivesWidensColSpan(t *testing.T) {
	cells := []TableFormerCell{
		{Tag: CellTagFcel, Row: 0, Col: 0, Text: "a", BBox: BBox{0, 0, 10, 10}},
		{Tag: CellTagFcel, Row: 0, Col: 1, Text: "b", BBox: BBox{10, 0, 20, 10}},
	}
	merged := ApplyMergeDirectives(cells, [][2]int{{0, 1}})
	if len(merged) != 1 {
		t.Fatalf("merged = %+v, want 1 surviving cell", merged)
	}
	if merged[0].ColSpan != 2 {
		t.Fatalf("ColSpan = %d, want 2", merged[0].ColSpan)
	}
	if merged[0].BBox.R != 20 {
		t.Fatalf("merged bbox = %+v, want R=20", merged[0].BBox)
	}
}

func TestApplyMergeDirectivesChained(t *testing.T) {
	cells := []TableFormerCell{
		{Row: 0, Col: 0, BBox: BBox{0, 0, 10, 10}},
		{Row: 0, Col: 1, BBox: BBox{10, 0, 20, 10}},
		{Row: 0, Col: 2, BBox: BBox{20, 0, 30, 10}},
	}
	merged := ApplyMergeDirectives(cells, [][2]int{{0, 1}, {0, 2}})
	if len(merged) != 1 {
		t.Fatalf("merged = %+v, want 1 surviving cell", merged)
	}
	if merged[0].ColSpan != 3 {
		t.Fatalf("ColSpan = %d, want 3 for chained merge", merged[0].ColSpan)
	}
}

func TestBuildTableDataPlacesSpans(t *testing.T) {
	structure := TableStructure{
		NumRows: 1,
		NumCols: 3,
		Cells: []TableFormerCell{
			{Tag: CellTagChed, Row: 0, Col: 0, Text: "h1", ColSpan: 1},
			{Tag: CellTagChed, Row: 0, Col: 1, Text: "h2", ColSpan: 2},
		},
	}
	data, err := BuildTableData(structure)
	if err != nil {
		t.Fatalf("BuildTableData error: %v", err)
	}
	if data.NumRows != 1 || data.NumCols != 3 {
		t.Fatalf("grid dims = %dx%d, want 1x3", data.NumRows, data.NumCols)
	}
}

func TestUnionBBox(t *testing.T) {
	a := BBox{0, 0, 5, 5}
	b := BBox{3, 3, 10, 10}
	u := unionBBox(a, b)
	if u.L != 0 || u.T != 0 || u.R != 10 || u.B != 10 {
		t.Fatalf("union = %+v, want {0,0,10,10}", u)
	}
}
