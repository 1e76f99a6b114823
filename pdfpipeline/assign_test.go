package pdfpipeline

import "testing"

func lineAt(x, y float64) TextLine {
	return TextLine{Polygon: TextPolygon{Points: [4][2]float64{
		{x - 1, y - 1}, {x + 1, y - 1}, {x + 1, y + 1}, {x - 1, y + 1},
	}}}
}

func TestAssignLinesToClustersByCenter(t *testing.T) {
	clusters := []LayoutCluster{
		{ID: 1, BBox: BBox{0, 0, 10, 10}},
		{ID: 2, BBox: BBox{20, 20, 30, 30}},
	}
	lines := []TextLine{lineAt(5, 5), lineAt(25, 25), lineAt(100, 100)}
	assigned, unassigned := AssignLinesToClusters(clusters, lines)
	if len(assigned[1]) != 1 || len(assigned[2]) != 1 {
		t.Fatalf("assigned = %+v, want one line per cluster", assigned)
	}
	if len(unassigned) != 1 {
		t.Fatalf("unassigned = %+v, want 1 line", unassigned)
	}
}

func TestAssignLinesToClustersByOverlap(t *testing.T) {
	clusters := []LayoutCluster{{ID: 1, BBox: BBox{0, 0, 10, 10}}}
	line := TextLine{Polygon: TextPolygon{Points: [4][2]float64{
		{8, 8}, {12, 8}, {12, 12}, {8, 12},
	}}}
	assigned, unassigned := AssignLinesToClusters(clusters, []TextLine{line})
	if len(assigned[1]) != 1 {
		t.Fatalf("expected line assigned via overlap, got assigned=%+v unassigned=%+v", assigned, unassigned)
	}
}

func TestAssignLinesToClustersPreservesOrder(t *testing.T) {
	clusters := []LayoutCluster{{ID: 1, BBox: BBox{0, 0, 100, 100}}}
	first := lineAt(1, 1)
	first.Text = "first"
	second := lineAt(2, 2)
	second.Text = "second"
	assigned, _ := AssignLinesToClusters(clusters, []TextLine{first, second})
	if len(assigned[1]) != 2 || assigned[1][0].Text != "first" || assigned[1][1].Text != "second" {
		t.Fatalf("order not preserved: %+v", assigned[1])
	}
}
