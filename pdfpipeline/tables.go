package pdfpipeline

import "github.com/docling-project/docling-go/document"

// unionBBox returns the smallest bbox containing both a and b.
func unionBBox(a, b BBox) BBox {
	return BBox{
		L: min(a.L, b.L),
		T: min(a.T, b.T),
		R: max(a.R, b.R),
		B: max(a.B, b.B),
	}
}

// ApplyMergeDirectives replays TableFormer's horizontal-span merge step
// (spec §4.3.1 S4): for each (start_idx, end_idx) pair, the start cell's
// bbox becomes the union of the two boxes, the end cell is dropped, and the
// start cell's class/tag is kept. Operates on the flat predicted-cell slice
// before grid assembly.
func ApplyMergeDirectives(cells []TableFormerCell, directives [][2]int) []TableFormerCell {
	dropped := make(map[int]bool, len(directives))
	out := append([]TableFormerCell(nil), cells...)
	for i := range out {
		if out[i].ColSpan < 1 {
			out[i].ColSpan = 1
		}
	}
	for _, d := range directives {
		start, end := d[0], d[1]
		if start < 0 || start >= len(out) || end < 0 || end >= len(out) {
			continue
		}
		out[start].BBox = unionBBox(out[start].BBox, out[end].BBox)
		out[start].ColSpan = out[end].Col - out[start].Col + out[end].ColSpan
		dropped[end] = true
	}
	result := make([]TableFormerCell, 0, len(out))
	for i, c := range out {
		if !dropped[i] {
			result = append(result, c)
		}
	}
	return result
}

// BuildTableData assembles a TableStructure's merged cells into a fully
// expanded document.TableData grid (spec §3.3, §4.3.1 S4 output).
// TableFormerCell.Row/Col give each surviving cell's top-left anchor; from
// there a cell covers one row and ColSpan columns. Cells anchored outside
// the declared NumRows x NumCols grid are ignored.
func BuildTableData(structure TableStructure) (document.TableData, error) {
	merged := ApplyMergeDirectives(structure.Cells, structure.MergeDirectives)

	grid := make([][]document.TableCell, structure.NumRows)
	for r := range grid {
		grid[r] = make([]document.TableCell, structure.NumCols)
	}

	for _, c := range merged {
		if c.Row < 0 || c.Row >= structure.NumRows || c.Col < 0 || c.Col >= structure.NumCols {
			continue
		}
		cell := document.TableCell{
			Text:         c.Text,
			ColumnHeader: c.Tag == CellTagChed,
			RowHeader:    c.Tag == CellTagRhed,
		}
		colSpan := c.ColSpan
		if colSpan < 1 {
			colSpan = 1
		}
		document.PlaceSpan(grid, c.Row, c.Col, 1, colSpan, cell)
	}
	return document.NewTableData(structure.NumRows, structure.NumCols, grid)
}
