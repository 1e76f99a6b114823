package document

// TableCell is one logical cell replicated across every grid position its
// span covers (spec §3.3 invariant).
type TableCell struct {
	Text                string
	RowSpan, ColSpan    int
	StartRowOffsetIdx   int
	EndRowOffsetIdx     int
	StartColOffsetIdx   int
	EndColOffsetIdx     int
	ColumnHeader        bool
	RowHeader           bool
	BBox                *BoundingBox
	FromOCR             bool
	Confidence          *float64
}

// TableData is a fully expanded grid: serialization treats it as already
// expanded, so every grid position participating in a merged cell carries an
// identical copy (spec §3.3).
type TableData struct {
	NumRows int
	NumCols int
	Grid    [][]TableCell
}

// NewTableData validates and wraps a pre-built grid. It enforces the shape
// invariant from spec §4.1.4: grid.len() == num_rows and every row's width
// == num_cols, else ModelError::TableShape.
func NewTableData(numRows, numCols int, grid [][]TableCell) (TableData, error) {
	if len(grid) != numRows {
		return TableData{}, errTableShape("grid has wrong row count")
	}
	for _, row := range grid {
		if len(row) != numCols {
			return TableData{}, errTableShape("grid row has wrong column count")
		}
	}
	return TableData{NumRows: numRows, NumCols: numCols, Grid: grid}, nil
}

// PlaceSpan writes a logical cell spanning rowSpan x colSpan rows/cols with
// anchor (row0, col0) into grid, replicating text and span offsets into
// every covered position per spec §3.3's merged-cell invariant.
func PlaceSpan(grid [][]TableCell, row0, col0, rowSpan, colSpan int, cell TableCell) {
	if rowSpan < 1 {
		rowSpan = 1
	}
	if colSpan < 1 {
		colSpan = 1
	}
	cell.RowSpan = rowSpan
	cell.ColSpan = colSpan
	cell.StartRowOffsetIdx = row0
	cell.EndRowOffsetIdx = row0 + rowSpan
	cell.StartColOffsetIdx = col0
	cell.EndColOffsetIdx = col0 + colSpan
	for r := row0; r < row0+rowSpan && r < len(grid); r++ {
		for c := col0; c < col0+colSpan && c < len(grid[r]); c++ {
			grid[r][c] = cell
		}
	}
}
