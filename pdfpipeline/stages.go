package pdfpipeline

import "context"

// LayoutDetector is the S1 stage contract: a DocLayout-YOLO-family model
// returning zero or more LayoutClusters for a page raster. Mirrors
// ocr.Engine's one-call-in/one-result-out shape (ocr/types.go).
type LayoutDetector interface {
	Name() string
	Detect(ctx context.Context, img PageImage) ([]LayoutCluster, error)
}

// RawLayoutDetector is implemented by backends whose Detect may return
// unnormalized logits instead of calibrated confidences (spec §4.3.1 S1).
// When ProducesRawLogits reports true, Pipeline applies Sigmoid to every
// cluster's Confidence before NMS and the confidence filter.
type RawLayoutDetector interface {
	LayoutDetector
	ProducesRawLogits() bool
}

// TextLineDetector is the detection half of S2: polygon regions per text
// line, already unclip-expanded (spec §4.3.1 S2).
type TextLineDetector interface {
	Name() string
	DetectLines(ctx context.Context, img PageImage) ([]TextPolygon, error)
}

// TextRecognizer is the recognition half of S2: turns one polygon crop into
// (text, confidence). ocr.Engine.Recognize already implements exactly this
// contract against a cropped image (ocr/tesseract adapts it, see
// pdfpipeline/ocrbackend/tesseract).
type TextRecognizer interface {
	Name() string
	RecognizeCrop(ctx context.Context, img PageImage, poly TextPolygon) (text string, confidence float64, err error)
}

// TableStructureModel is the S4 stage contract: an autoregressive
// TableFormer-style decoder. The beam-search/sequence generation itself is
// stateful control flow the caller's model runtime owns; this interface
// only names the contract boundary (spec §4.3.1 S4).
type TableStructureModel interface {
	Name() string
	RecognizeTable(ctx context.Context, img PageImage, region BBox) (TableStructure, error)
}

// TableStructure is a TableFormer decode result before span-merge: one
// CellTag per predicted token plus its regressed bbox (spec §4.3.1 S4).
type TableStructure struct {
	Cells []TableFormerCell
	// MergeDirectives lists (start_idx, end_idx) pairs the decoder emitted
	// alongside the tag sequence (spec §4.3.1 S4 horizontal-span merge).
	MergeDirectives [][2]int
	NumRows, NumCols int
}

// CellTag is one of TableFormer's structural tokens (spec §4.3.1 S4).
type CellTag string

const (
	CellTagFcel CellTag = "fcel" // full (data) cell
	CellTagEcel CellTag = "ecel" // empty cell
	CellTagChed CellTag = "ched" // column header
	CellTagRhed CellTag = "rhed" // row header
	CellTagSrow CellTag = "srow" // spanning row marker
	CellTagNl   CellTag = "nl"   // newline / row boundary
)

// TableFormerCell is one predicted cell before merge. ColSpan starts at 1
// and is widened by ApplyMergeDirectives when a horizontal-span merge
// folds a following cell into this one.
type TableFormerCell struct {
	Tag      CellTag
	BBox     BBox
	Text     string
	Row, Col int
	ColSpan  int
}
