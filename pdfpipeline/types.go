// Package pdfpipeline implements the page-level conversion pipeline (spec
// §4.3): raster → layout detection → OCR → cluster assignment → table
// structure → reading order → emission. Every model-backed stage is a Go
// interface, mirroring the teacher's ocr.Engine/ocr.BatchEngine pluggable-
// provider pattern (ocr/types.go), so the actual neural-network execution
// is supplied by the caller.
package pdfpipeline

import "github.com/docling-project/docling-go/document"

// LayoutLabel is one of the DocLayNet 11-class layout categories (spec
// §4.3.1 S1).
type LayoutLabel string

const (
	LayoutCaption      LayoutLabel = "caption"
	LayoutFootnote     LayoutLabel = "footnote"
	LayoutFormula      LayoutLabel = "formula"
	LayoutListItem     LayoutLabel = "list_item"
	LayoutPageFooter   LayoutLabel = "page_footer"
	LayoutPageHeader   LayoutLabel = "page_header"
	LayoutPicture      LayoutLabel = "picture"
	LayoutSectionHeader LayoutLabel = "section_header"
	LayoutTable        LayoutLabel = "table"
	LayoutText         LayoutLabel = "text"
	LayoutTitle        LayoutLabel = "title"
)

// BBox is an axis-aligned box with a top_left origin, as S1 reports it
// (spec §4.3.1).
type BBox struct {
	L, T, R, B float64
}

// LayoutCluster is one layout-detector output (spec §4.3.1 S1).
type LayoutCluster struct {
	ID         int
	Label      LayoutLabel
	Confidence float64
	BBox       BBox
}

// TextPolygon is the 4-point polygon an S2 text detector emits for one text
// region, as min-area-rotated-rectangle corners after unclip expansion
// (spec §4.3.1 S2).
type TextPolygon struct {
	Points [4][2]float64
}

// BoundingRect returns the polygon's axis-aligned bounding box.
func (p TextPolygon) BoundingRect() BBox {
	minX, minY := p.Points[0][0], p.Points[0][1]
	maxX, maxY := minX, minY
	for _, pt := range p.Points[1:] {
		if pt[0] < minX {
			minX = pt[0]
		}
		if pt[0] > maxX {
			maxX = pt[0]
		}
		if pt[1] < minY {
			minY = pt[1]
		}
		if pt[1] > maxY {
			maxY = pt[1]
		}
	}
	return BBox{L: minX, T: minY, R: maxX, B: maxY}
}

// TextLine is a recognized text region: its detected polygon plus the
// recognizer's (text, confidence) output (spec §4.3.1 S2).
type TextLine struct {
	Polygon    TextPolygon
	Text       string
	Confidence float64
}

// Center returns the polygon bounding rect's centroid, used by S3's
// point-in-cluster assignment test.
func (l TextLine) Center() (x, y float64) {
	r := l.Polygon.BoundingRect()
	return (r.L + r.R) / 2, (r.T + r.B) / 2
}

// PageImage is a decoded page raster, channel-last uint8 RGB (spec §4.3.1
// S1 input contract).
type PageImage struct {
	Width, Height int
	Pix           []byte // len == Width*Height*3
}

// Page is one page's full pipeline output: typed clusters with assigned
// text/table data and provenance, ready for S7 emission.
type Page struct {
	PageNo   int
	Clusters []ResolvedCluster
}

// ResolvedCluster is a LayoutCluster after S3/S4/S5 have attached its
// content.
type ResolvedCluster struct {
	Cluster   LayoutCluster
	Lines     []TextLine // assigned OCR lines, reading-order preserved
	Table     *document.TableData
	OCRText   string // S5: OCR text run over a picture/chart region
}
