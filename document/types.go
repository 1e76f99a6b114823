// Package document implements the canonical document model (spec §3, §4.1):
// a tree of typed nodes plus flat per-kind arrays that every format backend
// populates, and its deterministic markdown/JSON projections.
//
// The shape — flat typed slices addressed by JSON-pointer-style self
// references, rather than a single heap of boxed/interface nodes — mirrors
// the teacher's ir/semantic.Document, which keeps Pages/Outlines/Articles as
// separate typed slices off one root struct instead of a single polymorphic
// tree.
package document

import "fmt"

// ContentLayer classifies a node's visibility/role outside the main body
// flow (spec §3.1).
type ContentLayer string

const (
	LayerBody      ContentLayer = "body"
	LayerFurniture ContentLayer = "furniture"
	LayerBackground ContentLayer = "background"
	LayerInvisible ContentLayer = "invisible"
	LayerNotes     ContentLayer = "notes"
)

// CoordOrigin identifies which corner a BoundingBox's (l, t, r, b) are
// measured from (spec §3.2).
type CoordOrigin string

const (
	TopLeft    CoordOrigin = "top_left"
	BottomLeft CoordOrigin = "bottom_left"
)

// BoundingBox is an axis-aligned box in page or image space. The invariant
// (spec §3.2) is: under BottomLeft, t > b (t is the upper edge); under
// TopLeft, t < b.
type BoundingBox struct {
	L, T, R, B  float64
	CoordOrigin CoordOrigin `json:"coord_origin"`
}

// ToOrigin converts the box to the requested origin given the page height,
// per spec §3.2: t' = page_height - t (and equivalently for b). Converting
// twice with the same pageHeight is involutive (spec §8 boundary behavior).
func (b BoundingBox) ToOrigin(target CoordOrigin, pageHeight float64) BoundingBox {
	if b.CoordOrigin == target {
		return b
	}
	return BoundingBox{
		L:           b.L,
		R:           b.R,
		T:           pageHeight - b.T,
		B:           pageHeight - b.B,
		CoordOrigin: target,
	}
}

// Width and Height are origin-agnostic since L<R always and the T/B ordering
// convention is origin-specific (see BoundingBox).
func (b BoundingBox) Width() float64 { return b.R - b.L }

func (b BoundingBox) Height() float64 {
	if b.CoordOrigin == BottomLeft {
		return b.T - b.B
	}
	return b.B - b.T
}

// CharSpan is a half-open [Start, End) character offset range into a
// backend-specific source text stream.
type CharSpan struct {
	Start, End int
}

// Provenance links a content node back to its source location (spec §3.2).
type Provenance struct {
	PageNo   int // 0-indexed
	BBox     BoundingBox
	CharSpan CharSpan
}

// Ref is a JSON-Pointer-style (RFC 6901) path identifying a node within a
// CanonicalDocument, e.g. "#/texts/0", "#/tables/2", "#/body". Refs are
// non-owning, lookup-only identifiers assigned once at append time and never
// change afterwards (spec §4.1.1 contract).
type Ref string

// GroupLabel classifies a Group node (spec §3.1).
type GroupLabel string

const (
	GroupUnspecified GroupLabel = "unspecified"
	GroupList        GroupLabel = "list"
	GroupOrderedList GroupLabel = "ordered_list"
	GroupInline      GroupLabel = "inline"
	GroupKVArea      GroupLabel = "kv_area"
	GroupFormArea    GroupLabel = "form_area"
)

// TextLabel classifies a Text node (spec §3.1).
type TextLabel string

const (
	TextTitle         TextLabel = "title"
	TextSectionHeader TextLabel = "section_header"
	TextParagraph     TextLabel = "paragraph"
	TextCaption       TextLabel = "caption"
	TextFootnote      TextLabel = "footnote"
	TextPageHeader    TextLabel = "page_header"
	TextPageFooter    TextLabel = "page_footer"
	TextCode          TextLabel = "code"
	TextFormula       TextLabel = "formula"
	TextListItem      TextLabel = "list_item"
	TextReference     TextLabel = "reference"
)

// PictureLabel classifies a Picture node (spec §3.1).
type PictureLabel string

const (
	PicturePicture PictureLabel = "picture"
	PictureChart   PictureLabel = "chart"
)

// Formatting carries inline style flags and an optional hyperlink target.
type Formatting struct {
	IsBold      bool
	IsItalic    bool
	IsUnderline bool
	Strikethrough bool
	Hyperlink   string
}

// Node is the common interface satisfied by every node kind. Self is the
// node's own Ref, assigned by the builder at append time (spec §4.1.1).
type Node interface {
	Self() Ref
	Parent() Ref
	Layer() ContentLayer
}

type base struct {
	self   Ref
	parent Ref
	layer  ContentLayer
}

func (b base) Self() Ref          { return b.self }
func (b base) Parent() Ref        { return b.parent }
func (b base) Layer() ContentLayer {
	if b.layer == "" {
		return LayerBody
	}
	return b.layer
}

// GroupNode is a transparent or semantic grouping container (spec §3.1).
type GroupNode struct {
	base
	Name     string
	Label    GroupLabel
	Children []Ref
}

// TextNode is a run of text with a semantic label (spec §3.1).
type TextNode struct {
	base
	Label        TextLabel
	Orig         string
	Text         string
	Level        *int // heading level, 1..=6, only for section_header
	Enumerated   bool
	Marker       string
	CodeLanguage string
	Formatting   Formatting
	Prov         []Provenance
	Children     []Ref // only meaningful when Label == list_item and item has inline children
}

// TableNode wraps TableData with captions and provenance (spec §3.1, §3.3).
type TableNode struct {
	base
	Data     TableData
	Prov     []Provenance
	Captions []Ref
}

// PictureNode represents an image or chart region (spec §3.1).
type PictureNode struct {
	base
	Label       PictureLabel
	Prov        []Provenance
	Captions    []Ref
	Annotations []string
	OCRText     string
}

// InlineNode is a transparent grouping whose children render concatenated
// with single-space separators (spec §3.1).
type InlineNode struct {
	base
	Children []Ref
}

// ModelError is the builder's error taxonomy (spec §4.1.4).
type ModelError struct {
	Kind string
	Msg  string
}

func (e *ModelError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

func errInvalidParent(ref Ref) error {
	return &ModelError{Kind: "InvalidParent", Msg: fmt.Sprintf("parent %q does not exist", ref)}
}

func errTableShape(msg string) error {
	return &ModelError{Kind: "TableShape", Msg: msg}
}
