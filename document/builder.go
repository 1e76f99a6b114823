package document

import "fmt"

// CanonicalDocument is the root of the document tree: a body group plus flat,
// per-kind slices of every node, addressed by Ref (spec §3, §4.1.1).
//
// The fluent Builder below mirrors the teacher's builder.PDFBuilder: each
// Append* call returns *Builder so callers can chain, the way the teacher
// chains NewPage/AddPage/SetInfo/Build.
type CanonicalDocument struct {
	Name string

	Body  GroupNode
	Texts []TextNode
	Tables []TableNode
	Pictures []PictureNode
	Groups []GroupNode
	Inlines []InlineNode

	byRef map[Ref]bool // existence index for parent validation
}

// Builder constructs a CanonicalDocument one append at a time, assigning refs
// and validating parents as it goes (spec §4.1.1 contract).
type Builder struct {
	doc *CanonicalDocument
	err error
}

// NewDocument starts a new document with an empty body group at "#/body"
// (spec §4.1.1: new_document).
func NewDocument(name string) *Builder {
	doc := &CanonicalDocument{
		Name:  name,
		byRef: map[Ref]bool{"#/body": true},
	}
	doc.Body = GroupNode{base: base{self: "#/body", layer: LayerBody}, Label: GroupUnspecified}
	return &Builder{doc: doc}
}

// Build finalizes construction, returning the first error encountered during
// any Append* call, if any.
func (b *Builder) Build() (*CanonicalDocument, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.doc, nil
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) checkParent(parent Ref) error {
	if !b.doc.byRef[parent] {
		return errInvalidParent(parent)
	}
	return nil
}

func (b *Builder) addChild(parent, child Ref) {
	if parent == "#/body" {
		b.doc.Body.Children = append(b.doc.Body.Children, child)
		return
	}
	for i := range b.doc.Groups {
		if b.doc.Groups[i].self == parent {
			b.doc.Groups[i].Children = append(b.doc.Groups[i].Children, child)
			return
		}
	}
	for i := range b.doc.Inlines {
		if b.doc.Inlines[i].self == parent {
			b.doc.Inlines[i].Children = append(b.doc.Inlines[i].Children, child)
			return
		}
	}
	for i := range b.doc.Texts {
		if b.doc.Texts[i].self == parent {
			b.doc.Texts[i].Children = append(b.doc.Texts[i].Children, child)
			return
		}
	}
}

// AppendText appends a TextNode under parent (spec §4.1.1: append_text).
func (b *Builder) AppendText(parent Ref, label TextLabel, text string, layer ContentLayer) (Ref, *Builder) {
	if b.err != nil {
		return "", b
	}
	if err := b.checkParent(parent); err != nil {
		return "", b.fail(err)
	}
	ref := Ref(fmt.Sprintf("#/texts/%d", len(b.doc.Texts)))
	node := TextNode{
		base: base{self: ref, parent: parent, layer: layer},
		Label: label,
		Orig:  text,
		Text:  text,
	}
	b.doc.Texts = append(b.doc.Texts, node)
	b.doc.byRef[ref] = true
	b.addChild(parent, ref)
	return ref, b
}

// SetFormatting updates an already-appended text node's Formatting in place.
// It is a no-op if ref does not name a text node, since formatting is purely
// cosmetic and backends may call it speculatively after AppendText.
func (b *Builder) SetFormatting(ref Ref, f Formatting) *Builder {
	if b.err != nil {
		return b
	}
	for i := range b.doc.Texts {
		if b.doc.Texts[i].self == ref {
			b.doc.Texts[i].Formatting = f
			break
		}
	}
	return b
}

// SetCodeLanguage updates an already-appended text node's CodeLanguage in
// place, the way SetFormatting updates Formatting after the fact.
func (b *Builder) SetCodeLanguage(ref Ref, lang string) *Builder {
	if b.err != nil {
		return b
	}
	for i := range b.doc.Texts {
		if b.doc.Texts[i].self == ref {
			b.doc.Texts[i].CodeLanguage = lang
			break
		}
	}
	return b
}

// AppendHeading appends a section_header text node, clamping level to 1..=6
// (spec §4.1.1 edge case).
func (b *Builder) AppendHeading(parent Ref, text string, level int, layer ContentLayer) (Ref, *Builder) {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	ref, bb := b.AppendText(parent, TextSectionHeader, text, layer)
	if bb.err != nil {
		return ref, bb
	}
	bb.doc.Texts[len(bb.doc.Texts)-1].Level = &level
	return ref, bb
}

// AppendList appends a group node labeled list or ordered_list, the
// container that AppendListItem children attach to (spec §4.1.1,
// §3.4).
func (b *Builder) AppendList(parent Ref, ordered bool, name string, layer ContentLayer) (Ref, *Builder) {
	if b.err != nil {
		return "", b
	}
	if err := b.checkParent(parent); err != nil {
		return "", b.fail(err)
	}
	label := GroupList
	if ordered {
		label = GroupOrderedList
	}
	ref := Ref(fmt.Sprintf("#/groups/%d", len(b.doc.Groups)))
	node := GroupNode{
		base: base{self: ref, parent: parent, layer: layer},
		Name: name,
		Label: label,
	}
	b.doc.Groups = append(b.doc.Groups, node)
	b.doc.byRef[ref] = true
	b.addChild(parent, ref)
	return ref, b
}

// AppendListItem appends a list_item text node under a list group, with an
// already-rendered marker (spec §4.1.1, §4.2.2).
func (b *Builder) AppendListItem(parent Ref, text, marker string, enumerated bool, layer ContentLayer) (Ref, *Builder) {
	ref, bb := b.AppendText(parent, TextListItem, text, layer)
	if bb.err != nil {
		return ref, bb
	}
	bb.doc.Texts[len(bb.doc.Texts)-1].Marker = marker
	bb.doc.Texts[len(bb.doc.Texts)-1].Enumerated = enumerated
	return ref, bb
}

// AppendTable appends a TableNode under parent (spec §4.1.1, §3.3).
func (b *Builder) AppendTable(parent Ref, data TableData, layer ContentLayer) (Ref, *Builder) {
	if b.err != nil {
		return "", b
	}
	if err := b.checkParent(parent); err != nil {
		return "", b.fail(err)
	}
	ref := Ref(fmt.Sprintf("#/tables/%d", len(b.doc.Tables)))
	node := TableNode{base: base{self: ref, parent: parent, layer: layer}, Data: data}
	b.doc.Tables = append(b.doc.Tables, node)
	b.doc.byRef[ref] = true
	b.addChild(parent, ref)
	return ref, b
}

// AppendPicture appends a PictureNode under parent (spec §4.1.1, §3.1).
func (b *Builder) AppendPicture(parent Ref, label PictureLabel, layer ContentLayer) (Ref, *Builder) {
	if b.err != nil {
		return "", b
	}
	if err := b.checkParent(parent); err != nil {
		return "", b.fail(err)
	}
	ref := Ref(fmt.Sprintf("#/pictures/%d", len(b.doc.Pictures)))
	node := PictureNode{base: base{self: ref, parent: parent, layer: layer}, Label: label}
	b.doc.Pictures = append(b.doc.Pictures, node)
	b.doc.byRef[ref] = true
	b.addChild(parent, ref)
	return ref, b
}

// SetOCRText updates an already-appended picture node's OCRText in place,
// the way SetFormatting updates a text node's Formatting after the fact
// (spec §4.3.1 S5: figure OCR is attached after the picture node exists).
func (b *Builder) SetOCRText(ref Ref, text string) *Builder {
	if b.err != nil {
		return b
	}
	for i := range b.doc.Pictures {
		if b.doc.Pictures[i].self == ref {
			b.doc.Pictures[i].OCRText = text
			break
		}
	}
	return b
}

// AppendGroup appends a plain grouping container, e.g. for a transparent
// wrapper or a kv_area/form_area region (spec §3.1).
func (b *Builder) AppendGroup(parent Ref, label GroupLabel, name string, layer ContentLayer) (Ref, *Builder) {
	if b.err != nil {
		return "", b
	}
	if err := b.checkParent(parent); err != nil {
		return "", b.fail(err)
	}
	ref := Ref(fmt.Sprintf("#/groups/%d", len(b.doc.Groups)))
	node := GroupNode{base: base{self: ref, parent: parent, layer: layer}, Name: name, Label: label}
	b.doc.Groups = append(b.doc.Groups, node)
	b.doc.byRef[ref] = true
	b.addChild(parent, ref)
	return ref, b
}

// AppendInline appends an inline grouping container, rendered as its
// children concatenated with single spaces (spec §3.1).
func (b *Builder) AppendInline(parent Ref, layer ContentLayer) (Ref, *Builder) {
	if b.err != nil {
		return "", b
	}
	if err := b.checkParent(parent); err != nil {
		return "", b.fail(err)
	}
	ref := Ref(fmt.Sprintf("#/inlines/%d", len(b.doc.Inlines)))
	node := InlineNode{base: base{self: ref, parent: parent, layer: layer}}
	b.doc.Inlines = append(b.doc.Inlines, node)
	b.doc.byRef[ref] = true
	b.addChild(parent, ref)
	return ref, b
}

// Resolve looks up a node by Ref across every kind-specific slice.
func (d *CanonicalDocument) Resolve(ref Ref) (Node, bool) {
	if ref == "#/body" {
		return d.Body, true
	}
	for i := range d.Texts {
		if d.Texts[i].self == ref {
			return d.Texts[i], true
		}
	}
	for i := range d.Tables {
		if d.Tables[i].self == ref {
			return d.Tables[i], true
		}
	}
	for i := range d.Pictures {
		if d.Pictures[i].self == ref {
			return d.Pictures[i], true
		}
	}
	for i := range d.Groups {
		if d.Groups[i].self == ref {
			return d.Groups[i], true
		}
	}
	for i := range d.Inlines {
		if d.Inlines[i].self == ref {
			return d.Inlines[i], true
		}
	}
	return nil, false
}
