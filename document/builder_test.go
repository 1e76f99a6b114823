package document

import "testing"

func TestBuilderAppendTextAndHeading(t *testing.T) {
	b := NewDocument("doc1")
	titleRef, b := b.AppendHeading("#/body", "Chapter One", 1, LayerBody)
	if titleRef != "#/texts/0" {
		t.Fatalf("unexpected ref: %s", titleRef)
	}
	_, b = b.AppendText("#/body", TextParagraph, "hello", LayerBody)
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(doc.Texts) != 2 {
		t.Fatalf("expected 2 text nodes, got %d", len(doc.Texts))
	}
	if doc.Texts[0].Level == nil || *doc.Texts[0].Level != 1 {
		t.Fatalf("expected heading level 1")
	}
	if len(doc.Body.Children) != 2 {
		t.Fatalf("expected body to have 2 children, got %d", len(doc.Body.Children))
	}
}

func TestBuilderInvalidParentFails(t *testing.T) {
	b := NewDocument("doc1")
	_, b = b.AppendText("#/texts/99", TextParagraph, "orphan", LayerBody)
	_, err := b.Build()
	if err == nil {
		t.Fatalf("expected InvalidParent error")
	}
	me, ok := err.(*ModelError)
	if !ok || me.Kind != "InvalidParent" {
		t.Fatalf("expected ModelError{Kind: InvalidParent}, got %#v", err)
	}
}

func TestBuilderListWithItems(t *testing.T) {
	b := NewDocument("doc1")
	listRef, b := b.AppendList("#/body", true, "", LayerBody)
	_, b = b.AppendListItem(listRef, "first", "1.", true, LayerBody)
	_, b = b.AppendListItem(listRef, "second", "2.", true, LayerBody)
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(doc.Groups) != 1 || doc.Groups[0].Label != GroupOrderedList {
		t.Fatalf("expected one ordered_list group")
	}
	if len(doc.Groups[0].Children) != 2 {
		t.Fatalf("expected 2 children under list, got %d", len(doc.Groups[0].Children))
	}
	if doc.Texts[0].Marker != "1." || doc.Texts[1].Marker != "2." {
		t.Fatalf("unexpected markers: %q %q", doc.Texts[0].Marker, doc.Texts[1].Marker)
	}
}

func TestBuilderTableAndPicture(t *testing.T) {
	b := NewDocument("doc1")
	grid := [][]TableCell{{{Text: "a"}, {Text: "b"}}}
	data, err := NewTableData(1, 2, grid)
	if err != nil {
		t.Fatalf("NewTableData() error = %v", err)
	}
	_, b = b.AppendTable("#/body", data, LayerBody)
	_, b = b.AppendPicture("#/body", PicturePicture, LayerBody)
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(doc.Tables) != 1 || len(doc.Pictures) != 1 {
		t.Fatalf("expected 1 table and 1 picture")
	}
	if len(doc.Body.Children) != 2 {
		t.Fatalf("expected 2 body children")
	}
}

func TestHeadingLevelClamped(t *testing.T) {
	b := NewDocument("doc1")
	_, b = b.AppendHeading("#/body", "too deep", 9, LayerBody)
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if *doc.Texts[0].Level != 6 {
		t.Fatalf("expected clamped level 6, got %d", *doc.Texts[0].Level)
	}
}
