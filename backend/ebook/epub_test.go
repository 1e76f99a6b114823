package ebook

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/document"
)

func buildEpubZip(t *testing.T) []byte {
	t.Helper()
	files := map[string]string{
		"mimetype": "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?>
<container><rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`,
		"OEBPS/content.opf": `<?xml version="1.0"?>
<package><metadata><title>A Short Story</title><creator>Jane Doe</creator></metadata>
<manifest>
<item id="ch1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
<item id="ch2" href="chapter2.xhtml" media-type="application/xhtml+xml"/>
</manifest>
<spine><itemref idref="ch1"/><itemref idref="ch2"/></spine>
</package>`,
		"OEBPS/chapter1.xhtml": `<html><body><h1>Chapter One</h1><p>It was a dark night.</p></body></html>`,
		"OEBPS/chapter2.xhtml": `<html><body><h1>Chapter Two</h1><p>The morning came.</p></body></html>`,
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestEpubDetectRequiresEpubMimetype(t *testing.T) {
	data := buildEpubZip(t)
	var be EpubBackend
	f, ok := be.Detect(data)
	if !ok || f != backend.FormatEPUB {
		t.Fatalf("expected FormatEPUB detection, got %v, %v", f, ok)
	}
}

func TestEpubConvertWalksSpineInOrder(t *testing.T) {
	data := buildEpubZip(t)
	var be EpubBackend
	builder := document.NewDocument("story.epub")
	if err := be.Convert("story.epub", data, builder); err != nil {
		t.Fatalf("convert: %v", err)
	}
	doc, err := builder.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var texts []string
	for _, tx := range doc.Texts {
		texts = append(texts, tx.Text)
	}
	expectOrder := []string{"A Short Story", "by Jane Doe", "Chapter One", "It was a dark night.", "Chapter Two", "The morning came."}
	if len(texts) != len(expectOrder) {
		t.Fatalf("expected %d text nodes, got %d: %v", len(expectOrder), len(texts), texts)
	}
	for i, want := range expectOrder {
		if texts[i] != want {
			t.Fatalf("text[%d] = %q, want %q", i, texts[i], want)
		}
	}
}
