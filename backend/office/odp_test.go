package office

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/document"
)

func buildOdpZip(t *testing.T, mimetype, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"mimetype":    mimetype,
		"content.xml": content,
	}
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const odpContentXML = `<?xml version="1.0"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
                          xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0"
                          xmlns:presentation="urn:oasis:names:tc:opendocument:xmlns:presentation:1.0"
                          xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
<office:body><office:presentation>
<draw:page draw:name="Introduction" presentation:transition-type="fade" presentation:transition-speed="fast">
<draw:frame><draw:text-box><text:p>Welcome aboard</text:p></draw:text-box></draw:frame>
</draw:page>
<draw:page draw:name="Details" presentation:duration="PT5S">
<draw:frame><draw:text-box>
<text:list><text:list-item><text:p>first point</text:p></text:list-item></text:list>
</draw:text-box></draw:frame>
</draw:page>
</office:presentation></office:body>
</office:document-content>`

func TestOdpDetectRequiresPresentationMimetype(t *testing.T) {
	data := buildOdpZip(t, "application/vnd.oasis.opendocument.presentation", odpContentXML)
	var be OdpBackend
	f, ok := be.Detect(data)
	if !ok || f != backend.FormatODP {
		t.Fatalf("expected FormatODP detection, got %v, %v", f, ok)
	}
}

func TestOdpDetectRejectsOtherMimetype(t *testing.T) {
	data := buildOdpZip(t, "application/vnd.oasis.opendocument.text", odpContentXML)
	var be OdpBackend
	_, ok := be.Detect(data)
	if ok {
		t.Fatalf("expected no detection for non-presentation mimetype")
	}
}

func TestOdpConvertEmitsSlideHeadingsAndText(t *testing.T) {
	data := buildOdpZip(t, "application/vnd.oasis.opendocument.presentation", odpContentXML)
	var be OdpBackend
	builder := document.NewDocument("deck.odp")
	if err := be.Convert("deck.odp", data, builder); err != nil {
		t.Fatalf("convert: %v", err)
	}
	doc, err := builder.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var headings []string
	var bodyTexts []string
	for _, tx := range doc.Texts {
		if tx.Label == document.TextSectionHeader {
			headings = append(headings, tx.Text)
		} else {
			bodyTexts = append(bodyTexts, tx.Text)
		}
	}
	if len(headings) != 2 || headings[0] != "Introduction" || headings[1] != "Details" {
		t.Fatalf("unexpected headings: %v", headings)
	}
	if len(bodyTexts) != 2 || bodyTexts[0] != "Welcome aboard" || bodyTexts[1] != "• first point" {
		t.Fatalf("unexpected body texts: %v", bodyTexts)
	}
}

func TestParseOdpSlideMetadataExtractsTransitionAndDuration(t *testing.T) {
	metas, err := ParseOdpSlideMetadata([]byte(odpContentXML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("expected 2 slide metadata entries, got %d", len(metas))
	}
	if metas[0].TransitionType != "fade" || metas[0].TransitionSpeed != "fast" {
		t.Fatalf("unexpected first slide metadata: %+v", metas[0])
	}
	if metas[1].Duration != "PT5S" {
		t.Fatalf("unexpected second slide duration: %+v", metas[1])
	}
}

func TestParseOdpSlideMetadataPrefersPresentationDurationOverSmil(t *testing.T) {
	xmlData := `<?xml version="1.0"?>
<office:document-content xmlns:office="o" xmlns:draw="d" xmlns:presentation="p" xmlns:smil="s">
<office:body><office:presentation>
<draw:page draw:name="Slide" presentation:duration="PT5S" smil:dur="3s">
<draw:frame/>
</draw:page>
</office:presentation></office:body>
</office:document-content>`
	metas, err := ParseOdpSlideMetadata([]byte(xmlData))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(metas) != 1 || metas[0].Duration != "PT5S" {
		t.Fatalf("expected presentation:duration to win, got %+v", metas)
	}
}
