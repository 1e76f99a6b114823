package office

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/document"
)

func buildPptxZip(t *testing.T, slides map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range slides {
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

const slideXML = `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
<p:cSld><p:spTree><p:sp><p:txBody>
<a:p xmlns:a="a"><a:r><a:t>Hello there</a:t></a:r></a:p>
</p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`

func TestPptxDetectRecognizesSlideEntries(t *testing.T) {
	data := buildPptxZip(t, map[string]string{"ppt/slides/slide1.xml": slideXML})
	var be PptxBackend
	f, ok := be.Detect(data)
	if !ok || f != backend.FormatPPTX {
		t.Fatalf("expected FormatPPTX detection, got %v, %v", f, ok)
	}
}

func TestPptxConvertOrdersSlidesNumerically(t *testing.T) {
	data := buildPptxZip(t, map[string]string{
		"ppt/slides/slide2.xml": strings.Replace(slideXML, "Hello there", "second", 1),
		"ppt/slides/slide10.xml": strings.Replace(slideXML, "Hello there", "tenth", 1),
		"ppt/slides/slide1.xml": strings.Replace(slideXML, "Hello there", "first", 1),
	})
	var be PptxBackend
	builder := document.NewDocument("deck.pptx")
	if err := be.Convert("deck.pptx", data, builder); err != nil {
		t.Fatalf("convert: %v", err)
	}
	doc, err := builder.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var order []string
	for _, tx := range doc.Texts {
		order = append(order, tx.Text)
	}
	joined := strings.Join(order, "|")
	if strings.Index(joined, "first") > strings.Index(joined, "second") ||
		strings.Index(joined, "second") > strings.Index(joined, "tenth") {
		t.Fatalf("slides out of order: %v", order)
	}
}

func TestParseSlideTransitionReadsAttributes(t *testing.T) {
	xmlData := []byte(`<p:sld xmlns:p="p"><p:cSld><p:transition type="fade" spd="slow" dur="500"/></p:cSld></p:sld>`)
	tr, ok := ParseSlideTransition(xmlData)
	if !ok {
		t.Fatalf("expected transition to be found")
	}
	if tr.Type != "fade" || tr.Speed != "slow" || tr.Duration != "500" {
		t.Fatalf("unexpected transition: %+v", tr)
	}
}

func TestParseSlideTransitionAbsent(t *testing.T) {
	_, ok := ParseSlideTransition([]byte(`<p:sld xmlns:p="p"><p:cSld></p:cSld></p:sld>`))
	if ok {
		t.Fatalf("expected no transition to be found")
	}
}
