package office

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/document"
)

// OdpBackend converts OpenDocument Presentation files (spec §6,
// SUPPLEMENTED FEATURES, grounded on docling-opendocument/src/odp.rs). Each
// draw:page becomes a "## <name>" heading followed by its paragraph text in
// document order.
type OdpBackend struct{}

func (OdpBackend) Supports(f backend.InputFormat) bool { return f == backend.FormatODP }

func (OdpBackend) Detect(data []byte) (backend.InputFormat, bool) {
	if !looksLikeZip(data) {
		return "", false
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil || !hasEntry(r, "content.xml") {
		return "", false
	}
	if mt, err := readZipEntry(r, "mimetype"); err == nil {
		if bytes.Contains(mt, []byte("opendocument.presentation")) {
			return backend.FormatODP, true
		}
		return "", false
	}
	return "", false
}

// OdpSlideMetadata carries the transition and timing attributes found on one
// draw:page element (docling-opendocument's SlideMetadata), for callers that
// want per-slide metadata beyond the flattened canonical tree.
type OdpSlideMetadata struct {
	Name            string
	TransitionType  string
	TransitionSpeed string
	Duration        string
}

func (OdpBackend) Convert(name string, data []byte, sink backend.Sink) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open odp %s as zip: %w", name, err)
	}
	contentBytes, err := readZipEntry(zr, "content.xml")
	if err != nil {
		return fmt.Errorf("read content.xml: %w", err)
	}
	metas, pages, err := parseODPContent(contentBytes)
	if err != nil {
		return fmt.Errorf("parse content.xml: %w", err)
	}

	for i, meta := range metas {
		title := meta.Name
		if title == "" {
			title = fmt.Sprintf("Slide %d", i+1)
		}
		ref, b := sink.AppendHeading("#/body", title, 2, document.LayerBody)
		sink = b
		_ = ref

		var paragraphs []string
		if i < len(pages) {
			paragraphs = pages[i]
		}
		for _, p := range paragraphs {
			_, b := sink.AppendText("#/body", document.TextParagraph, p, document.LayerBody)
			sink = b
		}
	}
	return nil
}

// ParseOdpSlideMetadata returns one OdpSlideMetadata per draw:page found in
// content.xml, in document order.
func ParseOdpSlideMetadata(contentXML []byte) ([]OdpSlideMetadata, error) {
	metas, _, err := parseODPContent(contentXML)
	return metas, err
}

// parseODPContent walks content.xml token by token, tracking draw:page
// boundaries, text:list nesting depth (for bullet markers), and paragraph
// text accumulation including text:s/tab/line-break substitutions and
// draw:image href references, mirroring the original parser's state
// machine. It returns per-page metadata and per-page paragraph text in
// document order.
func parseODPContent(data []byte) ([]OdpSlideMetadata, [][]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var metas []OdpSlideMetadata
	var pages [][]string
	var curParagraphs []string
	inParagraph := false
	listDepth := 0
	var textBuf strings.Builder

	flushParagraph := func() {
		text := strings.TrimSpace(textBuf.String())
		if text != "" {
			if listDepth > 0 {
				text = strings.Repeat("  ", listDepth-1) + "• " + text
			}
			curParagraphs = append(curParagraphs, text)
		}
		textBuf.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "page":
				if len(metas) > 0 {
					pages = append(pages, curParagraphs)
				}
				curParagraphs = nil
				var meta OdpSlideMetadata
				for _, a := range t.Attr {
					switch a.Name.Local {
					case "name":
						meta.Name = a.Value
					case "transition-type":
						meta.TransitionType = a.Value
					case "transition-speed":
						meta.TransitionSpeed = a.Value
					case "duration":
						meta.Duration = a.Value
					case "dur":
						if meta.Duration == "" {
							meta.Duration = a.Value
						}
					}
				}
				metas = append(metas, meta)
			case "list":
				listDepth++
			case "p":
				inParagraph = true
				textBuf.Reset()
			case "s":
				if inParagraph {
					textBuf.WriteByte(' ')
				}
			case "tab":
				if inParagraph {
					textBuf.WriteByte('\t')
				}
			case "line-break":
				if inParagraph {
					textBuf.WriteByte('\n')
				}
			case "image":
				for _, a := range t.Attr {
					if a.Name.Local == "href" {
						curParagraphs = append(curParagraphs, fmt.Sprintf("![Image](%s)", a.Value))
					}
				}
			}
		case xml.CharData:
			if inParagraph {
				textBuf.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inParagraph {
					flushParagraph()
					inParagraph = false
				}
			case "list":
				if listDepth > 0 {
					listDepth--
				}
			}
		}
	}
	if len(metas) > 0 {
		pages = append(pages, curParagraphs)
	}
	return metas, pages, nil
}
