package office

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/document"
)

// PptxBackend converts PowerPoint presentations (spec §4.2.1). Slides are
// read in slide-number order; each becomes a level-2 "Slide N" heading
// followed by one paragraph per non-blank text paragraph, all directly under
// the body. No per-slide group is created, and slide names and transition
// metadata are not added to the document (ParseSlideTransition reads a
// slide's transition separately).
type PptxBackend struct{}

func (PptxBackend) Supports(f backend.InputFormat) bool { return f == backend.FormatPPTX }

func (PptxBackend) Detect(data []byte) (backend.InputFormat, bool) {
	if looksLikeZip(data) {
		if r, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err == nil {
			for _, f := range r.File {
				if strings.HasPrefix(f.Name, "ppt/slides/slide") {
					return backend.FormatPPTX, true
				}
			}
		}
	}
	return "", false
}

type pSld struct {
	Shapes []pSp `xml:"cSld>spTree>sp"`
}

type pSp struct {
	TxBody *pTxBody `xml:"txBody"`
}

type pTxBody struct {
	Paragraphs []pPara `xml:"p"`
}

type pPara struct {
	Runs []pRun `xml:"r"`
}

type pRun struct {
	Text string `xml:"t"`
}

func (PptxBackend) Convert(name string, data []byte, sink backend.Sink) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open pptx %s as zip: %w", name, err)
	}

	var slideNames []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slideNames = append(slideNames, f.Name)
		}
	}
	sort.Slice(slideNames, func(i, j int) bool { return slideOrdinal(slideNames[i]) < slideOrdinal(slideNames[j]) })

	for idx, slideName := range slideNames {
		slideBytes, err := readZipEntry(zr, slideName)
		if err != nil {
			return fmt.Errorf("read %s: %w", slideName, err)
		}
		var slide pSld
		if err := xml.Unmarshal(slideBytes, &slide); err != nil {
			return fmt.Errorf("parse %s: %w", slideName, err)
		}

		title := fmt.Sprintf("Slide %d", idx+1)
		ref, b := sink.AppendHeading("#/body", title, 2, document.LayerBody)
		sink = b
		_ = ref

		for _, shape := range slide.Shapes {
			if shape.TxBody == nil {
				continue
			}
			for _, para := range shape.TxBody.Paragraphs {
				var text strings.Builder
				for _, run := range para.Runs {
					text.WriteString(run.Text)
				}
				if strings.TrimSpace(text.String()) == "" {
					continue
				}
				_, b := sink.AppendText("#/body", document.TextParagraph, text.String(), document.LayerBody)
				sink = b
			}
		}
	}
	return nil
}

// slideOrdinal extracts the numeric suffix of "ppt/slides/slideN.xml" so
// slides sort in presentation order rather than lexical zip order.
func slideOrdinal(name string) int {
	base := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
	n, err := strconv.Atoi(base)
	if err != nil {
		return 0
	}
	return n
}

// SlideTransition carries the transition metadata spec §4.2.1 names
// (type/speed/duration); consumed only when a caller asks the backend for
// slide-level metadata rather than the flattened canonical tree.
type SlideTransition struct {
	Type     string
	Speed    string
	Duration string
}

// ParseSlideTransition reads the transition element attributes used by
// OOXML presentations for a single slide XML part, matching the same
// field names ODP uses in content.xml (spec §6, §4.2.1).
func ParseSlideTransition(slideBytes []byte) (SlideTransition, bool) {
	type transitionXML struct {
		Type  string `xml:"type,attr"`
		Speed string `xml:"spd,attr"`
		Dur   string `xml:"dur,attr"`
	}
	type sldXML struct {
		Transition *transitionXML `xml:"cSld>transition"`
	}
	var s sldXML
	if err := xml.Unmarshal(slideBytes, &s); err != nil || s.Transition == nil {
		return SlideTransition{}, false
	}
	return SlideTransition{Type: s.Transition.Type, Speed: s.Transition.Speed, Duration: s.Transition.Dur}, true
}
