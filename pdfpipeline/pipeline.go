package pdfpipeline

import (
	"context"
	"fmt"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/document"
	"github.com/docling-project/docling-go/observability"
	"github.com/docling-project/docling-go/readingorder"
	"github.com/docling-project/docling-go/recovery"
)

// Pipeline wires the per-page stages together (spec §4.3: raster → layout
// detection → OCR → cluster assignment → table structure → reading order →
// emission). Every stage is an injected interface; Pipeline itself only
// orchestrates, mirroring the teacher's ocr package split between provider
// interfaces and the call sites that use them.
type Pipeline struct {
	Layout     LayoutDetector
	Lines      TextLineDetector
	Recognizer TextRecognizer
	Tables     TableStructureModel // nil disables S4; table clusters emit as paragraphs of their line text

	NMSIoUThreshold  float64 // default 0.5 (spec §4.3.1 S1)
	ConfidenceThresh float64 // default 0.3 (spec §4.3.1 S1)

	Logger   observability.Logger // defaults to observability.NopLogger{}
	Recovery recovery.Strategy    // defaults to recovery.NewLenientStrategy() (spec §7)
}

// NewPipeline returns a Pipeline with the spec's default thresholds and the
// default lenient recovery policy (spec §7: stage failures become warnings
// plus degraded output, not whole-document aborts).
func NewPipeline(layout LayoutDetector, lines TextLineDetector, recognizer TextRecognizer, tables TableStructureModel) *Pipeline {
	return &Pipeline{
		Layout: layout, Lines: lines, Recognizer: recognizer, Tables: tables,
		NMSIoUThreshold: 0.5, ConfidenceThresh: 0.3,
		Logger: observability.NopLogger{}, Recovery: recovery.NewLenientStrategy(),
	}
}

func (p *Pipeline) logger() observability.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return observability.NopLogger{}
}

func (p *Pipeline) recoveryStrategy() recovery.Strategy {
	if p.Recovery != nil {
		return p.Recovery
	}
	return recovery.NewLenientStrategy()
}

// ConvertPage runs S1-S7 for one page and appends the resulting nodes to
// sink, reordered per Component E (spec §4.5). pageHeight is the page's
// height in the same units as img, used for the bottom_left conversion
// readingorder.Order requires.
func (p *Pipeline) ConvertPage(ctx context.Context, img PageImage, pageNo int, pageHeight float64, sink backend.Sink) (backend.Sink, error) {
	clusters, err := p.runLayout(ctx, img)
	if err != nil {
		return sink, fmt.Errorf("page %d layout detection: %w", pageNo, err)
	}

	lines, err := p.runOCR(ctx, img, pageNo)
	if err != nil {
		return sink, fmt.Errorf("page %d ocr: %w", pageNo, err)
	}

	assigned, unassigned := AssignLinesToClusters(clusters, lines)

	resolved := make([]ResolvedCluster, 0, len(clusters))
	for _, c := range clusters {
		rc := ResolvedCluster{Cluster: c, Lines: assigned[c.ID]}
		if c.Label == LayoutTable && p.Tables != nil {
			structure, err := p.Tables.RecognizeTable(ctx, img, c.BBox)
			if err != nil {
				p.reportTableFailure(pageNo, c.ID, err)
			} else if data, err := BuildTableData(structure); err != nil {
				p.reportTableFailure(pageNo, c.ID, err)
			} else {
				rc.Table = &data
			}
		}
		if (c.Label == LayoutPicture) && p.Recognizer != nil {
			rc.OCRText = concatLineText(rc.Lines)
		}
		resolved = append(resolved, rc)
	}

	// S3's disposition rule: unassigned lines seed a synthetic body-layer
	// text cluster; furniture-layer lines have no natural home here since a
	// layout detector never reports "furniture" as a cluster label on its
	// own, so every unassigned line is treated as body content.
	if len(unassigned) > 0 {
		resolved = append(resolved, ResolvedCluster{
			Cluster: LayoutCluster{ID: syntheticClusterID(clusters), Label: LayoutText, BBox: unionOfLines(unassigned)},
			Lines:   unassigned,
		})
	}

	return p.emit(resolved, pageNo, pageHeight, sink)
}

// runLayout calls S1, converts a RawLayoutDetector's logits to confidences
// with Sigmoid when ProducesRawLogits reports true (spec §4.3.1 S1), then
// applies NMS + the confidence filter.
func (p *Pipeline) runLayout(ctx context.Context, img PageImage) ([]LayoutCluster, error) {
	raw, err := p.Layout.Detect(ctx, img)
	if err != nil {
		return nil, err
	}
	if rd, ok := p.Layout.(RawLayoutDetector); ok && rd.ProducesRawLogits() {
		logits := make([]float64, len(raw))
		for i, c := range raw {
			logits[i] = c.Confidence
		}
		scored := append([]LayoutCluster(nil), raw...)
		for i, conf := range Sigmoid(logits) {
			scored[i].Confidence = conf
		}
		raw = scored
	}
	return NMS(raw, p.NMSIoUThreshold, p.ConfidenceThresh), nil
}

func (p *Pipeline) runOCR(ctx context.Context, img PageImage, pageNo int) ([]TextLine, error) {
	if p.Lines == nil || p.Recognizer == nil {
		return nil, nil
	}
	polys, err := p.Lines.DetectLines(ctx, img)
	if err != nil {
		return nil, err
	}
	lines := make([]TextLine, 0, len(polys))
	for i, poly := range polys {
		text, conf, err := p.Recognizer.RecognizeCrop(ctx, img, poly)
		if err != nil {
			// spec §4.3.3: OCR failure on a single region drops that
			// region's text; the cluster remains with empty text.
			detail := fmt.Sprintf("region-%d", i)
			action := p.recoveryStrategy().OnError(err, recovery.Location{Component: "pdfpipeline.ocr", Page: pageNo, Detail: detail})
			p.logger().Warn("ocr region recognition failed",
				observability.String("component", "pdfpipeline.ocr"),
				observability.Int("page", pageNo),
				observability.String("region", detail),
				observability.String("action", action.String()),
				observability.Error("error", err))
			if action == recovery.ActionSkip {
				continue
			}
			lines = append(lines, TextLine{Polygon: poly})
			continue
		}
		lines = append(lines, TextLine{Polygon: poly, Text: text, Confidence: conf})
	}
	return lines, nil
}

// reportTableFailure logs and consults the recovery policy for a failed
// table-structure recognition or assembly; the cluster falls back to plain
// text emission regardless of the policy's decision, since ConvertPage has
// no other representation for a table cluster once table recognition fails.
func (p *Pipeline) reportTableFailure(pageNo, clusterID int, err error) {
	detail := fmt.Sprintf("cluster-%d", clusterID)
	action := p.recoveryStrategy().OnError(err, recovery.Location{Component: "pdfpipeline.tables", Page: pageNo, Detail: detail})
	p.logger().Warn("table structure recognition failed",
		observability.String("component", "pdfpipeline.tables"),
		observability.Int("page", pageNo),
		observability.String("cluster", detail),
		observability.String("action", action.String()),
		observability.Error("error", err))
}

func concatLineText(lines []TextLine) string {
	s := ""
	for i, l := range lines {
		if i > 0 {
			s += " "
		}
		s += l.Text
	}
	return s
}

func syntheticClusterID(existing []LayoutCluster) int {
	maxID := -1
	for _, c := range existing {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	return maxID + 1
}

func unionOfLines(lines []TextLine) BBox {
	if len(lines) == 0 {
		return BBox{}
	}
	b := lines[0].Polygon.BoundingRect()
	for _, l := range lines[1:] {
		b = unionBBox(b, l.Polygon.BoundingRect())
	}
	return b
}

// emit is S6 (reading order) + S7 (typed-node emission): clusters are
// reordered by readingorder.Order, then each becomes a heading/paragraph/
// table/picture node (spec §4.3.1 S7): titles are level-1 headings and
// section headers level-2. No provenance (page number or bbox) is attached
// to the emitted nodes.
func (p *Pipeline) emit(resolved []ResolvedCluster, pageNo int, pageHeight float64, sink backend.Sink) (backend.Sink, error) {
	byID := make(map[string]ResolvedCluster, len(resolved))
	elements := make([]readingorder.Element, 0, len(resolved))
	for _, rc := range resolved {
		id := fmt.Sprintf("c%d", rc.Cluster.ID)
		byID[id] = rc
		elements = append(elements, readingorder.Element{
			ID:   id,
			Page: pageNo,
			BBox: document.BoundingBox{
				L: rc.Cluster.BBox.L, T: rc.Cluster.BBox.T, R: rc.Cluster.BBox.R, B: rc.Cluster.BBox.B,
				CoordOrigin: document.TopLeft,
			},
			PageHeight: pageHeight,
			IsHeader:   rc.Cluster.Label == LayoutPageHeader || rc.Cluster.Label == LayoutPageFooter,
		})
	}
	result := readingorder.Order(elements)

	for _, id := range result.Order {
		rc, ok := byID[id]
		if !ok {
			continue
		}
		sink = emitCluster(rc, pageNo, sink)
	}
	return sink, nil
}

func emitCluster(rc ResolvedCluster, pageNo int, sink backend.Sink) backend.Sink {
	text := concatLineText(rc.Lines)
	layer := document.LayerBody
	switch rc.Cluster.Label {
	case LayoutPageHeader:
		layer = document.LayerFurniture
	case LayoutPageFooter:
		layer = document.LayerFurniture
	}

	switch rc.Cluster.Label {
	case LayoutTitle:
		_, b := sink.AppendHeading("#/body", text, 1, layer)
		return b
	case LayoutSectionHeader:
		_, b := sink.AppendHeading("#/body", text, 2, layer)
		return b
	case LayoutTable:
		if rc.Table != nil {
			_, b := sink.AppendTable("#/body", *rc.Table, layer)
			return b
		}
		_, b := sink.AppendText("#/body", document.TextParagraph, text, layer)
		return b
	case LayoutPicture:
		ref, b := sink.AppendPicture("#/body", document.PicturePicture, layer)
		sink = b
		if rc.OCRText != "" {
			sink = sink.SetOCRText(ref, rc.OCRText)
		}
		return sink
	case LayoutFormula:
		_, b := sink.AppendText("#/body", document.TextFormula, text, layer)
		return b
	case LayoutCaption:
		_, b := sink.AppendText("#/body", document.TextCaption, text, layer)
		return b
	case LayoutFootnote:
		_, b := sink.AppendText("#/body", document.TextFootnote, text, layer)
		return b
	case LayoutPageHeader:
		_, b := sink.AppendText("#/body", document.TextPageHeader, text, layer)
		return b
	case LayoutPageFooter:
		_, b := sink.AppendText("#/body", document.TextPageFooter, text, layer)
		return b
	default:
		if text == "" {
			// spec §4.3.3: a cluster left without text still emits an
			// empty paragraph node rather than vanishing.
			_, b := sink.AppendText("#/body", document.TextParagraph, "", layer)
			return b
		}
		_, b := sink.AppendText("#/body", document.TextParagraph, text, layer)
		return b
	}
}
