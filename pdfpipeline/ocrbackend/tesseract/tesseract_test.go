package tesseract

import (
	"context"
	"testing"

	"github.com/docling-project/docling-go/ocr"
	"github.com/docling-project/docling-go/pdfpipeline"
)

type fakeEngine struct {
	lastInput ocr.Input
}

func (f *fakeEngine) Name() string { return "fake" }
func (f *fakeEngine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	f.lastInput = in
	return ocr.Result{
		PlainText: "hello",
		Blocks:    []ocr.TextBlock{{Text: "hello", Confidence: 0.87}},
	}, nil
}

func TestRecognizeCropEncodesRegionAndReturnsText(t *testing.T) {
	fake := &fakeEngine{}
	r := &Recognizer{Engine: fake}

	img := pdfpipeline.PageImage{Width: 4, Height: 4, Pix: make([]byte, 4*4*3)}
	poly := pdfpipeline.TextPolygon{Points: [4][2]float64{{0, 0}, {2, 0}, {2, 2}, {0, 2}}}

	text, conf, err := r.RecognizeCrop(context.Background(), img, poly)
	if err != nil {
		t.Fatalf("RecognizeCrop error: %v", err)
	}
	if text != "hello" || conf != 0.87 {
		t.Fatalf("got (%q, %v), want (\"hello\", 0.87)", text, conf)
	}
	if fake.lastInput.Format != ocr.ImageFormatPNG || len(fake.lastInput.Image) == 0 {
		t.Fatalf("expected PNG payload forwarded, got %+v", fake.lastInput)
	}
}

func TestRecognizeCropRejectsOutOfBoundsRegion(t *testing.T) {
	r := &Recognizer{Engine: &fakeEngine{}}
	img := pdfpipeline.PageImage{Width: 2, Height: 2, Pix: make([]byte, 2*2*3)}
	poly := pdfpipeline.TextPolygon{Points: [4][2]float64{{10, 10}, {12, 10}, {12, 12}, {10, 12}}}
	if _, _, err := r.RecognizeCrop(context.Background(), img, poly); err == nil {
		t.Fatalf("expected error for out-of-bounds crop region")
	}
}
