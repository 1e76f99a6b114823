// Package tesseract adapts ocr.Engine to pdfpipeline.TextRecognizer, so the
// S2 text-recognition stage can run on the same gosseract-backed engine the
// rest of the module uses (ocr/tesseract).
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/docling-project/docling-go/ocr"
	ocrtesseract "github.com/docling-project/docling-go/ocr/tesseract"
	"github.com/docling-project/docling-go/pdfpipeline"
)

// Recognizer wraps an ocr.Engine so it satisfies pdfpipeline.TextRecognizer:
// each call crops the page raster to the polygon's bounding box, encodes it
// as PNG, and runs it through the wrapped engine.
type Recognizer struct {
	Engine ocr.Engine
}

// NewRecognizer wraps the module's default Tesseract engine.
func NewRecognizer() *Recognizer {
	return &Recognizer{Engine: ocrtesseract.NewTesseractEngine()}
}

func (r *Recognizer) Name() string { return r.Engine.Name() }

// RecognizeCrop implements pdfpipeline.TextRecognizer (spec §4.3.1 S2
// recognition half): crop the page raster to poly's axis-aligned bounding
// box, then recognize it as a standalone image.
func (r *Recognizer) RecognizeCrop(ctx context.Context, img pdfpipeline.PageImage, poly pdfpipeline.TextPolygon) (string, float64, error) {
	rect := poly.BoundingRect()
	encoded, err := encodeCrop(img, rect)
	if err != nil {
		return "", 0, fmt.Errorf("crop encode: %w", err)
	}
	result, err := r.Engine.Recognize(ctx, ocr.Input{Image: encoded, Format: ocr.ImageFormatPNG})
	if err != nil {
		return "", 0, err
	}
	conf := 0.0
	if len(result.Blocks) > 0 {
		conf = result.Blocks[0].Confidence
	}
	return result.PlainText, conf, nil
}

// encodeCrop turns a PageImage region into a standalone PNG payload. img.Pix
// is channel-last RGB (pdfpipeline.PageImage's contract).
func encodeCrop(img pdfpipeline.PageImage, rect pdfpipeline.BBox) ([]byte, error) {
	bounds := image.Rect(0, 0, img.Width, img.Height)
	crop := image.Rect(int(rect.L), int(rect.T), int(rect.R), int(rect.B)).Intersect(bounds)
	if crop.Empty() {
		return nil, fmt.Errorf("crop region %v outside page bounds %v", rect, bounds)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	for y := crop.Min.Y; y < crop.Max.Y; y++ {
		for x := crop.Min.X; x < crop.Max.X; x++ {
			off := (y*img.Width + x) * 3
			if off+2 >= len(img.Pix) {
				continue
			}
			rgba.Set(x-crop.Min.X, y-crop.Min.Y, rgbColor{img.Pix[off], img.Pix[off+1], img.Pix[off+2]})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type rgbColor struct{ r, g, b byte }

func (c rgbColor) RGBA() (r, g, b, a uint32) {
	return uint32(c.r) * 0x101, uint32(c.g) * 0x101, uint32(c.b) * 0x101, 0xffff
}
