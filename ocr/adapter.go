package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// InputOption mutates an OCR input before it is submitted to an Engine.
type InputOption func(*Input)

// WithLanguages sets language hints on the OCR input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithRegion sets the recognition region on the OCR input.
func WithRegion(region Region) InputOption {
	return func(in *Input) {
		if region.IsEmpty() {
			in.Region = nil
			return
		}
		in.Region = &region
	}
}

// WithDPI overrides the DPI value on the OCR input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithMetadata sets provider-specific metadata for the input.
func WithMetadata(metadata map[string]string) InputOption {
	return func(in *Input) {
		if len(metadata) == 0 {
			in.Metadata = nil
			return
		}
		in.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			in.Metadata[k] = v
		}
	}
}

// NewInputFromImage PNG-encodes img and wraps it as an OCR Input scoped to
// pageIndex. id should be stable across runs for the same source region
// (e.g. "page-3-cluster-5") so results can be correlated back to the layout
// cluster or picture node that produced the crop (§4.3.1 S2/S5).
func NewInputFromImage(id string, pageIndex int, img image.Image, opts ...InputOption) (Input, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Input{}, fmt.Errorf("encode image for ocr input %s: %w", id, err)
	}
	in := Input{
		ID:        id,
		Image:     buf.Bytes(),
		Format:    ImageFormatPNG,
		PageIndex: pageIndex,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in, nil
}
