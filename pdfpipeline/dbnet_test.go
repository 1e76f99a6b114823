package pdfpipeline

import (
	"context"
	"testing"
)

func solidBlockProbMap(width, height, x0, y0, x1, y1 int) []byte {
	out := make([]byte, width*height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			out[y*width+x] = 200
		}
	}
	return out
}

func TestDBNetDetectorFindsSingleBlock(t *testing.T) {
	width, height := 20, 20
	probMap := solidBlockProbMap(width, height, 2, 2, 10, 6)
	det := NewDBNetDetector(func(ctx context.Context, img PageImage) ([]byte, int, int, error) {
		return probMap, width, height, nil
	})

	polys, err := det.DetectLines(context.Background(), PageImage{Width: width, Height: height})
	if err != nil {
		t.Fatalf("DetectLines error: %v", err)
	}
	if len(polys) != 1 {
		t.Fatalf("polys = %+v, want 1 region", polys)
	}
	rect := polys[0].BoundingRect()
	if rect.R-rect.L <= 0 || rect.B-rect.T <= 0 {
		t.Fatalf("expected a positive-area polygon, got %+v", rect)
	}
}

func TestDBNetDetectorUnclipExpandsBeyondRawBlock(t *testing.T) {
	width, height := 20, 20
	probMap := solidBlockProbMap(width, height, 5, 5, 10, 10)
	det := NewDBNetDetector(func(ctx context.Context, img PageImage) ([]byte, int, int, error) {
		return probMap, width, height, nil
	})

	polys, err := det.DetectLines(context.Background(), PageImage{Width: width, Height: height})
	if err != nil {
		t.Fatalf("DetectLines error: %v", err)
	}
	if len(polys) != 1 {
		t.Fatalf("polys = %+v, want 1 region", polys)
	}
	rect := polys[0].BoundingRect()
	// raw block is 5 wide (x in [5,10)); unclip must expand it.
	if rect.R-rect.L <= 5 {
		t.Fatalf("expected unclip expansion beyond raw block width 5, got %v", rect.R-rect.L)
	}
}

func TestDBNetDetectorDropsTinyNoise(t *testing.T) {
	width, height := 20, 20
	probMap := make([]byte, width*height)
	probMap[10*width+10] = 200 // single pixel, area 1 < MinAreaPixels default of 4
	det := NewDBNetDetector(func(ctx context.Context, img PageImage) ([]byte, int, int, error) {
		return probMap, width, height, nil
	})

	polys, err := det.DetectLines(context.Background(), PageImage{Width: width, Height: height})
	if err != nil {
		t.Fatalf("DetectLines error: %v", err)
	}
	if len(polys) != 0 {
		t.Fatalf("expected single-pixel noise dropped, got %+v", polys)
	}
}

func TestDBNetDetectorSeparatesDisjointBlocks(t *testing.T) {
	width, height := 30, 10
	probMap := make([]byte, width*height)
	for _, base := range []int{2, 20} {
		for y := 2; y < 8; y++ {
			for x := base; x < base+5; x++ {
				probMap[y*width+x] = 200
			}
		}
	}
	det := NewDBNetDetector(func(ctx context.Context, img PageImage) ([]byte, int, int, error) {
		return probMap, width, height, nil
	})

	polys, err := det.DetectLines(context.Background(), PageImage{Width: width, Height: height})
	if err != nil {
		t.Fatalf("DetectLines error: %v", err)
	}
	if len(polys) != 2 {
		t.Fatalf("polys = %+v, want 2 disjoint regions", polys)
	}
}
