package pdfpipeline

import "context"

// ProbabilityMapFunc supplies a DBNet-style per-pixel text-probability map
// for a page raster, scaled to [0,255]: the external model collaborator
// DBNetDetector wraps. Analogous to how ocr.Engine's caller supplies the
// actual OCR runtime (ocr/types.go) — this package only owns the pure-Go
// postprocessing that turns a probability map into text-line polygons.
type ProbabilityMapFunc func(ctx context.Context, img PageImage) (probMap []byte, width, height int, err error)

// DBNetDetector implements TextLineDetector by running the postprocess_pure
// pipeline (spec §4.3.1 S2 detection half) over a probability map: binary
// threshold, 2x2 dilation, connected-component contour extraction,
// per-contour min-area-rect, then unclip expansion.
type DBNetDetector struct {
	ProbabilityMap ProbabilityMapFunc
	BinaryThresh   byte    // default 77 (~0.3 * 255, spec §4.3.1 S2 box_thresh)
	UnclipRatio    float64 // default 1.5
	MinAreaPixels  float64 // contours smaller than this are dropped as noise
}

// NewDBNetDetector wraps probMap with the spec's default thresholds.
func NewDBNetDetector(probMap ProbabilityMapFunc) *DBNetDetector {
	return &DBNetDetector{ProbabilityMap: probMap, BinaryThresh: 77, UnclipRatio: 1.5, MinAreaPixels: 4}
}

func (d *DBNetDetector) Name() string { return "dbnet-postprocess" }

// DetectLines implements TextLineDetector (spec §4.3.1 S2).
func (d *DBNetDetector) DetectLines(ctx context.Context, img PageImage) ([]TextPolygon, error) {
	probMap, width, height, err := d.ProbabilityMap(ctx, img)
	if err != nil {
		return nil, err
	}

	binary := ThresholdBinary(probMap, width, height, d.binaryThresh())
	dilated := Dilate2x2(binary, width, height)
	contours := findContours(dilated, width, height)

	minArea := d.minAreaPixels()
	polys := make([]TextPolygon, 0, len(contours))
	for _, contour := range contours {
		if len(contour) < 3 {
			continue
		}
		rect := MinAreaRect(contour)
		if rect.Width*rect.Height < minArea {
			continue
		}
		expanded := Unclip(rect, d.unclipRatio())
		corners := expanded.Corners()
		var poly TextPolygon
		for i, c := range corners {
			poly.Points[i] = [2]float64{BankersRound(c.X), BankersRound(c.Y)}
		}
		polys = append(polys, poly)
	}
	return polys, nil
}

func (d *DBNetDetector) binaryThresh() byte {
	if d.BinaryThresh > 0 {
		return d.BinaryThresh
	}
	return 77
}

func (d *DBNetDetector) unclipRatio() float64 {
	if d.UnclipRatio > 0 {
		return d.UnclipRatio
	}
	return 1.5
}

func (d *DBNetDetector) minAreaPixels() float64 {
	if d.MinAreaPixels > 0 {
		return d.MinAreaPixels
	}
	return 4
}

// findContours labels 4-connected foreground (255) components in mask and
// returns each component's pixel coordinates as a point set. This is the
// pure-Go stand-in for postprocess_pure.rs's find_contours: it skips border
// tracing and returns every foreground pixel in a component, since
// MinAreaRect hulls the point set itself and doesn't need a traced boundary.
func findContours(mask []byte, width, height int) [][]Point2D {
	visited := make([]bool, len(mask))
	var comps [][]Point2D
	var stack []int
	for start := range mask {
		if mask[start] == 0 || visited[start] {
			continue
		}
		var comp []Point2D
		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			y, x := idx/width, idx%width
			comp = append(comp, Point2D{X: float64(x), Y: float64(y)})

			if x > 0 && !visited[idx-1] && mask[idx-1] != 0 {
				visited[idx-1] = true
				stack = append(stack, idx-1)
			}
			if x < width-1 && !visited[idx+1] && mask[idx+1] != 0 {
				visited[idx+1] = true
				stack = append(stack, idx+1)
			}
			if y > 0 && !visited[idx-width] && mask[idx-width] != 0 {
				visited[idx-width] = true
				stack = append(stack, idx-width)
			}
			if y < height-1 && !visited[idx+width] && mask[idx+width] != 0 {
				visited[idx+width] = true
				stack = append(stack, idx+width)
			}
		}
		comps = append(comps, comp)
	}
	return comps
}
