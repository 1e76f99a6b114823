package pdfpipeline

import (
	"math"
	"sort"
)

// Sigmoid applies the logistic function element-wise, used when a raw
// LayoutDetector returns unnormalized logits (spec §4.3.1 S1).
func Sigmoid(logits []float64) []float64 {
	out := make([]float64, len(logits))
	for i, v := range logits {
		out[i] = 1 / (1 + math.Exp(-v))
	}
	return out
}

// iou returns the intersection-over-union of two axis-aligned boxes.
func iou(a, b BBox) float64 {
	interL := math.Max(a.L, b.L)
	interT := math.Max(a.T, b.T)
	interR := math.Min(a.R, b.R)
	interB := math.Min(a.B, b.B)
	if interR <= interL || interB <= interT {
		return 0
	}
	inter := (interR - interL) * (interB - interT)
	areaA := (a.R - a.L) * (a.B - a.T)
	areaB := (b.R - b.L) * (b.B - b.T)
	union := areaA + areaB - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// NMS runs per-class non-maximum suppression (spec §4.3.1 S1: "per-class
// NMS, IoU threshold typically 0.5") plus a confidence filter, keeping
// clusters grouped by Label and, within each group, in descending
// confidence order.
func NMS(clusters []LayoutCluster, iouThresh, confThresh float64) []LayoutCluster {
	byLabel := make(map[LayoutLabel][]LayoutCluster)
	for _, c := range clusters {
		if c.Confidence < confThresh {
			continue
		}
		byLabel[c.Label] = append(byLabel[c.Label], c)
	}

	var kept []LayoutCluster
	for _, group := range byLabel {
		sort.Slice(group, func(i, j int) bool { return group[i].Confidence > group[j].Confidence })
		suppressed := make([]bool, len(group))
		for i := range group {
			if suppressed[i] {
				continue
			}
			kept = append(kept, group[i])
			for j := i + 1; j < len(group); j++ {
				if !suppressed[j] && iou(group[i].BBox, group[j].BBox) > iouThresh {
					suppressed[j] = true
				}
			}
		}
	}
	return kept
}

// BankersRound rounds half-to-even, matching numpy's rounding convention
// used when scaling detection coordinates back to original image space
// (spec §4.3.1 S2).
func BankersRound(v float64) float64 {
	floor := math.Floor(v)
	diff := v - floor
	switch {
	case diff < 0.5:
		return floor
	case diff > 0.5:
		return floor + 1
	default:
		if math.Mod(floor, 2) == 0 {
			return floor
		}
		return floor + 1
	}
}

// ThresholdBinary maps every sample above thresh to 255 and everything else
// to 0, the pure-Go equivalent of cv2.threshold(..., THRESH_BINARY) (spec
// §4.3.1 S2 postprocessing contract).
func ThresholdBinary(data []byte, width, height int, thresh byte) []byte {
	out := make([]byte, len(data))
	for i, v := range data {
		if v > thresh {
			out[i] = 255
		}
	}
	return out
}

// Dilate2x2 applies a 2x2 rectangular structuring element: any foreground
// pixel in the (x,y)-(x+1,y+1) window marks the (x,y) output pixel as
// foreground (spec §4.3.1 S2: "2x2 dilation is a 2x2 rectangular
// structuring element").
func Dilate2x2(img []byte, width, height int) []byte {
	out := make([]byte, len(img))
	at := func(x, y int) byte {
		return img[y*width+x]
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			max := at(x, y)
			if x+1 < width && at(x+1, y) > max {
				max = at(x+1, y)
			}
			if y+1 < height && at(x, y+1) > max {
				max = at(x, y+1)
			}
			if x+1 < width && y+1 < height && at(x+1, y+1) > max {
				max = at(x+1, y+1)
			}
			out[y*width+x] = max
		}
	}
	return out
}

// Point2D is a plain 2-D point used by the convex-hull/min-area-rect
// geometry below, kept separate from coords.Point since these operate on
// contour pixel coordinates rather than affine-transformable page space.
type Point2D struct{ X, Y float64 }

// ConvexHull computes the convex hull via Andrew's monotone chain, grounded
// on postprocess_pure.rs's convex_hull (spec §4.3.1 S2 min-area-rect
// prerequisite).
func ConvexHull(points []Point2D) []Point2D {
	pts := append([]Point2D(nil), points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	cross := func(o, a, b Point2D) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	var lower, upper []Point2D
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	lower = lower[:len(lower)-1]
	upper = upper[:len(upper)-1]
	return append(lower, upper...)
}

// RotatedRect is the minimum-area bounding rectangle of a point set, in
// OpenCV convention: angle is the first hull edge's angle in degrees.
type RotatedRect struct {
	Center      Point2D
	Width, Height float64
	AngleDeg    float64
}

// MinAreaRect finds the minimum-area rotated rectangle enclosing points via
// rotating calipers over the convex hull, translated from
// postprocess_pure.rs's min_area_rect/rotating_calipers_min_rect.
func MinAreaRect(points []Point2D) RotatedRect {
	switch len(points) {
	case 0:
		return RotatedRect{}
	case 1:
		return RotatedRect{Center: points[0]}
	case 2:
		cx := (points[0].X + points[1].X) / 2
		cy := (points[0].Y + points[1].Y) / 2
		dx := points[1].X - points[0].X
		dy := points[1].Y - points[0].Y
		return RotatedRect{
			Center:   Point2D{cx, cy},
			Width:    math.Hypot(dx, dy),
			AngleDeg: math.Atan2(dy, dx) * 180 / math.Pi,
		}
	}

	hull := ConvexHull(points)
	if len(hull) < 3 {
		minX, maxX := points[0].X, points[0].X
		minY, maxY := points[0].Y, points[0].Y
		for _, p := range points[1:] {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
		return RotatedRect{Center: Point2D{(minX + maxX) / 2, (minY + maxY) / 2}, Width: maxX - minX, Height: maxY - minY}
	}
	return rotatingCalipersMinRect(hull)
}

func rotatingCalipersMinRect(hull []Point2D) RotatedRect {
	n := len(hull)
	best := RotatedRect{}
	minArea := math.MaxFloat64
	for i := 0; i < n; i++ {
		p1 := hull[i]
		p2 := hull[(i+1)%n]
		edgeX, edgeY := p2.X-p1.X, p2.Y-p1.Y
		edgeLen := math.Hypot(edgeX, edgeY)
		if edgeLen < 1e-10 {
			continue
		}
		ux, uy := edgeX/edgeLen, edgeY/edgeLen
		vx, vy := -uy, ux

		minU, maxU := math.MaxFloat64, -math.MaxFloat64
		minV, maxV := math.MaxFloat64, -math.MaxFloat64
		for _, p := range hull {
			dx, dy := p.X-p1.X, p.Y-p1.Y
			u := dx*ux + dy*uy
			v := dx*vx + dy*vy
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}
		width, height := maxU-minU, maxV-minV
		area := width * height
		if area < minArea {
			minArea = area
			centerU, centerV := (minU+maxU)/2, (minV+maxV)/2
			cx := p1.X + centerU*ux + centerV*vx
			cy := p1.Y + centerU*uy + centerV*vy
			best = RotatedRect{
				Center:   Point2D{cx, cy},
				Width:    width,
				Height:   height,
				AngleDeg: math.Atan2(uy, ux) * 180 / math.Pi,
			}
		}
	}
	return best
}

// Corners returns the rectangle's 4 corner points.
func (r RotatedRect) Corners() [4]Point2D {
	angle := r.AngleDeg * math.Pi / 180
	ux, uy := math.Cos(angle), math.Sin(angle)
	vx, vy := -uy, ux
	hw, hh := r.Width/2, r.Height/2
	corner := func(su, sv float64) Point2D {
		return Point2D{r.Center.X + su*hw*ux + sv*hh*vx, r.Center.Y + su*hw*uy + sv*hh*vy}
	}
	return [4]Point2D{corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)}
}

// Unclip expands a detected text box outward by distance = area*ratio/
// perimeter along each edge's own normal, approximating the Clipper-based
// polygon offset postprocess_pure.rs performs (spec §4.3.1 S2 "unclip
// expansion"). This uniform-normal-offset approximation is noted in
// DESIGN.md as a simplification: it reproduces the same expansion distance
// formula but not Clipper's exact round-join polygon offset geometry.
func Unclip(rect RotatedRect, unclipRatio float64) RotatedRect {
	area := rect.Width * rect.Height
	perimeter := 2 * (rect.Width + rect.Height)
	if perimeter <= 0 {
		return rect
	}
	distance := area * unclipRatio / perimeter
	return RotatedRect{
		Center:   rect.Center,
		Width:    rect.Width + 2*distance,
		Height:   rect.Height + 2*distance,
		AngleDeg: rect.AngleDeg,
	}
}
