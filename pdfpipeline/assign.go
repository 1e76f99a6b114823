package pdfpipeline

// overlapFraction returns the fraction of line's bounding rect area that
// falls inside cluster's bbox.
func overlapFraction(line BBox, cluster BBox) float64 {
	interL := max(line.L, cluster.L)
	interT := max(line.T, cluster.T)
	interR := min(line.R, cluster.R)
	interB := min(line.B, cluster.B)
	if interR <= interL || interB <= interT {
		return 0
	}
	inter := (interR - interL) * (interB - interT)
	lineArea := (line.R - line.L) * (line.B - line.T)
	if lineArea <= 0 {
		return 0
	}
	return inter / lineArea
}

func pointInBBox(x, y float64, b BBox) bool {
	return x >= b.L && x <= b.R && y >= b.T && y <= b.B
}

// AssignLinesToClusters implements S3: for each layout cluster, select the
// OCR lines whose center falls inside the cluster bbox or whose overlap
// fraction is >= 0.5, preserving the OCR reading order within each cluster
// (spec §4.3.1 S3). Lines unassigned to any cluster are returned separately
// so the caller can seed a synthetic text cluster (body layer) or drop them
// (furniture layer), per the spec's per-layer disposition rule.
func AssignLinesToClusters(clusters []LayoutCluster, lines []TextLine) (assigned map[int][]TextLine, unassigned []TextLine) {
	const overlapThreshold = 0.5
	assigned = make(map[int][]TextLine, len(clusters))
	for _, line := range lines {
		cx, cy := line.Center()
		lineBBox := line.Polygon.BoundingRect()
		matched := false
		for _, c := range clusters {
			if pointInBBox(cx, cy, c.BBox) || overlapFraction(lineBBox, c.BBox) >= overlapThreshold {
				assigned[c.ID] = append(assigned[c.ID], line)
				matched = true
				break
			}
		}
		if !matched {
			unassigned = append(unassigned, line)
		}
	}
	return assigned, unassigned
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
