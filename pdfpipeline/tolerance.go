package pdfpipeline

import "math"

// Variance returns the population variance of vs, 0 for fewer than 2
// samples.
func Variance(vs []float64) float64 {
	if len(vs) < 2 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	mean := sum / float64(len(vs))
	var sqDiff float64
	for _, v := range vs {
		d := v - mean
		sqDiff += d * d
	}
	return sqDiff / float64(len(vs))
}

// BackendsAgree implements the §4.3.2 backend-selection contract: given the
// same preprocessed input, two backends' ranked confidence lists must be
// pairwise within tolerance. Ranked means both slices are already sorted by
// descending confidence and index-aligned by rank, not by detection
// identity — the spec only requires the *ranked* confidences to agree, not
// that the same boxes were found.
func BackendsAgree(a, b []float64, tolerance float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

// UniformConfidenceSuspicious flags the §9 Open Question's Core ML failure
// signature: a backend that returns suspiciously uniform confidences across
// detections (a strong hint the model is uncalibrated and is effectively
// reporting a constant). A variance below the threshold across at least
// minSamples detections marks the backend experimental and unfit for
// default selection.
func UniformConfidenceSuspicious(confidences []float64, minSamples int, varianceThreshold float64) bool {
	if len(confidences) < minSamples {
		return false
	}
	return Variance(confidences) < varianceThreshold
}
