package diarize

import "math"

const maxIterations = 100 // spec §4.4.3: "100 max iterations"

// ChooseK implements the spec's cluster-count rule: the requested
// min_speakers if given, else ceil(sqrt(N)) clamped to [2, 10].
func ChooseK(requested, n int) int {
	if requested > 0 {
		return requested
	}
	k := int(math.Ceil(math.Sqrt(float64(n))))
	if k < 2 {
		k = 2
	}
	if k > 10 {
		k = 10
	}
	return k
}

// KMeansResult is one clustering outcome: a cluster label per input vector
// plus each vector's distance to its assigned centroid (used for the
// confidence conversion).
type KMeansResult struct {
	Labels    []int
	Distances []float64
}

// KMeans runs simple Lloyd's-algorithm k-means: stop at maxIterations or
// when no label changes (spec §4.4.3 stage 3). Centroids are seeded from
// k evenly spaced input points (index i*n/k), so the result is
// deterministic with no RNG dependency.
func KMeans(vectors [][embeddingDim]float64, k int) KMeansResult {
	n := len(vectors)
	if n == 0 || k <= 0 {
		return KMeansResult{}
	}
	if k > n {
		k = n
	}

	centroids := make([][embeddingDim]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = vectors[i*n/k]
	}

	labels := make([]int, n)
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, v := range vectors {
			best, bestDist := 0, math.MaxFloat64
			for c, centroid := range centroids {
				d := euclidean(v, centroid)
				if d < bestDist {
					bestDist, best = d, c
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		recompute(vectors, labels, centroids)
		if !changed {
			break
		}
	}

	distances := make([]float64, n)
	for i, v := range vectors {
		distances[i] = euclidean(v, centroids[labels[i]])
	}
	return KMeansResult{Labels: labels, Distances: distances}
}

func recompute(vectors [][embeddingDim]float64, labels []int, centroids [][embeddingDim]float64) {
	sums := make([][embeddingDim]float64, len(centroids))
	counts := make([]int, len(centroids))
	for i, v := range vectors {
		c := labels[i]
		counts[c]++
		for d := 0; d < embeddingDim; d++ {
			sums[c][d] += v[d]
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for d := 0; d < embeddingDim; d++ {
			centroids[c][d] = sums[c][d] / float64(counts[c])
		}
	}
}

func euclidean(a, b [embeddingDim]float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// DistanceToConfidence implements the spec's "normalize-then-invert, scaled
// into [0.3, 1.0]" rule (spec §4.4.3 stage 3): the closest point in the
// whole batch gets confidence 1.0, the farthest gets 0.3, linearly
// in between.
func DistanceToConfidence(distances []float64) []float64 {
	if len(distances) == 0 {
		return nil
	}
	minD, maxD := distances[0], distances[0]
	for _, d := range distances {
		if d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
	}
	out := make([]float64, len(distances))
	if maxD == minD {
		for i := range out {
			out[i] = 1.0
		}
		return out
	}
	for i, d := range distances {
		normalized := (d - minD) / (maxD - minD) // 0 = closest, 1 = farthest
		out[i] = 1.0 - normalized*0.7            // invert, scale into [0.3, 1.0]
	}
	return out
}
