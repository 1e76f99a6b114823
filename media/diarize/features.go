package diarize

import "math"

const (
	melBands        = 80   // spec §4.4.3: "80-dim log-mel features"
	frameMS         = 25.0 // 25ms frame
	hopMS           = 10.0 // 10ms hop
)

// LogMelFrames computes 80-dim log-mel features (25ms frame, 10ms hop,
// Hamming window, FFT size = next pow2) over one speech segment (spec
// §4.4.3 stage 2) with stdlib math only: the power spectrum is a direct DFT
// since no audio DSP library appears in the retrieval pack (justified in
// DESIGN.md).
func LogMelFrames(samples []float32, sampleRate int) [][melBands]float64 {
	frameLen := int(frameMS / 1000 * float64(sampleRate))
	hopLen := int(hopMS / 1000 * float64(sampleRate))
	if frameLen <= 0 || hopLen <= 0 {
		return nil
	}
	fftSize := nextPow2(frameLen)
	window := hammingWindow(frameLen)
	filterbank := melFilterbank(melBands, fftSize, sampleRate)

	var frames [][melBands]float64
	for start := 0; start+frameLen <= len(samples); start += hopLen {
		windowed := make([]float64, fftSize)
		for i := 0; i < frameLen; i++ {
			windowed[i] = float64(samples[start+i]) * window[i]
		}
		spectrum := powerSpectrum(windowed)
		var mel [melBands]float64
		for b := 0; b < melBands; b++ {
			var energy float64
			for k, weight := range filterbank[b] {
				energy += spectrum[k] * weight
			}
			mel[b] = math.Log(energy + 1e-10)
		}
		frames = append(frames, mel)
	}
	return frames
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func hammingWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// powerSpectrum runs a simple O(n^2) DFT magnitude-squared; fftSize in this
// domain (25ms frames, typically a few hundred to a few thousand samples)
// keeps this tractable without pulling in an FFT library.
func powerSpectrum(frame []float64) []float64 {
	n := len(frame)
	half := n/2 + 1
	out := make([]float64, half)
	for k := 0; k < half; k++ {
		var re, im float64
		for t, x := range frame {
			angle := -2 * math.Pi * float64(k) * float64(t) / float64(n)
			re += x * math.Cos(angle)
			im += x * math.Sin(angle)
		}
		out[k] = re*re + im*im
	}
	return out
}

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// melFilterbank builds numBands triangular filters spanning 0..Nyquist over
// fftSize/2+1 bins.
func melFilterbank(numBands, fftSize, sampleRate int) [][]float64 {
	nyquist := float64(sampleRate) / 2
	maxMel := hzToMel(nyquist)
	melStep := maxMel / float64(numBands+1)

	bins := make([]int, numBands+2)
	for i := range bins {
		hz := melToHz(float64(i) * melStep)
		bins[i] = int(hz / nyquist * float64(fftSize/2))
	}

	half := fftSize/2 + 1
	filters := make([][]float64, numBands)
	for b := 0; b < numBands; b++ {
		filters[b] = make([]float64, half)
		left, center, right := bins[b], bins[b+1], bins[b+2]
		for k := left; k < center && k < half; k++ {
			if center != left {
				filters[b][k] = float64(k-left) / float64(center-left)
			}
		}
		for k := center; k < right && k < half; k++ {
			if right != center {
				filters[b][k] = float64(right-k) / float64(right-center)
			}
		}
	}
	return filters
}
