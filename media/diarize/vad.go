// Package diarize implements speaker diarization (spec §4.4.3): VAD framing,
// log-mel speaker embeddings, and k-means clustering into speaker timelines.
package diarize

import (
	"fmt"
	"math"
)

// SupportedSampleRates lists the WebRTC-family VAD's supported rates (spec
// §4.4.3).
var SupportedSampleRates = map[int]bool{8000: true, 16000: true, 32000: true, 48000: true}

const frameDurationS = 0.030 // 30ms frames

// Segment is a contiguous speech span in seconds.
type Segment struct {
	StartS, EndS float64
}

// VAD runs frame-level voice-activity detection at 30ms frames (spec
// §4.4.3 stage 1), classifying each frame by RMS energy alone (no
// zero-crossing test), since no VAD binding exists in the retrieval pack
// (stdlib-only, justified in DESIGN.md).
type VAD struct {
	SampleRate    int
	Aggressiveness int // 0-3: higher = stricter (spec §4.4.3)
}

// NewVAD validates the sample rate against the WebRTC-family contract.
func NewVAD(sampleRate, aggressiveness int) (VAD, error) {
	if !SupportedSampleRates[sampleRate] {
		return VAD{}, fmt.Errorf("unsupported VAD sample rate: %d", sampleRate)
	}
	if aggressiveness < 0 || aggressiveness > 3 {
		return VAD{}, fmt.Errorf("aggressiveness must be 0-3, got %d", aggressiveness)
	}
	return VAD{SampleRate: sampleRate, Aggressiveness: aggressiveness}, nil
}

// frameEnergyThreshold rises with aggressiveness, so stricter
// aggressiveness rejects more low-energy frames.
func (v VAD) frameEnergyThreshold() float32 {
	base := float32(0.02)
	return base * (1 + float32(v.Aggressiveness))
}

// DetectSpeechSegments frames samples at 30ms, classifies each frame as
// speech via an RMS-energy threshold, merges adjacent speech frames into
// segments, and drops any segment shorter than minSegmentDuration (default
// 0.3s per spec §4.4.3).
func (v VAD) DetectSpeechSegments(samples []float32, minSegmentDuration float64) []Segment {
	if minSegmentDuration <= 0 {
		minSegmentDuration = 0.3
	}
	frameLen := int(frameDurationS * float64(v.SampleRate))
	if frameLen <= 0 {
		return nil
	}
	threshold := v.frameEnergyThreshold()

	var segments []Segment
	inSpeech := false
	var segStart float64

	for i := 0; i*frameLen < len(samples); i++ {
		start := i * frameLen
		end := start + frameLen
		if end > len(samples) {
			end = len(samples)
		}
		t := float64(start) / float64(v.SampleRate)
		if rms(samples[start:end]) >= threshold {
			if !inSpeech {
				inSpeech = true
				segStart = t
			}
		} else if inSpeech {
			inSpeech = false
			segEnd := t
			if segEnd-segStart >= minSegmentDuration {
				segments = append(segments, Segment{StartS: segStart, EndS: segEnd})
			}
		}
	}
	if inSpeech {
		segEnd := float64(len(samples)) / float64(v.SampleRate)
		if segEnd-segStart >= minSegmentDuration {
			segments = append(segments, Segment{StartS: segStart, EndS: segEnd})
		}
	}
	return segments
}

func rms(frame []float32) float32 {
	if len(frame) == 0 {
		return 0
	}
	var sum float32
	for _, s := range frame {
		sum += s * s
	}
	return float32(math.Sqrt(float64(sum / float32(len(frame)))))
}
