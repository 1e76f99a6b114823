package diarize

import (
	"context"
	"math"
	"testing"
)

func TestNewVADRejectsUnsupportedRate(t *testing.T) {
	if _, err := NewVAD(44100, 1); err == nil {
		t.Fatalf("expected error for unsupported sample rate")
	}
}

func TestDetectSpeechSegmentsFindsLoudSpan(t *testing.T) {
	v, err := NewVAD(16000, 1)
	if err != nil {
		t.Fatalf("NewVAD error: %v", err)
	}
	silence := make([]float32, 16000) // 1s silence
	loud := make([]float32, 16000)    // 1s loud
	for i := range loud {
		loud[i] = 0.5
	}
	samples := append(append(append([]float32{}, silence...), loud...), silence...)

	segments := v.DetectSpeechSegments(samples, 0.3)
	if len(segments) != 1 {
		t.Fatalf("segments = %+v, want 1", segments)
	}
	if segments[0].StartS < 0.9 || segments[0].StartS > 1.1 {
		t.Fatalf("segment start = %v, want ~1.0", segments[0].StartS)
	}
}

func TestChooseK(t *testing.T) {
	if k := ChooseK(3, 50); k != 3 {
		t.Fatalf("ChooseK(3, 50) = %d, want 3", k)
	}
	if k := ChooseK(0, 1); k != 2 {
		t.Fatalf("ChooseK(0, 1) = %d, want 2 (clamped)", k)
	}
	if k := ChooseK(0, 400); k != 10 {
		t.Fatalf("ChooseK(0, 400) = %d, want 10 (clamped)", k)
	}
	if k := ChooseK(0, 16); k != 4 {
		t.Fatalf("ChooseK(0, 16) = %d, want 4 (ceil sqrt)", k)
	}
}

func TestKMeansSeparatesTwoClusters(t *testing.T) {
	vectors := make([][embeddingDim]float64, 4)
	vectors[0][0], vectors[1][0] = 0, 0.1
	vectors[2][0], vectors[3][0] = 10, 10.1

	result := KMeans(vectors, 2)
	if result.Labels[0] != result.Labels[1] {
		t.Fatalf("expected first pair same cluster, got %v", result.Labels)
	}
	if result.Labels[2] != result.Labels[3] {
		t.Fatalf("expected second pair same cluster, got %v", result.Labels)
	}
	if result.Labels[0] == result.Labels[2] {
		t.Fatalf("expected distinct clusters, got %v", result.Labels)
	}
}

func TestDistanceToConfidenceScalesIntoRange(t *testing.T) {
	confidences := DistanceToConfidence([]float64{0, 5, 10})
	if confidences[0] != 1.0 {
		t.Fatalf("closest confidence = %v, want 1.0", confidences[0])
	}
	if math.Abs(confidences[2]-0.3) > 1e-9 {
		t.Fatalf("farthest confidence = %v, want 0.3", confidences[2])
	}
}

func TestLogMelFramesProducesBandedOutput(t *testing.T) {
	samples := make([]float32, 16000) // 1s @ 16kHz
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / 16000))
	}
	frames := LogMelFrames(samples, 16000)
	if len(frames) == 0 {
		t.Fatalf("expected at least one frame")
	}
	if len(frames[0]) != melBands {
		t.Fatalf("frame has %d bands, want %d", len(frames[0]), melBands)
	}
}

type fakeEmbedder struct{}

func (fakeEmbedder) Name() string { return "fake" }
func (fakeEmbedder) Embed(ctx context.Context, frames [][melBands]float64) ([embeddingDim]float64, error) {
	var v [embeddingDim]float64
	if len(frames) > 0 {
		v[0] = frames[0][0]
	}
	return v, nil
}

func TestRunProducesSortedTimeline(t *testing.T) {
	v, _ := NewVAD(16000, 1)
	silence := make([]float32, 8000)
	loud := make([]float32, 8000)
	for i := range loud {
		loud[i] = 0.5
	}
	samples := append(append(append(append([]float32{}, silence...), loud...), silence...), loud...)

	diar, err := Run(context.Background(), v, fakeEmbedder{}, samples, 0.2, 2)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	for i := 1; i < len(diar.Timeline); i++ {
		if diar.Timeline[i].StartS < diar.Timeline[i-1].StartS {
			t.Fatalf("timeline not sorted: %+v", diar.Timeline)
		}
	}
}
