package video

import (
	"context"
	"sync"
	"testing"
)

func TestStridedViewHandlesPadding(t *testing.T) {
	// width=2, linesize=8 (padded), 1 row: pixel(0,1) starts at byte 3.
	buf := RawFrameBuffer{
		Data:     []byte{1, 2, 3, 4, 5, 6, 0, 0},
		Linesize: 8,
		Width:    2, Height: 1,
	}
	v := NewStridedView(buf)
	r, g, b := v.At(0, 1)
	if r != 4 || g != 5 || b != 6 {
		t.Fatalf("At(0,1) = (%d,%d,%d), want (4,5,6)", r, g, b)
	}
}

func TestResizeNearestProducesNormalizedValues(t *testing.T) {
	data := make([]byte, 10*10*3)
	for i := range data {
		data[i] = 255
	}
	v := NewStridedView(RawFrameBuffer{Data: data, Linesize: 30, Width: 10, Height: 10})
	planes := ResizeNearest(v)
	if planes[0][320][320] != 1.0 {
		t.Fatalf("center pixel = %v, want 1.0", planes[0][320][320])
	}
}

type fakeDetector struct {
	out ModelOutput
}

func (f fakeDetector) Name() string { return "fake" }
func (f fakeDetector) Detect(ctx context.Context, batch [][3][modelInputSize][modelInputSize]float32) (ModelOutput, error) {
	return f.out, nil
}

func singleBoxOutput(cx, cy, w, h float32, classID int, score float32) ModelOutput {
	data := make([]float32, channelCount*numBoxes)
	data[0*numBoxes+0] = cx
	data[1*numBoxes+0] = cy
	data[2*numBoxes+0] = w
	data[3*numBoxes+0] = h
	data[(4+classID)*numBoxes+0] = score
	return ModelOutput{N: 1, Data: data}
}

func TestDetectBatchThresholdsAndConverts(t *testing.T) {
	out := singleBoxOutput(320, 320, 100, 100, 5, 0.9)
	det := fakeDetector{out: out}
	frame := RawFrameBuffer{Data: make([]byte, 640*640*3), Linesize: 640 * 3, Width: 640, Height: 640, FrameNumber: 1}

	results, err := DetectBatch(context.Background(), det, []RawFrameBuffer{frame}, nil, 0.5, 0.45)
	if err != nil {
		t.Fatalf("DetectBatch error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %+v, want 1 detection", results)
	}
	if results[0].Detection.ClassID != 5 {
		t.Fatalf("ClassID = %d, want 5", results[0].Detection.ClassID)
	}
	if results[0].FrameNumber != 1 {
		t.Fatalf("FrameNumber = %d, want 1", results[0].FrameNumber)
	}
}

func TestDetectBatchFiltersBelowThreshold(t *testing.T) {
	out := singleBoxOutput(320, 320, 100, 100, 5, 0.1)
	det := fakeDetector{out: out}
	frame := RawFrameBuffer{Width: 640, Height: 640, Data: make([]byte, 640*640*3), Linesize: 640 * 3}

	results, err := DetectBatch(context.Background(), det, []RawFrameBuffer{frame}, nil, 0.5, 0.45)
	if err != nil {
		t.Fatalf("DetectBatch error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no detections below threshold, got %+v", results)
	}
}

func TestSessionPoolRoundRobinsAcrossSessions(t *testing.T) {
	var mu sync.Mutex
	used := map[int]int{}
	detectors := make([]Detector, 4)
	for i := 0; i < 4; i++ {
		i := i
		detectors[i] = fakeFnDetector{fn: func() {
			mu.Lock()
			used[i]++
			mu.Unlock()
		}}
	}
	pool := NewSessionPool(detectors)
	for i := 0; i < 8; i++ {
		_, _ = pool.Detect(context.Background(), nil)
	}
	if len(used) != 4 {
		t.Fatalf("expected all 4 sessions used, got %+v", used)
	}
}

type fakeFnDetector struct{ fn func() }

func (f fakeFnDetector) Name() string { return "fn" }
func (f fakeFnDetector) Detect(ctx context.Context, batch [][3][modelInputSize][modelInputSize]float32) (ModelOutput, error) {
	f.fn()
	return ModelOutput{}, nil
}
