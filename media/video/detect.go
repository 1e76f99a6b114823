package video

import (
	"context"
	"fmt"
	"sort"

	"github.com/docling-project/docling-go/coords"
)

const (
	numClasses   = 80 // channels 4..84
	numBoxes     = 8400
	channelCount = 4 + numClasses
)

// ModelOutput is a batch inference result in the model's native [N, 84,
// 8400] layout (spec §4.4.1 step 4): channels 0-3 are cx, cy, w, h in model
// space; channels 4..84 are per-class scores.
type ModelOutput struct {
	N    int
	Data []float32 // len == N * channelCount * numBoxes
}

func (m ModelOutput) at(n, channel, box int) float32 {
	return m.Data[n*channelCount*numBoxes+channel*numBoxes+box]
}

// Detector runs batch inference over resized frame tensors. There is no
// ONNX-runtime binding anywhere in the retrieval pack, so this is a plain
// interface the caller supplies a concrete model runtime for, exactly as
// ocr.Engine is for OCR providers.
type Detector interface {
	Name() string
	Detect(ctx context.Context, batch [][3][modelInputSize][modelInputSize]float32) (ModelOutput, error)
}

// Detection is one post-NMS detection in normalized [0,1] top-left
// coordinates.
type Detection struct {
	ClassID    int
	ClassName  string
	Confidence float64
	L, T, W, H float64 // normalized top-left box
}

// DetectionWithFrame attaches a Detection back to the frame it came from
// (spec §4.4.1 contract).
type DetectionWithFrame struct {
	FrameNumber      int
	TimestampSeconds float64
	Detection        Detection
}

// ClassNames maps a class_id to a display name; callers can override per
// model. A nil map falls back to "class_<id>".
type ClassNames map[int]string

func (names ClassNames) name(id int) string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("class_%d", id)
}

// DetectBatch runs S1-style per-class decode + NMS over one batch of frames
// (spec §4.4.1 steps 3-4). The output preserves frame order, and within a
// frame, the invariant that frame numbers are strictly increasing across an
// entire video is the caller's responsibility (it only ever holds within one
// monotonically-produced decode stream, not across arbitrary Detect calls).
func DetectBatch(ctx context.Context, detector Detector, frames []RawFrameBuffer, names ClassNames, confThresh, iouThresh float64) ([]DetectionWithFrame, error) {
	views := make([]StridedView, len(frames))
	for i, f := range frames {
		views[i] = NewStridedView(f)
	}
	tensor := BatchTensor(views)
	out, err := detector.Detect(ctx, tensor)
	if err != nil {
		return nil, fmt.Errorf("detect batch: %w", err)
	}

	var results []DetectionWithFrame
	for n := 0; n < out.N && n < len(frames); n++ {
		dets := decodeFrame(out, n, names, confThresh)
		dets = nmsPerClass(dets, iouThresh)
		forward := coords.LetterboxTransform(frames[n].Width, frames[n].Height, modelInputSize, modelInputSize)
		inverse, err := forward.Inverse()
		if err != nil {
			continue
		}
		for _, d := range dets {
			d = toOriginalSpace(d, inverse, frames[n].Width, frames[n].Height)
			results = append(results, DetectionWithFrame{
				FrameNumber:      frames[n].FrameNumber,
				TimestampSeconds: frames[n].TimestampSeconds,
				Detection:        d,
			})
		}
	}
	return results, nil
}

func decodeFrame(out ModelOutput, n int, names ClassNames, confThresh float64) []Detection {
	var dets []Detection
	for box := 0; box < numBoxes; box++ {
		bestClass, bestScore := -1, float32(0)
		for c := 0; c < numClasses; c++ {
			s := out.at(n, 4+c, box)
			if s > bestScore {
				bestScore, bestClass = s, c
			}
		}
		if float64(bestScore) < confThresh {
			continue
		}
		cx, cy := out.at(n, 0, box), out.at(n, 1, box)
		w, h := out.at(n, 2, box), out.at(n, 3, box)
		dets = append(dets, Detection{
			ClassID:    bestClass,
			ClassName:  names.name(bestClass),
			Confidence: float64(bestScore),
			L:          float64(cx - w/2),
			T:          float64(cy - h/2),
			W:          float64(w),
			H:          float64(h),
		})
	}
	return dets
}

// toOriginalSpace maps a model-space box back to the original frame via the
// letterbox inverse, then normalizes by the original width/height (spec
// §4.4.1 step 4: "convert to top-left normalized coordinates").
func toOriginalSpace(d Detection, inverse coords.Matrix, origW, origH int) Detection {
	topLeft := inverse.Transform(coords.Point{X: d.L, Y: d.T})
	bottomRight := inverse.Transform(coords.Point{X: d.L + d.W, Y: d.T + d.H})
	d.L = topLeft.X / float64(origW)
	d.T = topLeft.Y / float64(origH)
	d.W = (bottomRight.X - topLeft.X) / float64(origW)
	d.H = (bottomRight.Y - topLeft.Y) / float64(origH)
	return d
}

func nmsPerClass(dets []Detection, iouThresh float64) []Detection {
	byClass := make(map[int][]Detection)
	for _, d := range dets {
		byClass[d.ClassID] = append(byClass[d.ClassID], d)
	}
	var kept []Detection
	for _, group := range byClass {
		sort.Slice(group, func(i, j int) bool { return group[i].Confidence > group[j].Confidence })
		suppressed := make([]bool, len(group))
		for i := range group {
			if suppressed[i] {
				continue
			}
			kept = append(kept, group[i])
			for j := i + 1; j < len(group); j++ {
				if suppressed[j] {
					continue
				}
				if detIoU(group[i], group[j]) > iouThresh {
					suppressed[j] = true
				}
			}
		}
	}
	return kept
}

func detIoU(a, b Detection) float64 {
	interL := max64(a.L, b.L)
	interT := max64(a.T, b.T)
	interR := min64(a.L+a.W, b.L+b.W)
	interB := min64(a.T+a.H, b.T+b.H)
	if interR <= interL || interB <= interT {
		return 0
	}
	inter := (interR - interL) * (interB - interT)
	union := a.W*a.H + b.W*b.H - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
