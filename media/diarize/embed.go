package diarize

import "context"

const embeddingDim = 256 // spec §4.4.3: "256-d vector"

// EmbeddingModel turns 80-dim log-mel frames for one segment into a 256-d
// speaker embedding (spec §4.4.3 stage 2). No embedding-model binding
// appears in the retrieval pack, so this is a plain interface, the same
// shape as ocr.Engine and video.Detector.
type EmbeddingModel interface {
	Name() string
	Embed(ctx context.Context, melFrames [][melBands]float64) ([embeddingDim]float64, error)
}
