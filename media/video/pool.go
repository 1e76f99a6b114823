package video

import (
	"context"
	"sync"
	"sync/atomic"
)

// SessionPool holds a fixed-size set of Detector sessions, one mutex per
// session, with round-robin acquisition via a plain atomic counter (spec §5,
// §9: "pool-of-mutexed-sessions... round-robin index is a plain atomic
// counter"), generalizing the teacher's one-client-per-call idiom in
// ocr/tesseract.RecognizeBatch to a pool reused across calls.
type SessionPool struct {
	sessions []*pooledSession
	next     uint64
}

type pooledSession struct {
	mu       sync.Mutex
	detector Detector
}

// NewSessionPool wraps detectors (one per pool slot; the caller constructs
// num_cpus of them, one model load each).
func NewSessionPool(detectors []Detector) *SessionPool {
	sessions := make([]*pooledSession, len(detectors))
	for i, d := range detectors {
		sessions[i] = &pooledSession{detector: d}
	}
	return &SessionPool{sessions: sessions}
}

// Acquire round-robins to the next session and locks it for the duration of
// fn — "holds its lock for exactly one batch, releases" (spec §4.4.1).
func (p *SessionPool) Acquire(ctx context.Context, fn func(Detector) (ModelOutput, error)) (ModelOutput, error) {
	idx := atomic.AddUint64(&p.next, 1) % uint64(len(p.sessions))
	s := p.sessions[idx]
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.detector)
}

// Detect implements Detector by acquiring a pooled session per call,
// letting DetectBatch treat the pool as an ordinary Detector.
func (p *SessionPool) Detect(ctx context.Context, batch [][3][modelInputSize][modelInputSize]float32) (ModelOutput, error) {
	return p.Acquire(ctx, func(d Detector) (ModelOutput, error) {
		return d.Detect(ctx, batch)
	})
}

func (p *SessionPool) Name() string { return "session-pool" }
