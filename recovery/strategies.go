package recovery

import (
	"fmt"
	"sync"
)

// StrictStrategy fails the whole conversion on the first recoverable error.
// Use for callers that would rather see nothing than a degraded document.
type StrictStrategy struct{}

func NewStrictStrategy() *StrictStrategy {
	return &StrictStrategy{}
}

func (s *StrictStrategy) OnError(err error, location Location) Action {
	return ActionFail
}

// LenientStrategy is the default best-effort policy: it accumulates a
// warning for every recoverable error and tells the caller to continue,
// matching spec §7's "across stages, errors become warnings plus degraded
// output" rule.
type LenientStrategy struct {
	mu       sync.Mutex
	Warnings []error
}

func NewLenientStrategy() *LenientStrategy {
	return &LenientStrategy{}
}

func (s *LenientStrategy) OnError(err error, location Location) Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	if location.Page >= 0 {
		s.Warnings = append(s.Warnings, fmt.Errorf("[%s] page %d %s: %w", location.Component, location.Page, location.Detail, err))
	} else {
		s.Warnings = append(s.Warnings, fmt.Errorf("[%s] %s: %w", location.Component, location.Detail, err))
	}
	return ActionWarn
}

// SkipStrategy drops the failing unit silently (no warning recorded) and
// continues. Useful for bulk batch jobs that only care about aggregate
// throughput.
type SkipStrategy struct{}

func NewSkipStrategy() *SkipStrategy { return &SkipStrategy{} }

func (s *SkipStrategy) OnError(err error, location Location) Action {
	return ActionSkip
}
