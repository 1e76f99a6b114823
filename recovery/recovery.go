// Package recovery defines the pipeline's error-recovery policy: whether a
// failure inside a single stage (layout detection on one page, transcription
// of one segment, a malformed OOXML part) aborts the whole conversion or is
// downgraded to a warning plus degraded output, per spec §7's propagation
// policy ("stage boundaries are recovery boundaries").
package recovery

// Strategy decides what to do when a recoverable error surfaces at a stage
// boundary. Implementations must be safe for concurrent use; a single
// Strategy instance is typically shared across the worker pool described in
// spec §5.
type Strategy interface {
	OnError(err error, location Location) Action
}

// Location pinpoints where a recoverable error occurred for logging and
// diagnostics.
type Location struct {
	// Component names the stage or backend that raised the error, e.g.
	// "pdfpipeline.layout", "backend.office.docx", "media.transcribe".
	Component string
	// Page is the 0-indexed page number, or -1 if not page-scoped.
	Page int
	// Detail is a short human-readable description of the failing unit
	// (a segment id, an asset name, a cluster id).
	Detail string
}

// Action tells the caller how to proceed after a recoverable error.
type Action int

const (
	// ActionFail aborts the enclosing document/file conversion entirely.
	ActionFail Action = iota
	// ActionSkip drops the failing unit (page, segment, region) and continues.
	ActionSkip
	// ActionWarn keeps a degraded placeholder (e.g. an empty page marker,
	// a cluster with no text) and continues, recording a warning.
	ActionWarn
)

func (a Action) String() string {
	switch a {
	case ActionFail:
		return "fail"
	case ActionSkip:
		return "skip"
	case ActionWarn:
		return "warn"
	default:
		return "unknown"
	}
}
