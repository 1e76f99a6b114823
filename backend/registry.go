package backend

import (
	"fmt"

	"github.com/docling-project/docling-go/document"
)

// Sink is the document.Builder a backend populates to produce a
// CanonicalDocument; it is the "DocumentSink" of spec §4.2.
type Sink = *document.Builder

// Backend implements conversion for one or more InputFormats. The
// three-method shape (Supports/Detect/Convert) mirrors the teacher's
// ocr.Engine capability-interface pattern (ocr/types.go) and its
// recovery.Strategy single-method style, generalized from "OCR provider" to
// "format backend" (spec §4.2).
type Backend interface {
	// Supports reports whether this backend handles the given format.
	Supports(format InputFormat) bool
	// Detect sniffs raw bytes and returns a format guess, used when
	// extension-based recognition is ambiguous or absent.
	Detect(data []byte) (InputFormat, bool)
	// Convert populates sink from the source bytes.
	Convert(name string, data []byte, sink Sink) error
}

// Registry dispatches a format to its registered Backend, the way the
// teacher's PDFBuilder/PageBuilder dispatch drawing calls to one concrete
// builder instance, generalized here to a tag-enum-keyed map rather than a
// single fixed type (spec §9: "registry of trait-like capability records
// plus a tag enum for fast dispatch on extension").
type Registry struct {
	backends map[InputFormat]Backend
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[InputFormat]Backend)}
}

// Register associates a backend with every format it supports.
func (r *Registry) Register(b Backend) {
	for _, f := range AllFormats() {
		if b.Supports(f) {
			r.backends[f] = b
		}
	}
}

// ErrUnsupportedFormat is returned when no backend is registered for a
// format (spec §7: UnsupportedFormat is a caller error, surfaced verbatim).
type ErrUnsupportedFormat struct {
	Format InputFormat
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported format: %s", e.Format)
}

// Convert resolves format to its backend and runs conversion, building a
// fresh document (spec §4.2, §7).
func (r *Registry) Convert(name string, data []byte, format InputFormat) (*document.CanonicalDocument, error) {
	b, ok := r.backends[format]
	if !ok {
		return nil, &ErrUnsupportedFormat{Format: format}
	}
	builder := document.NewDocument(name)
	if err := b.Convert(name, data, builder); err != nil {
		return nil, fmt.Errorf("convert %s as %s: %w", name, format, err)
	}
	return builder.Build()
}

// ConvertFile resolves format from the filename's extension, falling back
// to content sniffing via each registered backend's Detect when the
// extension is unrecognized.
func (r *Registry) ConvertFile(filename string, data []byte) (*document.CanonicalDocument, error) {
	format, ok := FromExtension(filename)
	if !ok {
		for _, b := range r.backends {
			if f, detected := b.Detect(data); detected {
				format = f
				ok = true
				break
			}
		}
	}
	if !ok {
		return nil, fmt.Errorf("recognize format for %s: %w", filename, errInputNotFound{filename})
	}
	return r.Convert(filename, data, format)
}

type errInputNotFound struct{ name string }

func (e errInputNotFound) Error() string { return fmt.Sprintf("input not recognized: %s", e.name) }
