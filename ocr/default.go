package ocr

import (
	"context"
	"fmt"
)

var defaultEngine Engine = &noopEngine{}

// DefaultEngine returns the library's default OCR engine (Tesseract, once
// the ocr/tesseract package is imported for its init side effect).
func DefaultEngine() Engine {
	return defaultEngine
}

// SetDefaultEngine sets the library's default OCR engine.
func SetDefaultEngine(engine Engine) {
	defaultEngine = engine
}

// RecognizeInputs runs engine over inputs, preferring its BatchEngine form
// when available to amortize provider setup cost (§4.3.1 S2).
func RecognizeInputs(ctx context.Context, engine Engine, inputs []Input) ([]Result, error) {
	if b, ok := engine.(BatchEngine); ok {
		return b.RecognizeBatch(ctx, inputs)
	}
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		res, err := engine.Recognize(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// DefaultRecognizeInputs runs recognition with the default engine.
func DefaultRecognizeInputs(ctx context.Context, inputs []Input) ([]Result, error) {
	return RecognizeInputs(ctx, DefaultEngine(), inputs)
}

type noopEngine struct{}

func (n noopEngine) Name() string { return "noop" }

func (n noopEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	return Result{InputID: input.ID}, nil
}
