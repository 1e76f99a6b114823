package pdfpipeline

import (
	"context"
	"sort"

	"github.com/docling-project/docling-go/observability"
)

// BackendSelector wraps a primary and fallback LayoutDetector and applies
// the spec §4.3.2 tolerance check: if the primary's confidences look
// suspiciously uniform (the §9 Core ML uncalibrated-backend signature) or
// disagree with the fallback's ranked confidences beyond Tolerance, the
// fallback's result is used instead. BackendSelector itself satisfies
// LayoutDetector, so it drops into Pipeline.Layout directly.
type BackendSelector struct {
	Primary, Fallback LayoutDetector

	Tolerance         float64 // default 0.1 (spec §4.3.2)
	MinSamples        int     // default 5
	VarianceThreshold float64 // default 1e-4

	Logger observability.Logger
}

// NewBackendSelector returns a BackendSelector with the spec's default
// tolerance thresholds.
func NewBackendSelector(primary, fallback LayoutDetector) *BackendSelector {
	return &BackendSelector{
		Primary: primary, Fallback: fallback,
		Tolerance: 0.1, MinSamples: 5, VarianceThreshold: 1e-4,
		Logger: observability.NopLogger{},
	}
}

func (s *BackendSelector) Name() string {
	if s.Fallback == nil {
		return s.Primary.Name()
	}
	return s.Primary.Name() + "+" + s.Fallback.Name()
}

// Detect runs the primary backend and falls back per the tolerance checks
// above (spec §4.3.2, §9 Open Questions).
func (s *BackendSelector) Detect(ctx context.Context, img PageImage) ([]LayoutCluster, error) {
	primary, err := s.Primary.Detect(ctx, img)
	if err != nil {
		if s.Fallback == nil {
			return nil, err
		}
		return s.Fallback.Detect(ctx, img)
	}
	if s.Fallback == nil {
		return primary, nil
	}

	primaryConf := rankedConfidences(primary)
	if UniformConfidenceSuspicious(primaryConf, s.minSamples(), s.varianceThreshold()) {
		s.logger().Warn("primary layout backend confidences look uncalibrated, using fallback",
			observability.String("component", "pdfpipeline.backend_select"),
			observability.String("backend", s.Primary.Name()))
		if fallback, err := s.Fallback.Detect(ctx, img); err == nil {
			return fallback, nil
		}
		return primary, nil
	}

	fallback, err := s.Fallback.Detect(ctx, img)
	if err != nil {
		return primary, nil
	}
	fallbackConf := rankedConfidences(fallback)
	if !BackendsAgree(primaryConf, fallbackConf, s.tolerance()) {
		s.logger().Warn("layout backends disagree beyond tolerance, using fallback",
			observability.String("component", "pdfpipeline.backend_select"),
			observability.String("primary", s.Primary.Name()),
			observability.String("fallback", s.Fallback.Name()))
		return fallback, nil
	}
	return primary, nil
}

// rankedConfidences returns clusters' confidences sorted descending, the
// "ranked, not identity-aligned" comparison basis §4.3.2 requires.
func rankedConfidences(clusters []LayoutCluster) []float64 {
	out := make([]float64, len(clusters))
	for i, c := range clusters {
		out[i] = c.Confidence
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}

func (s *BackendSelector) minSamples() int {
	if s.MinSamples > 0 {
		return s.MinSamples
	}
	return 5
}

func (s *BackendSelector) tolerance() float64 {
	if s.Tolerance > 0 {
		return s.Tolerance
	}
	return 0.1
}

func (s *BackendSelector) varianceThreshold() float64 {
	if s.VarianceThreshold > 0 {
		return s.VarianceThreshold
	}
	return 1e-4
}

func (s *BackendSelector) logger() observability.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return observability.NopLogger{}
}
