package audio

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// ProperNounCorrector replaces transcribed tokens with the closest entry in
// a known proper-noun list when the similarity reaches threshold (spec
// §4.4.2: "optional post-processing: proper-noun spell correction with
// configurable similarity threshold"). Similarity is normalized edit
// distance computed with agnivade/levenshtein (pack: transitive dependency
// of lookatitude-beluga-ai's go.mod), the same distance metric
// rupor-github-fb2cng — this module's own FB2 grounding source — pulls in
// via sajari/fuzzy for its own proper-noun-style matching.
type ProperNounCorrector struct {
	Vocabulary []string
	Threshold  float64 // similarity in [0,1]; 1.0 requires an exact match
}

// CorrectText rewrites whitespace-separated tokens in text whose closest
// vocabulary match clears Threshold.
func (c ProperNounCorrector) CorrectText(text string) string {
	if len(c.Vocabulary) == 0 {
		return text
	}
	tokens := strings.Fields(text)
	for i, tok := range tokens {
		if best, sim := c.closestMatch(tok); sim >= c.Threshold {
			tokens[i] = best
		}
	}
	return strings.Join(tokens, " ")
}

// CorrectSegments applies CorrectText to the full transcript and to every
// segment's text, returning the corrected transcript and a new segment
// slice; the segments passed in are not modified.
func (c ProperNounCorrector) CorrectSegments(fullText string, segments []Segment) (string, []Segment) {
	corrected := c.CorrectText(fullText)
	out := make([]Segment, len(segments))
	for i, seg := range segments {
		seg.Text = c.CorrectText(seg.Text)
		out[i] = seg
	}
	return corrected, out
}

func (c ProperNounCorrector) closestMatch(token string) (string, float64) {
	bestWord, bestSim := "", -1.0
	lower := strings.ToLower(token)
	for _, candidate := range c.Vocabulary {
		sim := similarity(lower, strings.ToLower(candidate))
		if sim > bestSim {
			bestSim, bestWord = sim, candidate
		}
	}
	return bestWord, bestSim
}

// similarity returns 1 - normalized Levenshtein distance.
func similarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}
