package audio

import (
	"encoding/binary"
	"testing"
)

func buildWAV(t *testing.T, sampleRate, channels, bits int, samples []int16) []byte {
	t.Helper()
	dataBytes := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(dataBytes[i*2:], uint16(s))
	}
	blockAlign := channels * bits / 8
	byteRate := sampleRate * blockAlign

	buf := make([]byte, 0, 44+len(dataBytes))
	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, le32(uint32(36+len(dataBytes)))...)
	buf = append(buf, []byte("WAVE")...)
	buf = append(buf, []byte("fmt ")...)
	buf = append(buf, le32(16)...)
	buf = append(buf, le16(1)...) // PCM
	buf = append(buf, le16(uint16(channels))...)
	buf = append(buf, le32(uint32(sampleRate))...)
	buf = append(buf, le32(uint32(byteRate))...)
	buf = append(buf, le16(uint16(blockAlign))...)
	buf = append(buf, le16(uint16(bits))...)
	buf = append(buf, []byte("data")...)
	buf = append(buf, le32(uint32(len(dataBytes)))...)
	buf = append(buf, dataBytes...)
	return buf
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func TestReadWAVDecodesPCM16(t *testing.T) {
	data := buildWAV(t, 16000, 1, 16, []int16{0, 16384, -32768, 32767})
	pcm, err := ReadWAV(data)
	if err != nil {
		t.Fatalf("ReadWAV error: %v", err)
	}
	if pcm.SampleRate != 16000 || pcm.Channels != 1 {
		t.Fatalf("pcm = %+v, want 16000Hz mono", pcm)
	}
	if len(pcm.Samples) != 4 {
		t.Fatalf("samples = %v, want 4", pcm.Samples)
	}
	if pcm.Samples[0] != 0 {
		t.Fatalf("sample[0] = %v, want 0", pcm.Samples[0])
	}
	if pcm.Samples[2] != -1.0 {
		t.Fatalf("sample[2] = %v, want -1.0", pcm.Samples[2])
	}
}

func TestReadWAVRejectsNonRIFF(t *testing.T) {
	if _, err := ReadWAV([]byte("not a wav file at all")); err == nil {
		t.Fatalf("expected error for non-RIFF input")
	}
}

func TestToMono16kHzAveragesChannels(t *testing.T) {
	pcm := PCM{Channels: 2, Samples: []float32{1, 0, 0.5, 0.5}}
	mono := ToMono16kHz(pcm)
	if len(mono) != 2 || mono[0] != 0.5 || mono[1] != 0.5 {
		t.Fatalf("mono = %v, want [0.5, 0.5]", mono)
	}
}

func TestResolveLanguage(t *testing.T) {
	lang, prob := ResolveLanguage("en", "fr", 0.6)
	if lang != "en" || prob != 1.0 {
		t.Fatalf("got (%s, %v), want (en, 1.0)", lang, prob)
	}
	lang, prob = ResolveLanguage("auto", "fr", 0.6)
	if lang != "fr" || prob != 0.6 {
		t.Fatalf("got (%s, %v), want (fr, 0.6)", lang, prob)
	}
}

func TestQualityScoreWeightsByDuration(t *testing.T) {
	segments := []Segment{
		{StartS: 0, EndS: 2, NoSpeechProb: 0, Words: []Word{{Probability: 1}, {Probability: 1}, {Probability: 1}, {Probability: 1}}},
	}
	score := QualityScore(segments)
	if score < 0.95 || score > 1.01 {
		t.Fatalf("score = %v, want ~1.0 for ideal segment", score)
	}
}

func TestDensityQualityPenalizesSparseSpeech(t *testing.T) {
	segments := []Segment{
		{StartS: 0, EndS: 10, NoSpeechProb: 0, Words: []Word{{Probability: 1}}},
	}
	score := QualityScore(segments)
	if score >= 0.9 {
		t.Fatalf("expected penalized score for 1 word / 10s, got %v", score)
	}
}

func TestProperNounCorrectorReplacesCloseMatch(t *testing.T) {
	c := ProperNounCorrector{Vocabulary: []string{"Docling"}, Threshold: 0.7}
	out := c.CorrectText("welcome to dockling today")
	if out != "welcome to Docling today" {
		t.Fatalf("got %q", out)
	}
}

func TestProperNounCorrectorLeavesUnrelatedWords(t *testing.T) {
	c := ProperNounCorrector{Vocabulary: []string{"Docling"}, Threshold: 0.9}
	out := c.CorrectText("completely unrelated sentence")
	if out != "completely unrelated sentence" {
		t.Fatalf("got %q, want unchanged", out)
	}
}
