package audio

import (
	"encoding/binary"
	"fmt"
)

// PCM is a decoded WAV file's samples, already scaled to [-1, 1] float32
// (spec §4.4.2: "Integer sample widths are scaled to [-1, 1] by
// 1 << (bits-1)"), grounded on the teacher's manual byte-level binary
// parsing style in ir/raw and scanner/scanner.go.
type PCM struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// ReadWAV parses a canonical RIFF/WAVE container: fmt chunk then data chunk,
// skipping any other chunks in between.
func ReadWAV(data []byte) (PCM, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return PCM{}, fmt.Errorf("not a RIFF/WAVE file")
	}

	var pcm PCM
	var bitsPerSample int
	var haveFmt bool

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			size = len(data) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return PCM{}, fmt.Errorf("fmt chunk too short")
			}
			pcm.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			pcm.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return PCM{}, fmt.Errorf("data chunk before fmt chunk")
			}
			samples, err := decodeSamples(data[body:body+size], bitsPerSample)
			if err != nil {
				return PCM{}, err
			}
			pcm.Samples = samples
		}

		pos = body + size
		if size%2 == 1 {
			pos++ // chunks are word-aligned
		}
	}

	if !haveFmt || pcm.Samples == nil {
		return PCM{}, fmt.Errorf("incomplete WAV: missing fmt or data chunk")
	}
	return pcm, nil
}

func decodeSamples(raw []byte, bitsPerSample int) ([]float32, error) {
	switch bitsPerSample {
	case 16:
		n := len(raw) / 2
		out := make([]float32, n)
		scale := float32(int32(1) << 15)
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
			out[i] = float32(v) / scale
		}
		return out, nil
	case 8:
		out := make([]float32, len(raw))
		for i, b := range raw {
			out[i] = (float32(b) - 128) / 128
		}
		return out, nil
	case 32:
		n := len(raw) / 4
		out := make([]float32, n)
		scale := float32(int64(1) << 31)
		for i := 0; i < n; i++ {
			v := int32(binary.LittleEndian.Uint32(raw[i*4 : i*4+4]))
			out[i] = float32(v) / scale
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported sample width: %d bits", bitsPerSample)
	}
}

// ToMono16kHz downmixes multi-channel PCM by averaging channels. FFmpeg's
// -ac 1 -ar 16000 already produces mono 16 kHz in the normal pipeline; this
// exists for callers that hand ReadWAV a file that skipped transcoding.
func ToMono16kHz(pcm PCM) []float32 {
	if pcm.Channels <= 1 {
		return pcm.Samples
	}
	frames := len(pcm.Samples) / pcm.Channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < pcm.Channels; c++ {
			sum += pcm.Samples[i*pcm.Channels+c]
		}
		out[i] = sum / float32(pcm.Channels)
	}
	return out
}
