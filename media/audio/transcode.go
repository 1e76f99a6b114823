// Package audio implements audio extraction and transcription (spec
// §4.4.2): FFmpeg transcode to 16 kHz mono PCM, WAV decoding, and a
// Whisper-family transcriber contract with quality scoring.
package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// TranscodeToWAV coerces an input media file to 16 kHz mono PCM16 WAV via an
// external FFmpeg subprocess, mirroring the teacher's
// decodeJBIG2External pattern exactly: locate the tool, write input to a
// temp file, run it with explicit output path, read the result back
// (filters/filters.go).
func TranscodeToWAV(ctx context.Context, data []byte) ([]byte, error) {
	tool, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("locate ffmpeg: %w", err)
	}

	input, err := os.CreateTemp("", "docling-audio-in-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(input.Name())
	if _, err := input.Write(data); err != nil {
		input.Close()
		return nil, err
	}
	input.Close()

	output, err := os.CreateTemp("", "docling-audio-out-*.wav")
	if err != nil {
		return nil, err
	}
	outName := output.Name()
	output.Close()
	defer os.Remove(outName)

	cmd := exec.CommandContext(ctx, tool,
		"-y", "-i", input.Name(),
		"-ar", "16000", "-ac", "1", "-sample_fmt", "s16",
		outName,
	)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg transcode: %w", err)
	}
	return os.ReadFile(outName)
}
