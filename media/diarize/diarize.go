package diarize

import (
	"context"
	"fmt"
	"sort"
)

// Speaker is one identified speaker and their total speaking time (spec
// §4.4.3 Diarization.speakers[]).
type Speaker struct {
	ID               int
	TotalSpeakingTime float64
}

// TimelineEntry is one speaker-attributed span (spec §4.4.3
// Diarization.timeline[]).
type TimelineEntry struct {
	StartS, EndS float64
	SpeakerID    int
	Confidence   float64
}

// Diarization is the full three-stage result (spec §4.4.3).
type Diarization struct {
	Speakers []Speaker
	Timeline []TimelineEntry
}

// Run executes VAD, per-segment embedding, and k-means clustering, then
// assembles the Diarization contract (spec §4.4.3). minSpeakers <= 0 lets
// ChooseK pick ceil(sqrt(N)) clamped to [2, 10].
func Run(ctx context.Context, vad VAD, embedder EmbeddingModel, samples []float32, minSegmentDuration float64, minSpeakers int) (Diarization, error) {
	segments := vad.DetectSpeechSegments(samples, minSegmentDuration)
	if len(segments) == 0 {
		return Diarization{}, nil
	}

	vectors := make([][embeddingDim]float64, len(segments))
	for i, seg := range segments {
		startIdx := int(seg.StartS * float64(vad.SampleRate))
		endIdx := int(seg.EndS * float64(vad.SampleRate))
		if endIdx > len(samples) {
			endIdx = len(samples)
		}
		if startIdx >= endIdx {
			continue
		}
		mel := LogMelFrames(samples[startIdx:endIdx], vad.SampleRate)
		vec, err := embedder.Embed(ctx, mel)
		if err != nil {
			return Diarization{}, fmt.Errorf("embed segment %d: %w", i, err)
		}
		vectors[i] = vec
	}

	k := ChooseK(minSpeakers, len(segments))
	clustering := KMeans(vectors, k)
	confidences := DistanceToConfidence(clustering.Distances)

	speakingTime := make(map[int]float64)
	timeline := make([]TimelineEntry, len(segments))
	for i, seg := range segments {
		speakerID := clustering.Labels[i]
		speakingTime[speakerID] += seg.EndS - seg.StartS
		timeline[i] = TimelineEntry{
			StartS: seg.StartS, EndS: seg.EndS,
			SpeakerID: speakerID, Confidence: confidences[i],
		}
	}
	sort.Slice(timeline, func(i, j int) bool { return timeline[i].StartS < timeline[j].StartS })

	speakerIDs := make([]int, 0, len(speakingTime))
	for id := range speakingTime {
		speakerIDs = append(speakerIDs, id)
	}
	sort.Ints(speakerIDs)
	speakers := make([]Speaker, len(speakerIDs))
	for i, id := range speakerIDs {
		speakers[i] = Speaker{ID: id, TotalSpeakingTime: speakingTime[id]}
	}

	return Diarization{Speakers: speakers, Timeline: timeline}, nil
}
