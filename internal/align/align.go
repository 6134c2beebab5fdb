// Package align produces voiceover timings for the video plan. Alignment is
// never required for correctness: the WhisperX implementation degrades to the
// deterministic uniform fallback on any probe, timeout, or parse failure.
package align

import (
	"context"
)

// Segment is one timed span of the transcript, in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Request describes one alignment job.
type Request struct {
	MediaPath  string
	Transcript []string
	Language   string
}

// Aligner maps a transcript onto the media timeline.
type Aligner interface {
	Align(ctx context.Context, req Request) ([]Segment, error)
}

// Uniform is the deterministic fallback: an even time split over an assumed
// per-line duration. It never fails and needs no media file.
type Uniform struct {
	SecondsPerLine float64
}

// NewUniform returns the fallback aligner with the default pacing.
func NewUniform() Uniform {
	return Uniform{SecondsPerLine: 3}
}

func (u Uniform) Align(_ context.Context, req Request) ([]Segment, error) {
	perLine := u.SecondsPerLine
	if perLine <= 0 {
		perLine = 3
	}
	segments := make([]Segment, len(req.Transcript))
	for i, text := range req.Transcript {
		start := float64(i) * perLine
		segments[i] = Segment{Start: start, End: start + perLine, Text: text}
	}
	return segments, nil
}
