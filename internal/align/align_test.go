package align_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"coursebuild/internal/align"
	"coursebuild/internal/services"
)

func TestUniformEvenSplit(t *testing.T) {
	aligner := align.NewUniform()
	segments, err := aligner.Align(context.Background(), align.Request{
		Transcript: []string{"one", "two", "three"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	if segments[1].Start != 3 || segments[1].End != 6 {
		t.Fatalf("unexpected second segment: %+v", segments[1])
	}
	if segments[2].Text != "three" {
		t.Fatalf("transcript text lost: %+v", segments[2])
	}
}

func TestUniformDeterministic(t *testing.T) {
	aligner := align.NewUniform()
	req := align.Request{Transcript: []string{"a", "b"}}
	first, _ := aligner.Align(context.Background(), req)
	second, _ := aligner.Align(context.Background(), req)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("alignment not deterministic: %+v vs %+v", first[i], second[i])
		}
	}
}

func TestWhisperXUnavailable(t *testing.T) {
	aligner := align.NewWhisperX("definitely-not-a-real-binary-name", "th", time.Second)
	if aligner.Available() {
		t.Fatal("probe should fail for missing binary")
	}
	_, err := aligner.Align(context.Background(), align.Request{MediaPath: "x.wav"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}
