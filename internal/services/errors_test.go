package services_test

import (
	"errors"
	"fmt"
	"testing"

	"coursebuild/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrPolicy, "qa", "scan narration", "legacy tone token", nil)
	if !errors.Is(err, services.ErrPolicy) {
		t.Fatalf("expected policy marker, got %v", err)
	}
	want := "transliteration policy violation: qa: scan narration: legacy tone token"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	inner := fmt.Errorf("disk full")
	err := services.Wrap(nil, "", "", "", inner)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !errors.Is(err, inner) {
		t.Fatal("expected wrapped inner error")
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{services.Wrap(services.ErrValidation, "release", "", "issues found", nil), 1},
		{services.Wrap(services.ErrPolicy, "qa", "", "drift", nil), 1},
		{services.Wrap(services.ErrCoverage, "quiz", "", "under-served", nil), 1},
		{services.Wrap(services.ErrMissingPrerequisite, "stage", "", "context.json", nil), 2},
		{services.Wrap(services.ErrTransient, "", "", "boom", nil), 3},
		{errors.New("unclassified"), 3},
	}
	for _, tc := range cases {
		if got := services.ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
