package status_test

import (
	"testing"
	"time"

	"coursebuild/internal/status"
)

func TestParseState(t *testing.T) {
	state, err := status.ParseState(" draft ")
	if err != nil {
		t.Fatal(err)
	}
	if state != status.StateDraft {
		t.Fatalf("expected DRAFT, got %q", state)
	}
	if _, err := status.ParseState("DONE"); err == nil {
		t.Fatal("expected error for unknown state")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := status.New("M01-L001")
	s.State = status.StatePlanned
	s.SetStageResult(0, status.ResultPass)
	s.SetStageResult(2, status.ResultFail)
	if err := s.Save(dir); err != nil {
		t.Fatal(err)
	}

	loaded, err := status.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.State != status.StatePlanned {
		t.Fatalf("unexpected state: %q", loaded.State)
	}
	if result, ok := loaded.StageResult(2); !ok || result != status.ResultFail {
		t.Fatalf("stage 2 result not preserved: %v %v", result, ok)
	}
	if loaded.ValidatedAt != nil {
		t.Fatal("expected nil validatedAt")
	}
}

func TestLoadOrNewWithoutFile(t *testing.T) {
	s, err := status.LoadOrNew(t.TempDir(), "M01-L001")
	if err != nil {
		t.Fatal(err)
	}
	if s.State != status.StateBacklog {
		t.Fatalf("expected BACKLOG for fresh status, got %q", s.State)
	}
}

func TestRegressToDraftClearsValidation(t *testing.T) {
	s := status.New("M01-L001")
	s.MarkReady(time.Now())
	if s.State != status.StateReadyToRecord || s.ValidatedAt == nil {
		t.Fatalf("MarkReady did not advance: %+v", s)
	}

	s.RegressToDraft("stage 2 failed: policy violation")
	if s.State != status.StateDraft || s.ValidatedAt != nil {
		t.Fatalf("RegressToDraft did not reset: %+v", s)
	}
	s.RegressToDraft("stage 2 failed: policy violation")
	if len(s.Notes) != 1 {
		t.Fatalf("duplicate note appended: %v", s.Notes)
	}
}

func TestSortedStageIDs(t *testing.T) {
	s := status.New("M01-L001")
	s.SetStageResult(7, status.ResultPass)
	s.SetStageResult(0, status.ResultPass)
	s.SetStageResult(3, status.ResultSkip)
	ids := s.SortedStageIDs()
	if len(ids) != 3 || ids[0] != 0 || ids[1] != 3 || ids[2] != 7 {
		t.Fatalf("unexpected order: %v", ids)
	}
}
