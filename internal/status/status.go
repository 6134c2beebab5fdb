// Package status persists per-lesson workflow state. The status file is the
// only artifact the orchestrator mutates across stages, and it is written
// only after a stage fully completes or fully fails, always as a whole-file
// replacement.
package status

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"coursebuild/internal/fileutil"
	"coursebuild/internal/lesson"
)

// State is the lesson lifecycle state.
type State string

const (
	StateBacklog       State = "BACKLOG"
	StatePlanned       State = "PLANNED"
	StateDraft         State = "DRAFT"
	StateReadyToRecord State = "READY_TO_RECORD"
)

// Result is one recorded stage outcome.
type Result string

const (
	ResultPass Result = "PASS"
	ResultFail Result = "FAIL"
	ResultSkip Result = "SKIP"
)

// ParseState normalizes and validates a user-supplied state name.
func ParseState(raw string) (State, error) {
	switch State(strings.ToUpper(strings.TrimSpace(raw))) {
	case StateBacklog:
		return StateBacklog, nil
	case StatePlanned:
		return StatePlanned, nil
	case StateDraft:
		return StateDraft, nil
	case StateReadyToRecord:
		return StateReadyToRecord, nil
	default:
		return "", fmt.Errorf("unknown lesson state %q", raw)
	}
}

// Status is the durable per-lesson record. READY_TO_RECORD is terminal and
// requires a non-null ValidatedAt; any stage failure regresses to DRAFT.
type Status struct {
	LessonID     string            `json:"lessonId"`
	State        State             `json:"state"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	ValidatedAt  *time.Time        `json:"validatedAt"`
	StageResults map[string]Result `json:"stageResults"`
	Notes        []string          `json:"notes"`
}

// New returns a fresh BACKLOG status for a lesson.
func New(lessonID string) *Status {
	return &Status{
		LessonID:     lessonID,
		State:        StateBacklog,
		UpdatedAt:    time.Now().UTC(),
		StageResults: map[string]Result{},
		Notes:        []string{},
	}
}

// Path returns the status file location inside a lesson directory.
func Path(lessonDir string) string {
	return filepath.Join(lessonDir, lesson.FileStatus)
}

// Load reads status.json from a lesson directory.
func Load(lessonDir string) (*Status, error) {
	var s Status
	if err := fileutil.ReadJSON(Path(lessonDir), &s); err != nil {
		return nil, err
	}
	if s.StageResults == nil {
		s.StageResults = map[string]Result{}
	}
	return &s, nil
}

// LoadOrNew reads status.json, or returns a fresh BACKLOG record when the
// file does not exist yet.
func LoadOrNew(lessonDir, lessonID string) (*Status, error) {
	if !fileutil.Exists(Path(lessonDir)) {
		return New(lessonID), nil
	}
	return Load(lessonDir)
}

// Save writes the status file as a single whole-file replacement.
func (s *Status) Save(lessonDir string) error {
	s.UpdatedAt = time.Now().UTC()
	return fileutil.WriteJSON(Path(lessonDir), s)
}

// StageResult returns the recorded outcome for a stage id, if any.
func (s *Status) StageResult(stage int) (Result, bool) {
	result, ok := s.StageResults[strconv.Itoa(stage)]
	return result, ok
}

// SetStageResult records a stage outcome without persisting.
func (s *Status) SetStageResult(stage int, result Result) {
	s.StageResults[strconv.Itoa(stage)] = result
}

// RegressToDraft records a stage failure: state drops to DRAFT and the note
// is appended once.
func (s *Status) RegressToDraft(note string) {
	s.State = StateDraft
	s.ValidatedAt = nil
	for _, existing := range s.Notes {
		if existing == note {
			return
		}
	}
	s.Notes = append(s.Notes, note)
}

// MarkReady advances to the terminal READY_TO_RECORD state with a fresh
// validation timestamp.
func (s *Status) MarkReady(validatedAt time.Time) {
	validatedAt = validatedAt.UTC()
	s.State = StateReadyToRecord
	s.ValidatedAt = &validatedAt
}

// SortedStageIDs returns the recorded stage ids in numeric order.
func (s *Status) SortedStageIDs() []int {
	ids := make([]int, 0, len(s.StageResults))
	for key := range s.StageResults {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
