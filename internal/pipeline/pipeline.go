// Package pipeline implements the eight-stage lesson build: a strictly
// forward-only state machine over the lesson directory. Each stage is a
// function of the current directory contents to new or updated files plus a
// pass/fail outcome; a failing gate halts all downstream stages and regresses
// the lesson to DRAFT. Stage outcomes are values; only genuine system errors
// propagate as errors.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"coursebuild/internal/config"
	"coursebuild/internal/lesson"
	"coursebuild/internal/logging"
	"coursebuild/internal/plan"
	"coursebuild/internal/services"
	"coursebuild/internal/status"
	"coursebuild/internal/validate"
)

// StageCount is the number of pipeline stages (ids 0 through 7).
const StageCount = 8

// Outcome is the result of running one stage.
type Outcome struct {
	LessonID string
	Stage    int
	Name     string
	Result   status.Result
	Issues   []validate.Issue
	Note     string
}

// Failed reports whether the stage recorded a failure.
func (o *Outcome) Failed() bool {
	return o.Result == status.ResultFail
}

type stageEnv struct {
	lessonID string
	dir      string
	entry    plan.Lesson
	planned  bool
}

type stageDef struct {
	id      int
	name    string
	prereqs []string
	run     func(ctx context.Context, p *Pipeline, env *stageEnv) (*Outcome, error)
}

// Pipeline drives the stage machine for one course root.
type Pipeline struct {
	cfg    *config.Config
	plan   *plan.Plan
	logger *slog.Logger
	root   string
	stages []stageDef
}

// New loads the course plan and prepares a pipeline.
func New(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	coursePlan, err := plan.Load(cfg.PlanPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrMissingPrerequisite, "pipeline", "load plan",
				fmt.Sprintf("course plan %s not found", cfg.PlanPath()), err)
		}
		return nil, services.Wrap(services.ErrMalformedInput, "pipeline", "load plan", "course plan invalid", err)
	}

	p := &Pipeline{
		cfg:    cfg,
		plan:   coursePlan,
		logger: logger,
		root:   cfg.Paths.CourseRoot,
	}
	p.stages = []stageDef{
		{id: 0, name: "context", run: stageContext},
		{id: 1, name: "script", prereqs: []string{lesson.FileContext}, run: stageScript},
		{id: 2, name: "qa", prereqs: []string{lesson.FileScriptMaster, lesson.FileScriptSpoken, lesson.FileScriptVisual}, run: stageQA},
		{id: 3, name: "video-plan", prereqs: []string{lesson.FileScriptMaster}, run: stageVideoPlan},
		{id: 4, name: "study-guide", prereqs: []string{lesson.FileScriptMaster}, run: stageStudyGuide},
		{id: 5, name: "flashcards", prereqs: []string{lesson.FileScriptMaster, lesson.FileContext}, run: stageFlashcards},
		{id: 6, name: "quiz", prereqs: []string{lesson.FileScriptMaster, lesson.FileContext}, run: stageQuiz},
		{id: 7, name: "release", prereqs: lesson.RequiredForRelease, run: stageRelease},
	}
	return p, nil
}

// Plan exposes the loaded course plan.
func (p *Pipeline) Plan() *plan.Plan {
	return p.plan
}

func (p *Pipeline) env(lessonID string) (*stageEnv, error) {
	if !lesson.ValidID(lessonID) {
		return nil, services.Wrap(services.ErrMalformedInput, "pipeline", "resolve lesson",
			fmt.Sprintf("lesson id %q does not match M##-L###", lessonID), nil)
	}
	dir, err := lesson.Dir(p.root, lessonID)
	if err != nil {
		return nil, err
	}
	entry, planned := p.plan.Lesson(lessonID)
	return &stageEnv{lessonID: lessonID, dir: dir, entry: entry, planned: planned}, nil
}

func (p *Pipeline) stage(id int) (stageDef, error) {
	if id < 0 || id >= StageCount {
		return stageDef{}, services.Wrap(services.ErrMalformedInput, "pipeline", "resolve stage",
			fmt.Sprintf("stage %d out of range 0-%d", id, StageCount-1), nil)
	}
	return p.stages[id], nil
}

func (p *Pipeline) missingPrereqs(env *stageEnv, def stageDef) []string {
	var missing []string
	for _, file := range def.prereqs {
		if _, err := os.Stat(filepath.Join(env.dir, file)); err != nil {
			missing = append(missing, file)
		}
	}
	return missing
}

// RunStage executes a single stage for iterative authoring. In strict mode a
// declared prerequisite file that is absent blocks the stage with a
// missing-file list instead of a downstream parse error; no status is
// written for a blocked stage.
func (p *Pipeline) RunStage(ctx context.Context, lessonID string, stageID int, strict bool) (*Outcome, error) {
	def, err := p.stage(stageID)
	if err != nil {
		return nil, err
	}
	env, err := p.env(lessonID)
	if err != nil {
		return nil, err
	}
	if stageID <= 1 && !env.planned {
		return nil, services.Wrap(services.ErrMissingPrerequisite, def.name, "resolve lesson",
			fmt.Sprintf("lesson %s is not declared in the course plan", lessonID), nil)
	}
	if err := os.MkdirAll(env.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lesson directory: %w", err)
	}

	st, err := status.LoadOrNew(env.dir, lessonID)
	if err != nil {
		return nil, err
	}
	if stageID > 2 {
		if result, ok := st.StageResult(2); ok && result == status.ResultFail {
			return nil, services.Wrap(services.ErrValidation, def.name, "gate",
				"stage 2 QA gate failed; downstream stages are blocked until it passes", nil)
		}
	}
	if strict {
		if missing := p.missingPrereqs(env, def); len(missing) > 0 {
			return nil, services.Wrap(services.ErrMissingPrerequisite, def.name, "check prerequisites",
				"missing prerequisite files: "+strings.Join(missing, ", "), nil)
		}
	}

	outcome, err := p.execute(ctx, def, env, st)
	if err != nil {
		return nil, err
	}
	if err := st.Save(env.dir); err != nil {
		return nil, err
	}
	return outcome, nil
}

// execute runs a stage and records its result on st without persisting.
func (p *Pipeline) execute(ctx context.Context, def stageDef, env *stageEnv, st *status.Status) (*Outcome, error) {
	ctx = services.WithLessonID(services.WithStage(ctx, def.name), env.lessonID)
	log := logging.WithContext(ctx, p.logger)

	outcome, err := def.run(ctx, p, env)
	if err != nil {
		return nil, err
	}
	outcome.LessonID = env.lessonID
	outcome.Stage = def.id
	outcome.Name = def.name

	st.SetStageResult(def.id, outcome.Result)
	if outcome.Failed() {
		for blocked := def.id + 1; blocked < StageCount; blocked++ {
			if _, ok := st.StageResult(blocked); ok {
				st.SetStageResult(blocked, status.ResultSkip)
			}
		}
		note := fmt.Sprintf("stage %d (%s) failed", def.id, def.name)
		if outcome.Note != "" {
			note += ": " + outcome.Note
		}
		st.RegressToDraft(note)
		log.Warn("stage failed", logging.Int("issues", len(outcome.Issues)), logging.String("note", outcome.Note))
	} else {
		if st.State == status.StateBacklog || st.State == status.StatePlanned {
			st.State = status.StateDraft
		}
		log.Info("stage complete")
	}
	return outcome, nil
}

// RunLesson executes stages 0-7 in order, stopping at the first failure.
// Only a clean run through every stage advances the lesson to
// READY_TO_RECORD with a fresh validation timestamp.
func (p *Pipeline) RunLesson(ctx context.Context, lessonID string, strict bool) (*Outcome, error) {
	env, err := p.env(lessonID)
	if err != nil {
		return nil, err
	}
	if !env.planned {
		return nil, services.Wrap(services.ErrMissingPrerequisite, "pipeline", "resolve lesson",
			fmt.Sprintf("lesson %s is not declared in the course plan", lessonID), nil)
	}
	if err := os.MkdirAll(env.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lesson directory: %w", err)
	}

	st, err := status.LoadOrNew(env.dir, lessonID)
	if err != nil {
		return nil, err
	}

	var last *Outcome
	for _, def := range p.stages {
		if strict {
			if missing := p.missingPrereqs(env, def); len(missing) > 0 {
				return nil, services.Wrap(services.ErrMissingPrerequisite, def.name, "check prerequisites",
					"missing prerequisite files: "+strings.Join(missing, ", "), nil)
			}
		}
		outcome, err := p.execute(ctx, def, env, st)
		if err != nil {
			return nil, err
		}
		last = outcome
		if outcome.Failed() {
			for skipped := def.id + 1; skipped < StageCount; skipped++ {
				st.SetStageResult(skipped, status.ResultSkip)
			}
			if err := st.Save(env.dir); err != nil {
				return nil, err
			}
			return outcome, nil
		}
		if err := st.Save(env.dir); err != nil {
			return nil, err
		}
	}

	st.MarkReady(time.Now())
	if err := st.Save(env.dir); err != nil {
		return nil, err
	}
	return last, nil
}

// RunBatch runs whole lessons sequentially and stops at the first lesson
// whose run fails, returning every outcome produced so far.
func (p *Pipeline) RunBatch(ctx context.Context, lessonIDs []string, strict bool) ([]*Outcome, error) {
	var outcomes []*Outcome
	for _, lessonID := range lessonIDs {
		outcome, err := p.RunLesson(ctx, lessonID, strict)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)
		if outcome.Failed() {
			break
		}
	}
	return outcomes, nil
}
