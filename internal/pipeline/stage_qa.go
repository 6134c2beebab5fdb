package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"coursebuild/internal/lesson"
	"coursebuild/internal/validate"
)

// stageQA is the hard gate. It recomputes the quality checks from the files
// on disk (the authoritative result, independent of the script master's
// self-report), drift-scans both rendered documents, writes the QA report,
// and re-persists the script master with the computed checks. Any failing
// check or drift finding fails the stage and blocks stages 3-7.
func stageQA(ctx context.Context, p *Pipeline, env *stageEnv) (*Outcome, error) {
	master, err := readMaster(env.dir)
	if err != nil {
		return nil, err
	}

	requireToneMark := p.cfg.Policy.RequireToneMarks
	checks := computeQAChecks(master, requireToneMark)

	var drift []lesson.DriftIssue
	for _, file := range []string{lesson.FileScriptSpoken, lesson.FileScriptVisual} {
		data, err := os.ReadFile(filepath.Join(env.dir, file))
		if err != nil {
			return nil, err
		}
		drift = append(drift, scanDocument(file, string(data), requireToneMark)...)
	}
	if drift == nil {
		drift = []lesson.DriftIssue{}
	}

	passGate := len(drift) == 0
	for _, check := range checks {
		if !check.Pass {
			passGate = false
		}
	}

	report := lesson.QAReport{
		SchemaVersion: lesson.CurrentSchemaVersion,
		ReportID:      uuid.NewString(),
		LessonID:      env.lessonID,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Checks:        checks,
		DriftIssues:   drift,
		Pass:          passGate,
	}
	if err := writeArtifact(filepath.Join(env.dir, lesson.FileQAReport), &report); err != nil {
		return nil, err
	}

	master.QAChecks = checks
	if err := writeArtifact(filepath.Join(env.dir, lesson.FileScriptMaster), master); err != nil {
		return nil, err
	}

	if passGate {
		return pass(""), nil
	}

	var issues []validate.Issue
	for _, check := range checks {
		if !check.Pass {
			issues = append(issues, validate.Issue{
				Path:    filepath.Join(env.dir, lesson.FileScriptMaster),
				Message: fmt.Sprintf("QA check %s failed: %s", check.ID, check.Evidence),
			})
		}
	}
	for _, found := range drift {
		issues = append(issues, validate.Issue{
			Path:    filepath.Join(env.dir, found.File),
			Message: fmt.Sprintf("line %d: %s", found.Line, found.Message),
		})
	}
	return fail(fmt.Sprintf("%d QA issue(s)", len(issues)), issues), nil
}
