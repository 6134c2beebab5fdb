package pipeline

import (
	"context"
	"fmt"

	"coursebuild/internal/validate"
)

// stageRelease is the read-only release gate: the full semantic and schema
// suite over the lesson as it sits on disk. Any issue fails the gate.
func stageRelease(ctx context.Context, p *Pipeline, env *stageEnv) (*Outcome, error) {
	issues, err := validate.Lesson(p.root, env.lessonID, p.cfg.Policy.RequireToneMarks)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return fail(fmt.Sprintf("%d validation issue(s)", len(issues)), issues), nil
	}
	return pass(""), nil
}
