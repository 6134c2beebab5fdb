package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"coursebuild/internal/pipeline"
	"coursebuild/internal/services"
)

func newStageCommand(ctx *commandContext) *cobra.Command {
	var lessonID string
	var stageID int
	var strict bool

	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Run a single pipeline stage for one lesson",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := ctx.newPipeline()
			if err != nil {
				return err
			}
			outcome, err := p.RunStage(cmd.Context(), lessonID, stageID, strict)
			if err != nil {
				return err
			}
			return reportOutcome(cmd.OutOrStdout(), outcome)
		},
	}

	cmd.Flags().StringVarP(&lessonID, "lesson", "l", "", "Lesson id (M##-L###)")
	cmd.Flags().IntVarP(&stageID, "stage", "s", 0, "Stage number (0-7)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Block the stage when prerequisite files are missing")
	_ = cmd.MarkFlagRequired("lesson")
	_ = cmd.MarkFlagRequired("stage")
	return cmd
}

func newRunLessonCommand(ctx *commandContext) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "run-lesson <lesson-id>",
		Short: "Run all pipeline stages for one lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := ctx.newPipeline()
			if err != nil {
				return err
			}
			outcome, err := p.RunLesson(cmd.Context(), args[0], strict)
			if err != nil {
				return err
			}
			return reportOutcome(cmd.OutOrStdout(), outcome)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Block stages when prerequisite files are missing")
	return cmd
}

func newRunBatchCommand(ctx *commandContext) *cobra.Command {
	var lessonsFlag string
	var strict bool

	cmd := &cobra.Command{
		Use:   "run-batch",
		Short: "Run the full pipeline over lessons in course plan order",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := ctx.newPipeline()
			if err != nil {
				return err
			}

			lessonIDs := p.Plan().LessonIDs()
			if trimmed := strings.TrimSpace(lessonsFlag); trimmed != "" {
				lessonIDs = nil
				for _, id := range strings.Split(trimmed, ",") {
					lessonIDs = append(lessonIDs, strings.TrimSpace(id))
				}
			}

			outcomes, runErr := p.RunBatch(cmd.Context(), lessonIDs, strict)
			out := cmd.OutOrStdout()
			for _, outcome := range outcomes {
				if outcome.Failed() {
					fmt.Fprintf(out, "%s: failed at stage %d (%s)\n", outcome.LessonID, outcome.Stage, outcome.Name)
				} else {
					fmt.Fprintf(out, "%s: all stages passed\n", outcome.LessonID)
				}
			}
			if runErr != nil {
				return runErr
			}
			for _, outcome := range outcomes {
				if outcome.Failed() {
					printIssues(out, outcome)
					return services.Wrap(services.ErrValidation, outcome.Name, "batch",
						fmt.Sprintf("lesson %s failed at stage %d", outcome.LessonID, outcome.Stage), nil)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lessonsFlag, "lessons", "", "Comma-separated lesson ids (defaults to the whole plan)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Block stages when prerequisite files are missing")
	return cmd
}

func reportOutcome(out io.Writer, outcome *pipeline.Outcome) error {
	if !outcome.Failed() {
		fmt.Fprintf(out, "%s: stage %d (%s) passed\n", outcome.LessonID, outcome.Stage, outcome.Name)
		return nil
	}
	fmt.Fprintf(out, "%s: stage %d (%s) failed", outcome.LessonID, outcome.Stage, outcome.Name)
	if outcome.Note != "" {
		fmt.Fprintf(out, ": %s", outcome.Note)
	}
	fmt.Fprintln(out)
	printIssues(out, outcome)
	return services.Wrap(services.ErrValidation, outcome.Name, "stage",
		fmt.Sprintf("stage %d failed for %s", outcome.Stage, outcome.LessonID), nil)
}

func printIssues(out io.Writer, outcome *pipeline.Outcome) {
	if len(outcome.Issues) == 0 {
		return
	}
	rows := make([][]string, 0, len(outcome.Issues))
	for _, issue := range outcome.Issues {
		rows = append(rows, []string{issue.Path, issue.Message})
	}
	fmt.Fprintln(out, renderTable([]string{"Path", "Issue"}, rows))
}
