package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"coursebuild/internal/fileutil"
	"coursebuild/internal/lesson"
	"coursebuild/internal/services"
	"coursebuild/internal/status"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status [lesson-id]",
		Short: "Show lesson workflow state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root := cfg.Paths.CourseRoot

			lessonIDs := args
			if len(lessonIDs) == 0 {
				lessonIDs, err = lesson.ListIDs(root)
				if err != nil {
					return err
				}
			}

			rows := make([][]string, 0, len(lessonIDs))
			for _, lessonID := range lessonIDs {
				dir, err := lesson.Dir(root, lessonID)
				if err != nil {
					return err
				}
				if !fileutil.Exists(status.Path(dir)) {
					rows = append(rows, []string{lessonID, "-", "-", "-", "no status file"})
					continue
				}
				st, err := status.Load(dir)
				if err != nil {
					rows = append(rows, []string{lessonID, "-", "-", "-", err.Error()})
					continue
				}
				rows = append(rows, []string{
					lessonID,
					string(st.State),
					st.UpdatedAt.Format(time.RFC3339),
					formatValidatedAt(st.ValidatedAt),
					formatStageResults(st),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"Lesson", "State", "Updated", "Validated", "Stages"}, rows))
			return nil
		},
	}
}

func newSetStatusCommand(ctx *commandContext) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "set-status <lesson-id> <state>",
		Short: "Set a lesson's workflow state",
		Long: "Sets the lesson state for planning purposes. READY_TO_RECORD is refused:\n" +
			"only a clean full pipeline run may mark a lesson ready.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			lessonID := args[0]

			state, err := status.ParseState(args[1])
			if err != nil {
				return services.Wrap(services.ErrMalformedInput, "status", "parse state", err.Error(), nil)
			}
			if state == status.StateReadyToRecord {
				return services.Wrap(services.ErrValidation, "status", "set state",
					"READY_TO_RECORD cannot be set by hand; run the full pipeline", nil)
			}

			dir, err := lesson.Dir(cfg.Paths.CourseRoot, lessonID)
			if err != nil {
				return err
			}
			st, err := status.LoadOrNew(dir, lessonID)
			if err != nil {
				return err
			}
			st.State = state
			st.ValidatedAt = nil
			if trimmed := strings.TrimSpace(note); trimmed != "" {
				st.Notes = append(st.Notes, trimmed)
			}
			if err := st.Save(dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: state set to %s\n", lessonID, state)
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Note appended to the status record")
	return cmd
}

func formatValidatedAt(validatedAt *time.Time) string {
	if validatedAt == nil {
		return "-"
	}
	return validatedAt.Format(time.RFC3339)
}

func formatStageResults(st *status.Status) string {
	ids := st.SortedStageIDs()
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		result, _ := st.StageResult(id)
		parts = append(parts, strconv.Itoa(id)+":"+string(result))
	}
	return strings.Join(parts, " ")
}
