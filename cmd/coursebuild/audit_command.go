package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coursebuild/internal/audit"
	"coursebuild/internal/services"
)

func newTranslitAuditCommand(ctx *commandContext) *cobra.Command {
	var applyFixes bool

	cmd := &cobra.Command{
		Use:   "translit-audit [lesson-id...]",
		Short: "Sweep lessons for transliteration policy violations",
		Long: "Scans script masters and derived documents for forbidden symbols and\n" +
			"legacy tone notation. With --fix, mechanical repairs are applied to script\n" +
			"masters; rerun the script stage afterwards to regenerate documents.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			report, err := audit.Run(cmd.Context(), logger, cfg.Paths.CourseRoot, audit.Options{
				RequireToneMarks: cfg.Policy.RequireToneMarks,
				ApplyFixes:       applyFixes,
				Lessons:          args,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanned %d lesson(s)\n", report.LessonsScanned)

			if len(report.Findings) > 0 {
				rows := make([][]string, 0, len(report.Findings))
				for _, finding := range report.Findings {
					rows = append(rows, []string{finding.LessonID, finding.File, finding.Location, finding.Message})
				}
				fmt.Fprintln(out, renderTable([]string{"Lesson", "File", "Location", "Finding"}, rows))
			}
			if len(report.Fixes) > 0 {
				rows := make([][]string, 0, len(report.Fixes))
				for _, fix := range report.Fixes {
					rows = append(rows, []string{fix.LessonID, fix.Location, fix.Before, fix.After})
				}
				fmt.Fprintln(out, renderTable([]string{"Lesson", "Location", "Before", "After"}, rows))
				fmt.Fprintf(out, "Applied %d fix(es)\n", len(report.Fixes))
			}
			if len(report.ManualReview) > 0 {
				rows := make([][]string, 0, len(report.ManualReview))
				for _, finding := range report.ManualReview {
					rows = append(rows, []string{finding.LessonID, finding.Location, finding.Message})
				}
				fmt.Fprintln(out, renderTable([]string{"Lesson", "Location", "Needs review"}, rows))
			}

			if report.Clean() {
				fmt.Fprintln(out, "No policy violations found")
				return nil
			}
			if applyFixes && len(report.Fixes) > 0 && len(report.ManualReview) == 0 {
				return nil
			}
			return services.Wrap(services.ErrPolicy, "translit-audit", "report",
				fmt.Sprintf("%d finding(s), %d needing manual review", len(report.Findings), len(report.ManualReview)), nil)
		},
	}

	cmd.Flags().BoolVar(&applyFixes, "fix", false, "Apply mechanical repairs to script masters")
	return cmd
}
