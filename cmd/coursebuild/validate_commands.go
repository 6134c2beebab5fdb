package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"coursebuild/internal/services"
	"coursebuild/internal/validate"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [lesson-id...]",
		Short: "Run semantic and schema validation",
		Long: "Runs the full validation suite: folder shape, status rules, transliteration\n" +
			"policy, asset integrity, quiz coverage, and schema conformance. With no\n" +
			"arguments the whole course is validated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root := cfg.Paths.CourseRoot
			requireToneMarks := cfg.Policy.RequireToneMarks

			var issues []validate.Issue
			if len(args) == 0 {
				issues, err = validate.All(root, requireToneMarks)
			} else {
				for _, lessonID := range args {
					var found []validate.Issue
					found, err = validate.Lesson(root, lessonID, requireToneMarks)
					if err != nil {
						break
					}
					issues = append(issues, found...)
				}
			}
			if err != nil {
				return err
			}
			return reportIssues(cmd.OutOrStdout(), issues)
		},
	}
}

func newValidateSchemasCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-schemas [lesson-id...]",
		Short: "Run only the schema conformance gate",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root := cfg.Paths.CourseRoot

			var issues []validate.Issue
			if len(args) == 0 {
				issues, err = validate.SchemasAll(root)
			} else {
				for _, lessonID := range args {
					var found []validate.Issue
					found, err = validate.Schemas(root, lessonID)
					if err != nil {
						break
					}
					issues = append(issues, found...)
				}
			}
			if err != nil {
				return err
			}
			return reportIssues(cmd.OutOrStdout(), issues)
		},
	}
}

func reportIssues(out io.Writer, issues []validate.Issue) error {
	if len(issues) == 0 {
		fmt.Fprintln(out, "Validation passed")
		return nil
	}
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, []string{issue.Path, issue.Message})
	}
	fmt.Fprintln(out, renderTable([]string{"Path", "Issue"}, rows))
	return services.Wrap(services.ErrValidation, "validate", "report",
		fmt.Sprintf("%d issue(s) found", len(issues)), nil)
}
