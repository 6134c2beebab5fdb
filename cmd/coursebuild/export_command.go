package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coursebuild/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export-flashcards",
		Short: "Rebuild the aggregated flashcard exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root := cfg.Paths.CourseRoot
			if err := export.Rebuild(root); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s\n", export.JSONPath(root))
			fmt.Fprintf(out, "Wrote %s\n", export.XLSXPath(root))
			return nil
		},
	}
}
