package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"polyvox/internal/pipeline"
	"polyvox/internal/report"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var stripEffect bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Merge the configured language packs into the output pack",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			rep, err := pipeline.Run(cmd.Context(), cfg, pipeline.Options{StripEffect: stripEffect}, logger)
			out := cmd.OutOrStdout()
			if rep != nil {
				printWarnings(out, rep.Warnings)
				fmt.Fprintln(out, rep.Summary())
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&stripEffect, "strip-effect", false, "Rebuild subtitles without translation-effect markup")
	return cmd
}

func printWarnings(out io.Writer, warnings []report.Warning) {
	if len(warnings) == 0 {
		return
	}
	headers := []string{"STAGE", "LINE", "REASON", "DETAIL"}
	rows := make([][]string, 0, len(warnings))
	for _, w := range warnings {
		rows = append(rows, []string{w.Stage, w.Key, w.Reason, w.Detail})
	}
	fmt.Fprintln(out, renderTable(headers, rows, nil))
}
