package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"polyvox/internal/language"
	"polyvox/internal/pipeline"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the merge plan without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			cat, plan, warnings, err := pipeline.Plan(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Packs: ")
			for i, lang := range cat.Languages() {
				if i > 0 {
					fmt.Fprint(out, ", ")
				}
				fmt.Fprintf(out, "%s (%s)", language.DisplayName(lang), lang)
			}
			fmt.Fprintln(out)

			headers := []string{"LINE", "AUDIO", "VARIANT", "SUBTITLE", ""}
			rows := make([][]string, 0, len(plan.Audio))
			for _, key := range plan.Keys() {
				assigned := plan.Audio[key]
				note := ""
				if assigned.Fallback {
					note = "fallback"
				}
				rows = append(rows, []string{
					key.String(), assigned.Language, assigned.Variant, plan.Subtitle[key], note,
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, nil))

			printWarnings(out, warnings)
			fmt.Fprintf(out, "%d lines planned, %d warnings\n", len(plan.Audio), len(warnings))
			return nil
		},
	}
}
