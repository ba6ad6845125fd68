package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"polyvox/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var showWarnings string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show merge run history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := runstore.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()

			if showWarnings != "" {
				warnings, err := store.Warnings(cmd.Context(), showWarnings)
				if err != nil {
					return err
				}
				if len(warnings) == 0 {
					fmt.Fprintf(out, "No warnings recorded for run %s\n", showWarnings)
					return nil
				}
				printWarnings(out, warnings)
				return nil
			}

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			headers := []string{"RUN", "STARTED", "DURATION", "STATUS", "LINES", "WARNINGS"}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.RunID,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.FinishedAt.Sub(run.StartedAt).Round(10 * time.Millisecond).String(),
					string(run.Status),
					strconv.Itoa(run.Lines),
					strconv.Itoa(run.Warnings),
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{
				alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight,
			}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&showWarnings, "warnings", "", "Show the warnings recorded for a run id")
	return cmd
}
