package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cadence/internal/config"
	"cadence/internal/store"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Summarize the analysis database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				health, err := st.Health(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Analysis records", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Database", statusInfo, st.Path(), colorize))
				fmt.Fprintln(out, renderStatusLine("Total", statusInfo, fmt.Sprintf("%d", health.Total), colorize))
				fmt.Fprintln(out, renderStatusLine("Ready", statusOK, fmt.Sprintf("%d", health.Ready), colorize))
				fmt.Fprintln(out, renderStatusLine("Analyzing", statusInfo, fmt.Sprintf("%d", health.Analyzing), colorize))
				fmt.Fprintln(out, renderStatusLine("Pending", statusInfo, fmt.Sprintf("%d", health.Pending), colorize))

				errKind := statusOK
				if health.Errored > 0 {
					errKind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine("Errored", errKind, fmt.Sprintf("%d", health.Errored), colorize))
				return nil
			})
		},
	}
}
