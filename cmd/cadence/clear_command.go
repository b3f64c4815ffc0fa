package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cadence/internal/config"
	"cadence/internal/store"
)

func newClearCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove errored analysis records",
		Long:  "Clear removes errored records so their clips can be analyzed fresh. With --all, every record is removed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()
				if all {
					if err := st.Clear(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(out, "Cleared all analysis records")
					return nil
				}
				if err := st.ClearErrored(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "Cleared errored analysis records")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every record, not just errored ones")
	return cmd
}
