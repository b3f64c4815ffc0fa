package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cadence/internal/config"
	"cadence/internal/identity"
	"cadence/internal/registry"
	"cadence/internal/store"
)

func newRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry IDENTITY",
		Short: "Re-queue an errored clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRegistry(func(cfg *config.Config, st *store.Store, reg *registry.Registry) error {
				outcome, err := reg.Retry(cmd.Context(), identity.ClipIdentity(args[0]))
				if err != nil {
					return err
				}
				rec, err := st.Get(cmd.Context(), outcome.Identity.String())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), renderOutcome(rec.Path, outcome))
				return nil
			})
		},
	}
}
