package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/config"
	"cadence/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var errorsOnly bool

	cmd := &cobra.Command{
		Use:   "status [IDENTITY]",
		Short: "Show analysis records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()

				if len(args) == 1 {
					rec, err := st.Get(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					if rec == nil {
						return fmt.Errorf("no record for identity %q", args[0])
					}
					printRecord(cmd, rec)
					return nil
				}

				var filter []store.Status
				if errorsOnly {
					filter = append(filter, store.StatusError)
				}
				records, err := st.List(cmd.Context(), filter...)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(out, "No analysis records")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						filepath.Base(rec.Path),
						rec.Kind,
						string(rec.Status),
						rec.UpdatedAt.Local().Format(time.DateTime),
						rec.Identity,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Clip", "Kind", "Status", "Updated", "Identity"},
					rows,
					nil,
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&errorsOnly, "errors", false, "Show only errored records")
	return cmd
}

func printRecord(cmd *cobra.Command, rec *store.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Identity: %s\n", rec.Identity)
	fmt.Fprintf(out, "Path:     %s\n", rec.Path)
	fmt.Fprintf(out, "Kind:     %s\n", rec.Kind)
	fmt.Fprintf(out, "Status:   %s\n", rec.Status)
	fmt.Fprintf(out, "Updated:  %s\n", rec.UpdatedAt.Local().Format(time.DateTime))
	if rec.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:    %s\n", rec.ErrorMessage)
	}
	if rec.ResultJSON != "" {
		fmt.Fprintf(out, "Result:   %s\n", rec.ResultJSON)
	}
}
