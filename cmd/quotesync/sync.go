package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch server quotes once and merge them into the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApplication(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close(ctx)

			report, err := a.service.TriggerSync(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", report.Status.Message, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.Status.Message)
			fmt.Fprintf(cmd.OutOrStdout(), "fetched %d, total %d\n", report.Fetched, report.Total)

			return nil
		},
	}
}
