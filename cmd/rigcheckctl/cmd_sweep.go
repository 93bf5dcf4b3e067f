package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rigcheck/internal/wiring"
)

func newSweepCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Abandon inventory checks idle for four hours or more",
		Long: `Runs one pass of the stale-check sweep the server performs every few minutes.
Useful when the server runs with the sweeper disabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := e.openDB(ctx, e.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			svc, err := wiring.NewServices(db, e.cfg, e.log, nil)
			if err != nil {
				return err
			}
			n, err := svc.Inventory.AbandonStaleChecks(ctx, e.clock().UTC())
			fmt.Fprintf(cmd.OutOrStdout(), "abandoned %d stale check(s)\n", n)
			return err
		},
	}
}
