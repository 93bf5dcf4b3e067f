package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rigcheck/pkg/platform/audit/relay"
	auditpostgres "rigcheck/pkg/platform/audit/store/postgres"
)

func newPurgeOutboxCmd(e *env) *cobra.Command {
	var retention time.Duration
	cmd := &cobra.Command{
		Use:   "purge-outbox",
		Short: "Delete relayed outbox rows older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := e.openDB(ctx, e.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if retention <= 0 {
				retention = e.cfg.Outbox.Retention
			}
			n, err := relay.NewPurger(auditpostgres.New(db), retention, e.log).PurgeOnce(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d outbox row(s)\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&retention, "retention", 0, "override OUTBOX_RETENTION")
	return cmd
}
