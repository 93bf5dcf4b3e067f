package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rigcheck/internal/manifest/cache"
	id "rigcheck/pkg/domain"
)

func newManifestInvalidateCmd(e *env) *cobra.Command {
	var apparatus []string
	cmd := &cobra.Command{
		Use:   "manifest-invalidate",
		Short: "Drop cached manifests so the next check reads them from Postgres",
		Long: `Run after editing manifest_entries directly. Without it the server keeps serving
the cached manifest until MANIFEST_CACHE_TTL expires.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids := make([]id.ApparatusID, 0, len(apparatus))
			for _, raw := range apparatus {
				apparatusID, err := id.ParseApparatusID(raw)
				if err != nil {
					return err
				}
				ids = append(ids, apparatusID)
			}

			ctx := cmd.Context()
			client, closeClient, err := e.openRedis(ctx, e.cfg.Redis)
			if err != nil {
				return err
			}
			defer closeClient()

			n, err := cache.Invalidate(ctx, client, ids...)
			if err != nil {
				return err
			}
			e.log.InfoContext(ctx, "manifest cache invalidated", "apparatus", len(ids), "dropped", n)
			fmt.Fprintf(cmd.OutOrStdout(), "dropped %d cached manifest(s)\n", n)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&apparatus, "apparatus", nil, "apparatus id; repeat or comma-separate for several")
	_ = cmd.MarkFlagRequired("apparatus")
	return cmd
}
