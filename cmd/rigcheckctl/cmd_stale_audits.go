package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"rigcheck/internal/inventory/models"
	"rigcheck/internal/wiring"
)

func newStaleAuditsCmd(e *env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stale-audits",
		Short: "List formal audits idle for seven days or more",
		Args:  cobra.NoArgs,
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
			now := e.clock().UTC()
			audits, err := svc.Inventory.FindStaleAudits(ctx, now)
			if err != nil {
				return err
			}
			if asJSON {
				return writeStaleAuditsJSON(cmd.OutOrStdout(), audits, now)
			}
			return writeStaleAudits(cmd.OutOrStdout(), audits, now)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

type staleAuditRow struct {
	AuditID        string    `json:"audit_id"`
	ApparatusID    string    `json:"apparatus_id"`
	StationID      string    `json:"station_id"`
	PerformerID    string    `json:"performer_id"`
	LastActivityAt time.Time `json:"last_activity_at"`
	IdleDays       int       `json:"idle_days"`
	Paused         bool      `json:"paused"`
	Audited        int       `json:"audited"`
	Total          int       `json:"total"`
}

func toStaleAuditRows(audits []*models.InProgressAudit, now time.Time) []staleAuditRow {
	rows := make([]staleAuditRow, 0, len(audits))
	for _, a := range audits {
		rows = append(rows, staleAuditRow{
			AuditID:        a.ID.String(),
			ApparatusID:    a.ApparatusID.String(),
			StationID:      a.StationID.String(),
			PerformerID:    a.PerformerID.String(),
			LastActivityAt: a.LastActivityAt,
			IdleDays:       int(now.Sub(a.LastActivityAt) / (24 * time.Hour)),
			Paused:         a.PausedAt != nil,
			Audited:        a.Progress.AuditedCount,
			Total:          a.Progress.TotalItems,
		})
	}
	return rows
}

func writeStaleAudits(w io.Writer, audits []*models.InProgressAudit, now time.Time) error {
	if len(audits) == 0 {
		_, err := fmt.Fprintln(w, "no stale audits")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AUDIT\tAPPARATUS\tSTATION\tIDLE DAYS\tPROGRESS\tPAUSED")
	for _, r := range toStaleAuditRows(audits, now) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d/%d\t%t\n",
			r.AuditID, r.ApparatusID, r.StationID, r.IdleDays, r.Audited, r.Total, r.Paused)
	}
	return tw.Flush()
}

func writeStaleAuditsJSON(w io.Writer, audits []*models.InProgressAudit, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toStaleAuditRows(audits, now))
}
