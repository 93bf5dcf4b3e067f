// Package wiring builds the postgres-backed services shared by the server and the
// operator CLI.
package wiring

import (
	"database/sql"
	"log/slog"

	"rigcheck/internal/access"
	accessstore "rigcheck/internal/access/store"
	equipmentstore "rigcheck/internal/equipment/store"
	inventorymetrics "rigcheck/internal/inventory/metrics"
	inventoryservice "rigcheck/internal/inventory/service"
	auditstore "rigcheck/internal/inventory/store/audit"
	checkstore "rigcheck/internal/inventory/store/check"
	issuemetrics "rigcheck/internal/issue/metrics"
	issueservice "rigcheck/internal/issue/service"
	issuestore "rigcheck/internal/issue/store"
	"rigcheck/internal/platform/config"
	"rigcheck/pkg/platform/audit/publisher"
	auditpostgres "rigcheck/pkg/platform/audit/store/postgres"
	"rigcheck/pkg/platform/tx"
)

// Services is the wired domain layer.
type Services struct {
	Inventory  *inventoryservice.Service
	Issues     *issueservice.Service
	AuditStore *auditpostgres.Store
	Tx         tx.Runner
}

// NewServices wires the inventory and issue services over db. A nil manifests uses the
// uncached postgres manifests.
func NewServices(db *sql.DB, cfg config.Config, log *slog.Logger, manifests inventoryservice.ManifestProvider) (*Services, error) {
	runner := tx.NewSQLRunner(db, cfg.Server.TxTimeout)
	auditStore := auditpostgres.New(db)
	events := publisher.NewPublisher(auditStore,
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics()),
	)
	evaluator := access.NewEvaluator(accessstore.NewPostgres(db))
	equipment := equipmentstore.NewPostgres(db)
	if manifests == nil {
		manifests = manifeststoreFor(db)
	}

	issues := issueservice.New(issuestore.NewPostgres(db), evaluator, runner,
		issueservice.WithLogger(log),
		issueservice.WithAuditPublisher(events),
		issueservice.WithMetrics(issuemetrics.New()),
		issueservice.WithEquipmentLookup(equipment),
	)
	inventory, err := inventoryservice.New(inventoryservice.Deps{
		Checks:    checkstore.NewPostgres(db),
		Audits:    auditstore.NewPostgres(db),
		Manifests: manifests,
		Equipment: equipment,
		Issues:    issues,
		Access:    evaluator,
		Tx:        runner,
	},
		inventoryservice.WithLogger(log),
		inventoryservice.WithAuditPublisher(events),
		inventoryservice.WithMetrics(inventorymetrics.New()),
	)
	if err != nil {
		return nil, err
	}
	return &Services{Inventory: inventory, Issues: issues, AuditStore: auditStore, Tx: runner}, nil
}
