// Package store persists the engine's durable state: the trial record,
// campaign records, the append-only audit log and the operator's drip
// preference.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Store is the persistence contract shared by the trial gate, the drip
// scheduler and the audit log. Absent records come back as nil, not errors.
type Store interface {
	// Trial status (single record per store).
	GetTrialStatus(ctx context.Context) (*model.TrialStatus, error)
	SetTrialStatus(ctx context.Context, status model.TrialStatus) error

	// Campaigns.
	SaveCampaign(ctx context.Context, record *model.CampaignRecord) error
	GetCampaign(ctx context.Context, id string) (*model.CampaignRecord, error)
	ActiveCampaign(ctx context.Context) (*model.CampaignRecord, error)
	ListCampaigns(ctx context.Context, limit int) ([]model.CampaignRecord, error)

	// Audit log (append-only).
	AppendAudit(ctx context.Context, entry model.AuditEntry) error
	ListAudit(ctx context.Context, limit int) ([]model.AuditEntry, error)

	// Drip preference.
	GetDripConfig(ctx context.Context) (*model.DripConfig, error)
	SetDripConfig(ctx context.Context, cfg model.DripConfig) error

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a store for the configured driver.
func Open(ctx context.Context, driver, databaseURL string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(databaseURL)
	case "postgres":
		return NewPostgres(ctx, databaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
