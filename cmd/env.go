package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/audit"
	"github.com/sells-group/outreach-cli/internal/catalog"
	"github.com/sells-group/outreach-cli/internal/drip"
	"github.com/sells-group/outreach-cli/internal/store"
	"github.com/sells-group/outreach-cli/internal/trial"
	"github.com/sells-group/outreach-cli/pkg/bulksend"
)

// appEnv holds the initialized store, trial gate, and scheduler shared by
// the campaign/trial/serve commands.
type appEnv struct {
	Store     store.Store
	Gate      *trial.Gate
	Audit     *audit.Log
	Sender    *bulksend.Client
	Scheduler *drip.Scheduler
	Catalog   *catalog.Catalog
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv opens the store, runs migrations, and wires the trial gate, audit
// log, bulk-send client, and scheduler. Callers should defer env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	cat, err := loadCatalog()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	gate := trial.New(st, cfg.Trial.DurationDays)
	auditLog := audit.New(st, "cli")
	sender := bulksend.NewClient(cfg.BulkSend.BaseURL, cfg.BulkSend.Key,
		bulksend.WithLimiter(drip.PlanRate(cfg.Drip.EmailsPerHour).Limiter()))
	sched := drip.NewScheduler(st, gate, sender, auditLog,
		time.Duration(cfg.Drip.SendTimeoutSecs)*time.Second)

	return &appEnv{
		Store:     st,
		Gate:      gate,
		Audit:     auditLog,
		Sender:    sender,
		Scheduler: sched,
		Catalog:   cat,
	}, nil
}

// loadCatalog returns the built-in sequence catalog, overlaid with the
// configured YAML file when one is set.
func loadCatalog() (*catalog.Catalog, error) {
	if cfg.Catalog.Path != "" {
		return catalog.LoadFile(cfg.Catalog.Path)
	}
	return catalog.Default(), nil
}
