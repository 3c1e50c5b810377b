// Package trial implements the time-boxed free-access gate for autopilot
// campaigns.
package trial

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/store"
)

// Gate tracks trial/subscription state. All methods serialize on an internal
// mutex; concurrent evaluations never produce lost updates.
//
// State machine: NotStarted -> Trialing -> {Expired | Paid}. Paid is
// absorbing: once upgraded, trial logic never applies again.
type Gate struct {
	mu           sync.Mutex
	store        store.Store
	durationDays int
	now          func() time.Time
}

// New creates a Gate with the configured trial duration in days.
func New(st store.Store, durationDays int) *Gate {
	if durationDays < 1 {
		durationDays = 1
	}
	return &Gate{store: st, durationDays: durationDays, now: time.Now}
}

// Status evaluates the current trial state against elapsed time and persists
// the refreshed snapshot. An account that never interacted with autopilot
// gets a zero-value NotStarted status.
func (g *Gate) Status(ctx context.Context) (model.TrialStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.evaluateAndPersist(ctx)
}

// StartTrial begins the trial. It is idempotent-guarded: a second call fails
// without touching state.
func (g *Gate) StartTrial(ctx context.Context) (model.TrialStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	current, err := g.load(ctx)
	if err != nil {
		return model.TrialStatus{}, err
	}
	if current.HasStartedTrial {
		return model.TrialStatus{}, eris.New("trial: already started")
	}

	started := g.now().UTC()
	current.HasStartedTrial = true
	current.StartedAt = &started

	status := g.derive(current)
	if err := g.store.SetTrialStatus(ctx, status); err != nil {
		return model.TrialStatus{}, eris.Wrap(err, "trial: persist start")
	}

	zap.L().Info("trial: started",
		zap.Int("duration_days", g.durationDays),
	)
	return status, nil
}

// UpgradeToPaid marks the account paid. Unconditional and idempotent; works
// from any state including Expired.
func (g *Gate) UpgradeToPaid(ctx context.Context) (model.TrialStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	current, err := g.load(ctx)
	if err != nil {
		return model.TrialStatus{}, err
	}
	if !current.IsPaid {
		upgraded := g.now().UTC()
		current.IsPaid = true
		current.UpgradedAt = &upgraded
	}

	status := g.derive(current)
	if err := g.store.SetTrialStatus(ctx, status); err != nil {
		return model.TrialStatus{}, eris.Wrap(err, "trial: persist upgrade")
	}

	zap.L().Info("trial: upgraded to paid")
	return status, nil
}

// CanUseAutopilot evaluates the access decision.
func (g *Gate) CanUseAutopilot(ctx context.Context) (bool, error) {
	status, err := g.Status(ctx)
	if err != nil {
		return false, err
	}
	return status.CanUseAutopilot(), nil
}

func (g *Gate) evaluateAndPersist(ctx context.Context) (model.TrialStatus, error) {
	current, err := g.load(ctx)
	if err != nil {
		return model.TrialStatus{}, err
	}
	status := g.derive(current)
	if err := g.store.SetTrialStatus(ctx, status); err != nil {
		return model.TrialStatus{}, eris.Wrap(err, "trial: persist status")
	}
	return status, nil
}

func (g *Gate) load(ctx context.Context) (model.TrialStatus, error) {
	stored, err := g.store.GetTrialStatus(ctx)
	if err != nil {
		return model.TrialStatus{}, eris.Wrap(err, "trial: load status")
	}
	if stored == nil {
		return model.TrialStatus{}, nil
	}
	return *stored, nil
}

// derive recomputes every time-dependent field from the persisted core.
func (g *Gate) derive(s model.TrialStatus) model.TrialStatus {
	s.IsTrialActive = false
	s.IsExpired = false
	s.TrialDaysRemaining = 0
	s.WarningLevel = model.WarningNone

	if s.IsPaid {
		return s
	}
	if !s.HasStartedTrial || s.StartedAt == nil {
		return s
	}

	elapsedDays := int(g.now().UTC().Sub(s.StartedAt.UTC()).Hours() / 24)
	remaining := g.durationDays - elapsedDays
	if remaining < 0 {
		remaining = 0
	}

	s.TrialDaysRemaining = remaining
	s.IsExpired = remaining == 0
	s.IsTrialActive = !s.IsExpired
	s.WarningLevel = g.warningLevel(s)
	return s
}

func (g *Gate) warningLevel(s model.TrialStatus) model.WarningLevel {
	switch {
	case s.IsExpired:
		return model.WarningExpired
	case s.TrialDaysRemaining <= 3:
		return model.WarningHigh
	case s.TrialDaysRemaining <= g.durationDays/2:
		return model.WarningMedium
	case s.TrialDaysRemaining < g.durationDays:
		return model.WarningLow
	default:
		return model.WarningNone
	}
}
