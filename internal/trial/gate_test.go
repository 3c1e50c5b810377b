package trial

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/store"
)

func newTestGate(t *testing.T, durationDays int) *Gate {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "trial.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return New(st, durationDays)
}

// advance moves the gate's clock forward by the given number of days.
func advance(g *Gate, start time.Time, days int) {
	g.now = func() time.Time { return start.Add(time.Duration(days) * 24 * time.Hour) }
}

func TestGate_NotStarted(t *testing.T) {
	g := newTestGate(t, 14)

	status, err := g.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.HasStartedTrial)
	assert.False(t, status.IsTrialActive)
	assert.False(t, status.IsExpired)
	assert.Equal(t, model.WarningNone, status.WarningLevel)
	assert.False(t, status.CanUseAutopilot())
}

func TestGate_StartTrial(t *testing.T) {
	g := newTestGate(t, 14)
	ctx := context.Background()

	status, err := g.StartTrial(ctx)
	require.NoError(t, err)
	assert.True(t, status.HasStartedTrial)
	assert.True(t, status.IsTrialActive)
	assert.Equal(t, 14, status.TrialDaysRemaining)
	assert.True(t, status.CanUseAutopilot())

	// Idempotent-guarded: second start fails and changes nothing.
	_, err = g.StartTrial(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already started")

	status, err = g.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.IsTrialActive)
}

func TestGate_Expiry(t *testing.T) {
	g := newTestGate(t, 7)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return start }

	_, err := g.StartTrial(ctx)
	require.NoError(t, err)

	advance(g, start, 7)
	status, err := g.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.IsExpired)
	assert.False(t, status.IsTrialActive)
	assert.Zero(t, status.TrialDaysRemaining)
	assert.Equal(t, model.WarningExpired, status.WarningLevel)
	assert.False(t, status.CanUseAutopilot())
}

func TestGate_Monotonicity(t *testing.T) {
	g := newTestGate(t, 14)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return start }

	_, err := g.StartTrial(ctx)
	require.NoError(t, err)

	prev := 15
	for day := 0; day <= 20; day++ {
		advance(g, start, day)
		status, err := g.Status(ctx)
		require.NoError(t, err)
		assert.LessOrEqual(t, status.TrialDaysRemaining, prev, "day %d", day)
		prev = status.TrialDaysRemaining
	}
}

func TestGate_WarningLevels(t *testing.T) {
	g := newTestGate(t, 14)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return start }

	_, err := g.StartTrial(ctx)
	require.NoError(t, err)

	tests := []struct {
		day  int
		want model.WarningLevel
	}{
		{0, model.WarningNone},   // 14 remaining
		{1, model.WarningLow},    // 13 remaining
		{7, model.WarningMedium}, // 7 remaining
		{11, model.WarningHigh},  // 3 remaining
		{14, model.WarningExpired},
	}
	for _, tt := range tests {
		advance(g, start, tt.day)
		status, err := g.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, tt.want, status.WarningLevel, "day %d", tt.day)

		// Every warning level short of expired still permits autopilot.
		if tt.want != model.WarningExpired {
			assert.True(t, status.CanUseAutopilot(), "day %d", tt.day)
		}
	}
}

func TestGate_UpgradeToPaid(t *testing.T) {
	g := newTestGate(t, 7)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return start }

	_, err := g.StartTrial(ctx)
	require.NoError(t, err)

	// Let the trial expire, then upgrade from Expired.
	advance(g, start, 30)
	status, err := g.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.IsExpired)

	status, err = g.UpgradeToPaid(ctx)
	require.NoError(t, err)
	assert.True(t, status.IsPaid)
	assert.False(t, status.IsExpired)
	assert.Equal(t, model.WarningNone, status.WarningLevel)
	assert.True(t, status.CanUseAutopilot())

	// Paid is absorbing: more elapsed time changes nothing.
	advance(g, start, 400)
	ok, err := g.CanUseAutopilot(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// And the upgrade is idempotent.
	status, err = g.UpgradeToPaid(ctx)
	require.NoError(t, err)
	assert.True(t, status.IsPaid)
}

func TestGate_UpgradeWithoutTrial(t *testing.T) {
	g := newTestGate(t, 14)
	status, err := g.UpgradeToPaid(context.Background())
	require.NoError(t, err)
	assert.True(t, status.IsPaid)
	assert.False(t, status.HasStartedTrial)
	assert.True(t, status.CanUseAutopilot())
}
