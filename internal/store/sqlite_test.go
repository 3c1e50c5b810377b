package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testCampaign(status model.CampaignStatus) *model.CampaignRecord {
	now := time.Now().UTC().Truncate(time.Second)
	return &model.CampaignRecord{
		ID:        uuid.New().String(),
		Status:    status,
		CreatedAt: now,
		Template:  model.Template{Subject: "Hello", Body: "World"},
		Leads:     []model.Lead{{Email: "a@example.com", Phone: "5550100123"}},
		TotalLeads: 1,
		Drip:       model.DripConfig{EmailsPerHour: 30, DelayMinutes: 2},
	}
}

// --- Trial status ---

func TestSQLite_TrialStatus_AbsentIsNil(t *testing.T) {
	st := newTestSQLiteStore(t)
	status, err := st.GetTrialStatus(context.Background())
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestSQLite_TrialStatus_RoundTrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	started := time.Now().UTC().Truncate(time.Second)
	in := model.TrialStatus{HasStartedTrial: true, StartedAt: &started}
	require.NoError(t, st.SetTrialStatus(ctx, in))

	out, err := st.GetTrialStatus(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, out.HasStartedTrial)
	assert.True(t, out.StartedAt.Equal(started))

	// Upsert replaces the single record.
	in.IsPaid = true
	require.NoError(t, st.SetTrialStatus(ctx, in))
	out, err = st.GetTrialStatus(ctx)
	require.NoError(t, err)
	assert.True(t, out.IsPaid)
}

// --- Campaigns ---

func TestSQLite_Campaign_RoundTrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	record := testCampaign(model.CampaignStatusActive)
	require.NoError(t, st.SaveCampaign(ctx, record))

	got, err := st.GetCampaign(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, model.CampaignStatusActive, got.Status)
	assert.Equal(t, record.Template, got.Template)
	assert.Len(t, got.Leads, 1)
}

func TestSQLite_Campaign_MissingIsNil(t *testing.T) {
	st := newTestSQLiteStore(t)
	got, err := st.GetCampaign(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_Campaign_RequiresID(t *testing.T) {
	st := newTestSQLiteStore(t)
	err := st.SaveCampaign(context.Background(), &model.CampaignRecord{})
	require.Error(t, err)
}

func TestSQLite_ActiveCampaign(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	active, err := st.ActiveCampaign(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	paused := testCampaign(model.CampaignStatusPaused)
	require.NoError(t, st.SaveCampaign(ctx, paused))
	running := testCampaign(model.CampaignStatusActive)
	require.NoError(t, st.SaveCampaign(ctx, running))

	active, err = st.ActiveCampaign(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, running.ID, active.ID)

	// Pausing the running campaign clears the active slot.
	running.Status = model.CampaignStatusPaused
	require.NoError(t, st.SaveCampaign(ctx, running))
	active, err = st.ActiveCampaign(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestSQLite_ListCampaigns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		record := testCampaign(model.CampaignStatusCompleted)
		record.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		require.NoError(t, st.SaveCampaign(ctx, record))
	}

	list, err := st.ListCampaigns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

// --- Audit log ---

func TestSQLite_Audit_AppendAndList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i, typ := range []model.AuditType{model.AuditTrialStarted, model.AuditCampaignLaunched} {
		entry := model.AuditEntry{
			ID:        uuid.New().String(),
			Type:      typ,
			ActorID:   "operator-1",
			Timestamp: time.Now().UTC().Add(time.Duration(i) * time.Second),
			Payload:   map[string]any{"seq": float64(i)},
		}
		require.NoError(t, st.AppendAudit(ctx, entry))
	}

	entries, err := st.ListAudit(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, model.AuditCampaignLaunched, entries[0].Type)
	assert.Equal(t, map[string]any{"seq": float64(1)}, entries[0].Payload)
}

// --- Drip config preference ---

func TestSQLite_DripConfig_RoundTrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	cfg, err := st.GetDripConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	require.NoError(t, st.SetDripConfig(ctx, model.DripConfig{EmailsPerHour: 40, DelayMinutes: 1}))
	require.NoError(t, st.SetDripConfig(ctx, model.DripConfig{EmailsPerHour: 25, DelayMinutes: 2}))

	cfg, err = st.GetDripConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 25, cfg.EmailsPerHour)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
