package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/pkg/bulksend"
)

func TestCheckTransportHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := checkTransport(context.Background(), bulksend.NewClient(srv.URL, "k"))
	assert.NoError(t, err)
}

func TestCheckTransportUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	err := checkTransport(context.Background(), bulksend.NewClient(srv.URL, "k"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bulk-send service unreachable")
}

func TestCheckTransportUnconfigured(t *testing.T) {
	err := checkTransport(context.Background(), bulksend.NewClient("", ""))
	assert.Error(t, err)
}

func TestResolveEmailsPerHour(t *testing.T) {
	origCfg := cfg
	cfg = &config.Config{}
	cfg.Drip.EmailsPerHour = 25
	t.Cleanup(func() { cfg = origCfg })

	env := newTestEnv(t)
	ctx := context.Background()

	// No flag, no saved preference: config default.
	assert.Equal(t, 25, resolveEmailsPerHour(ctx, env, 0))

	// Explicit flag wins and becomes the saved preference.
	assert.Equal(t, 40, resolveEmailsPerHour(ctx, env, 40))
	saved, err := env.Store.GetDripConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 40, saved.EmailsPerHour)

	// Subsequent launches without the flag reuse the preference.
	assert.Equal(t, 40, resolveEmailsPerHour(ctx, env, 0))
}
