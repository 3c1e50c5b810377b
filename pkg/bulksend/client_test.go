package bulksend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sells-group/outreach-cli/internal/drip"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
)

func TestClientConfigured(t *testing.T) {
	assert.False(t, NewClient("", "key").Configured())
	assert.True(t, NewClient("http://localhost:9999", "").Configured())
}

func TestSendSuccess(t *testing.T) {
	var gotAuth string
	var gotReq sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/send", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(sendResponse{Success: true, SentCount: 2})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	leads := []model.Lead{
		{Email: "a@example.com", ContactName: "Ava", BusinessName: "Ava's Bakery"},
		{Email: "b@example.com", BusinessName: "B Plumbing"},
	}
	res, err := c.Send(context.Background(), leads, "Hi", "Body", drip.SendModeDrip, &model.DripConfig{EmailsPerHour: 25, DelayMinutes: 2})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 2, res.SentCount)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "drip", gotReq.Mode)
	require.Len(t, gotReq.Recipients, 2)
	assert.Equal(t, "a@example.com", gotReq.Recipients[0].Email)
	assert.Equal(t, "Ava's Bakery", gotReq.Recipients[0].BusinessName)
	require.NotNil(t, gotReq.DripConfig)
	assert.Equal(t, 25, gotReq.DripConfig.EmailsPerHour)
}

func TestSendServiceReportedFailure(t *testing.T) {
	// A 200 with success=false is not a Go error: the scheduler inspects
	// the result and pauses the campaign with the verbatim message.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sendResponse{Success: false, Error: "quota exceeded"})
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "k").Send(context.Background(), []model.Lead{{Email: "a@example.com"}}, "s", "b", drip.SendModeInstant, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "quota exceeded", res.Error)
}

func TestSendTransientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Send(context.Background(), []model.Lead{{Email: "a@example.com"}}, "s", "b", drip.SendModeInstant, nil)
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestSendClientErrorNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Send(context.Background(), []model.Lead{{Email: "a@example.com"}}, "s", "b", drip.SendModeInstant, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestSendUnconfigured(t *testing.T) {
	_, err := NewClient("", "").Send(context.Background(), nil, "s", "b", drip.SendModeInstant, nil)
	assert.Error(t, err)
}

func TestSendPacedByLimiter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(sendResponse{Success: true, SentCount: 1})
	}))
	defer srv.Close()

	// One token, refilled hourly: the first send passes, the second must
	// block on the limiter until its context expires.
	c := NewClient(srv.URL, "k", WithLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)))
	leads := []model.Lead{{Email: "a@example.com"}}

	_, err := c.Send(context.Background(), leads, "s", "b", drip.SendModeDrip, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Send(ctx, leads, "s", "b", drip.SendModeDrip, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
	assert.Equal(t, int32(1), calls.Load())
}

func TestPingRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/health", r.URL.Path)
		if calls.Add(1) < 3 {
			http.Error(w, "warming up", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "k").Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPingNonTransientFailsFast(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "k").Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
