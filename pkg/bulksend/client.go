// Package bulksend provides a client for the external bulk-send service
// that performs the actual email transmission.
package bulksend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/outreach-cli/internal/drip"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
)

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLimiter paces outgoing send calls with a token-bucket limiter,
// typically the one derived from the campaign's drip plan.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// Client talks to the bulk-send HTTP API. It implements drip.Sender.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a bulk-send client. An empty baseURL leaves the client
// unconfigured; the scheduler refuses to launch through it.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the transport can be used.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// recipient is the wire shape the send API expects per lead.
type recipient struct {
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
}

type sendRequest struct {
	Recipients []recipient       `json:"recipients"`
	Subject    string            `json:"subject"`
	Body       string            `json:"body"`
	Mode       string            `json:"mode"`
	DripConfig *model.DripConfig `json:"drip_config,omitempty"`
}

type sendResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	SentCount int    `json:"sent_count,omitempty"`
}

// Send hands one batch to the service. The call is a single atomic step:
// the service reports acceptance and a sent count, never partial progress.
func (c *Client) Send(ctx context.Context, leads []model.Lead, subject, body string, mode drip.SendMode, dripCfg *model.DripConfig) (drip.SendResult, error) {
	if !c.Configured() {
		return drip.SendResult{}, eris.New("bulksend: client not configured")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return drip.SendResult{}, eris.Wrap(err, "bulksend: rate limit wait")
		}
	}

	recipients := make([]recipient, 0, len(leads))
	for _, lead := range leads {
		recipients = append(recipients, recipient{
			Email:        lead.Email,
			Name:         lead.ContactName,
			BusinessName: lead.BusinessName,
		})
	}

	payload, err := json.Marshal(sendRequest{
		Recipients: recipients,
		Subject:    subject,
		Body:       body,
		Mode:       string(mode),
		DripConfig: dripCfg,
	})
	if err != nil {
		return drip.SendResult{}, eris.Wrap(err, "bulksend: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/send", bytes.NewReader(payload))
	if err != nil {
		return drip.SendResult{}, eris.Wrap(err, "bulksend: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return drip.SendResult{}, eris.Wrap(err, "bulksend: send")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return drip.SendResult{}, eris.Wrap(err, "bulksend: read response")
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return drip.SendResult{}, resilience.NewTransientError(
			fmt.Errorf("bulksend: status %d: %s", resp.StatusCode, string(data)),
			resp.StatusCode,
		)
	}
	if resp.StatusCode != http.StatusOK {
		return drip.SendResult{}, eris.Errorf("bulksend: status %d: %s", resp.StatusCode, string(data))
	}

	var parsed sendResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return drip.SendResult{}, eris.Wrap(err, "bulksend: parse response")
	}

	return drip.SendResult{
		Success:   parsed.Success,
		Error:     parsed.Error,
		SentCount: parsed.SentCount,
	}, nil
}

// Ping verifies connectivity, retrying transient failures. Launch paths call
// it first to fail fast on an unreachable transport.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Configured() {
		return eris.New("bulksend: client not configured")
	}
	return resilience.Do(ctx, resilience.DefaultRetryConfig(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
		if err != nil {
			return eris.Wrap(err, "bulksend: build health request")
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return resilience.NewTransientError(err, 0)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return resilience.NewTransientError(eris.Errorf("bulksend: health status %d", resp.StatusCode), resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return eris.Errorf("bulksend: health status %d", resp.StatusCode)
		}
		return nil
	})
}
