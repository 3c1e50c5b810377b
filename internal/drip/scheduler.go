// Package drip schedules rate-limited campaign dispatch and drives the
// campaign lifecycle state machine.
package drip

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/audit"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/store"
	"github.com/sells-group/outreach-cli/internal/trial"
)

// SendMode selects between immediate and paced dispatch by the collaborator.
type SendMode string

const (
	SendModeInstant SendMode = "instant"
	SendModeDrip    SendMode = "drip"
)

// SendResult is the collaborator's report for one batch handoff. The core
// never inspects transport internals beyond these three fields.
type SendResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	SentCount int    `json:"sent_count,omitempty"`
}

// Sender is the external bulk-send collaborator.
type Sender interface {
	Send(ctx context.Context, leads []model.Lead, subject, body string, mode SendMode, drip *model.DripConfig) (SendResult, error)
	Configured() bool
}

// LaunchRequest carries everything needed to start a campaign. Leads are
// expected to be eligibility-filtered already.
type LaunchRequest struct {
	Template      *model.Template
	Sequence      *model.SequenceDefinition
	Leads         []model.Lead
	EmailsPerHour int

	// Supersede pauses a currently active campaign instead of failing the
	// launch. Off by default: one active campaign per account is a guarded
	// invariant, not an accidental overwrite.
	Supersede bool
}

// Scheduler drives campaign state: draft -> active -> paused -> completed.
// All mutating methods serialize on an internal mutex (single-writer
// discipline over the shared campaign record).
type Scheduler struct {
	mu          sync.Mutex
	store       store.Store
	gate        *trial.Gate
	sender      Sender
	audit       *audit.Log
	sendTimeout time.Duration
	now         func() time.Time
}

// NewScheduler creates a Scheduler. sendTimeout bounds the collaborator
// call; zero means one hour.
func NewScheduler(st store.Store, gate *trial.Gate, sender Sender, auditLog *audit.Log, sendTimeout time.Duration) *Scheduler {
	if sendTimeout <= 0 {
		sendTimeout = time.Hour
	}
	return &Scheduler{
		store:       st,
		gate:        gate,
		sender:      sender,
		audit:       auditLog,
		sendTimeout: sendTimeout,
		now:         time.Now,
	}
}

// Launch validates the request, creates an active campaign record, hands the
// batch to the bulk-send collaborator and records the outcome.
//
// On a collaborator failure the freshly created record transitions to paused
// and the collaborator's error message is returned verbatim as a
// TransportError. Validation and authorization failures create no state.
func (s *Scheduler) Launch(ctx context.Context, req LaunchRequest) (*model.CampaignRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	canUse, err := s.gate.CanUseAutopilot(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "drip: check autopilot access")
	}
	if !canUse {
		return nil, &AuthorizationError{Message: "autopilot requires an active trial or subscription"}
	}

	if s.sender == nil || !s.sender.Configured() {
		return nil, &ValidationError{Message: "email transport is not configured"}
	}
	if len(req.Leads) == 0 {
		return nil, &ValidationError{Message: "no eligible leads to send to"}
	}

	subject, body, err := resolveMessage(req.Template, req.Sequence)
	if err != nil {
		return nil, err
	}

	active, err := s.store.ActiveCampaign(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "drip: check active campaign")
	}
	if active != nil {
		if !req.Supersede {
			return nil, &ValidationError{Message: fmt.Sprintf("campaign %s is already active", active.ID)}
		}
		if err := s.transition(ctx, active, model.CampaignStatusPaused, model.AuditCampaignPaused); err != nil {
			return nil, err
		}
	}

	plan := PlanRate(req.EmailsPerHour)
	now := s.now().UTC()

	// Snapshot the lead list: later mutation of the source batch must not
	// change an in-flight campaign's membership.
	leads := make([]model.Lead, len(req.Leads))
	copy(leads, req.Leads)

	record := &model.CampaignRecord{
		ID:         uuid.New().String(),
		Status:     model.CampaignStatusActive,
		CreatedAt:  now,
		StartedAt:  &now,
		Template:   model.Template{Subject: subject, Body: body},
		Sequence:   req.Sequence,
		Leads:      leads,
		TotalLeads: len(leads),
		Drip:       plan.Config(),
	}

	// The record must be durable before the transport call; a crash
	// mid-send leaves a visible, resumable campaign.
	if err := s.store.SaveCampaign(ctx, record); err != nil {
		return nil, eris.Wrap(err, "drip: persist campaign")
	}

	zap.L().Info("drip: campaign launched",
		zap.String("campaign", record.ID),
		zap.Int("leads", record.TotalLeads),
		zap.Int("emails_per_hour", plan.EmailsPerHour),
		zap.Int("estimated_hours", EstimateHours(record.TotalLeads, plan.EmailsPerHour)),
	)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	cfg := plan.Config()
	result, sendErr := s.sender.Send(sendCtx, leads, subject, body, SendModeDrip, &cfg)
	if sendErr != nil || !result.Success {
		msg := result.Error
		if msg == "" && sendErr != nil {
			msg = sendErr.Error()
		}
		record.Status = model.CampaignStatusPaused
		if err := s.store.SaveCampaign(ctx, record); err != nil {
			return record, eris.Wrap(err, "drip: persist paused campaign")
		}
		zap.L().Warn("drip: transport failure, campaign paused",
			zap.String("campaign", record.ID),
			zap.String("error", msg),
		)
		return record, &TransportError{Message: msg}
	}

	record.SentCount = result.SentCount
	sentAt := s.now().UTC()
	record.LastSentAt = &sentAt
	if record.SentCount >= record.TotalLeads {
		record.Status = model.CampaignStatusCompleted
	}
	if err := s.store.SaveCampaign(ctx, record); err != nil {
		return record, eris.Wrap(err, "drip: persist campaign result")
	}

	s.logAudit(ctx, model.AuditCampaignLaunched, map[string]any{
		"campaign_id":     record.ID,
		"total_leads":     record.TotalLeads,
		"sent_count":      record.SentCount,
		"emails_per_hour": plan.EmailsPerHour,
	})
	if record.Status == model.CampaignStatusCompleted {
		s.logAudit(ctx, model.AuditCampaignCompleted, map[string]any{"campaign_id": record.ID})
	}

	return record, nil
}

// Pause stops an active campaign. Cooperative: it removes the campaign from
// dispatch consideration but cannot interrupt a send already delegated to
// the collaborator.
func (s *Scheduler) Pause(ctx context.Context, id string) (*model.CampaignRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != model.CampaignStatusActive {
		return nil, &ValidationError{Message: fmt.Sprintf("campaign %s is %s, not active", id, record.Status)}
	}
	if err := s.transition(ctx, record, model.CampaignStatusPaused, model.AuditCampaignPaused); err != nil {
		return nil, err
	}
	return record, nil
}

// Resume reactivates a paused campaign. It only mutates status; re-dispatch
// of in-flight sends is the transport collaborator's concern.
func (s *Scheduler) Resume(ctx context.Context, id string) (*model.CampaignRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != model.CampaignStatusPaused {
		return nil, &ValidationError{Message: fmt.Sprintf("campaign %s is %s, not paused", id, record.Status)}
	}

	// Same single-active guard as Launch: a superseded campaign cannot be
	// resumed underneath the one that replaced it.
	active, err := s.store.ActiveCampaign(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "drip: check active campaign")
	}
	if active != nil && active.ID != record.ID {
		return nil, &ValidationError{Message: fmt.Sprintf("campaign %s is already active", active.ID)}
	}

	if err := s.transition(ctx, record, model.CampaignStatusActive, model.AuditCampaignResumed); err != nil {
		return nil, err
	}
	return record, nil
}

// Active returns the currently active campaign, or nil when there is none.
func (s *Scheduler) Active(ctx context.Context) (*model.CampaignRecord, error) {
	record, err := s.store.ActiveCampaign(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "drip: load active campaign")
	}
	return record, nil
}

func (s *Scheduler) getCampaign(ctx context.Context, id string) (*model.CampaignRecord, error) {
	record, err := s.store.GetCampaign(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "drip: load campaign %s", id)
	}
	if record == nil {
		return nil, &ValidationError{Message: fmt.Sprintf("campaign %s not found", id)}
	}
	return record, nil
}

func (s *Scheduler) transition(ctx context.Context, record *model.CampaignRecord, to model.CampaignStatus, event model.AuditType) error {
	from := record.Status
	record.Status = to
	if err := s.store.SaveCampaign(ctx, record); err != nil {
		record.Status = from
		return eris.Wrapf(err, "drip: transition campaign %s to %s", record.ID, to)
	}
	zap.L().Info("drip: campaign transition",
		zap.String("campaign", record.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	s.logAudit(ctx, event, map[string]any{"campaign_id": record.ID})
	return nil
}

// logAudit records a lifecycle event. Audit failures are logged, not
// propagated; they never roll back a completed transition.
func (s *Scheduler) logAudit(ctx context.Context, typ model.AuditType, payload map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, typ, payload); err != nil {
		zap.L().Warn("drip: audit write failed",
			zap.String("type", string(typ)),
			zap.Error(err),
		)
	}
}

// resolveMessage picks the subject and body: an explicit template wins,
// otherwise the first sequence step supplies both.
func resolveMessage(tmpl *model.Template, seq *model.SequenceDefinition) (string, string, error) {
	if tmpl != nil && tmpl.Subject != "" && tmpl.Body != "" {
		return tmpl.Subject, tmpl.Body, nil
	}
	if seq != nil && len(seq.Steps) > 0 {
		first := seq.Steps[0]
		if first.Subject != "" && first.Body != "" {
			return first.Subject, first.Body, nil
		}
	}
	return "", "", &ValidationError{Message: "a subject and body are required: provide a template or a sequence with steps"}
}
