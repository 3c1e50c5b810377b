package model

import "time"

// AuditType identifies a lifecycle event recorded in the audit log.
type AuditType string

const (
	AuditSequenceSelected  AuditType = "sequence_selected"
	AuditTrialStarted      AuditType = "trial_started"
	AuditPlanUpgraded      AuditType = "plan_upgraded"
	AuditCampaignLaunched  AuditType = "campaign_launched"
	AuditCampaignPaused    AuditType = "campaign_paused"
	AuditCampaignResumed   AuditType = "campaign_resumed"
	AuditCampaignCompleted AuditType = "campaign_completed"
)

// AuditEntry is one append-only event. Entries are never mutated or deleted.
type AuditEntry struct {
	ID        string         `json:"id"`
	Type      AuditType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	ActorID   string         `json:"actor_id"`
	Payload   map[string]any `json:"payload,omitempty"`
}
