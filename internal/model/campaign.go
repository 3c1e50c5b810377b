package model

import "time"

// CampaignStatus represents the lifecycle state of a campaign record.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// DripConfig holds the pacing parameters for a drip campaign.
type DripConfig struct {
	EmailsPerHour int `json:"emails_per_hour"`
	DelayMinutes  int `json:"delay_minutes"`
}

// Template is a subject/body snapshot taken at launch time.
type Template struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// CampaignRecord is the durable state of one launched campaign. Leads are
// snapshotted at launch; later changes to the source batch do not affect an
// in-flight campaign's membership. Only the drip scheduler mutates a record.
type CampaignRecord struct {
	ID         string              `json:"id"`
	Status     CampaignStatus      `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	StartedAt  *time.Time          `json:"started_at,omitempty"`
	Template   Template            `json:"template"`
	Sequence   *SequenceDefinition `json:"sequence,omitempty"`
	Leads      []Lead              `json:"leads"`
	TotalLeads int                 `json:"total_leads"`
	SentCount  int                 `json:"sent_count"`
	Drip       DripConfig          `json:"drip"`
	LastSentAt *time.Time          `json:"last_sent_at,omitempty"`
}
