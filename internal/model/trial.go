package model

import "time"

// WarningLevel indicates how urgently the operator should be nudged about
// their trial running out. Only "expired" affects access control.
type WarningLevel string

const (
	WarningNone    WarningLevel = "none"
	WarningLow     WarningLevel = "low"
	WarningMedium  WarningLevel = "medium"
	WarningHigh    WarningLevel = "high"
	WarningExpired WarningLevel = "expired"
)

// TrialStatus combines the persisted trial record with fields derived at
// evaluation time. HasStartedTrial, StartedAt, IsPaid and UpgradedAt are
// durable; the rest is recomputed from elapsed time on every evaluation.
type TrialStatus struct {
	HasStartedTrial bool       `json:"has_started_trial"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	IsPaid          bool       `json:"is_paid"`
	UpgradedAt      *time.Time `json:"upgraded_at,omitempty"`

	IsTrialActive      bool         `json:"is_trial_active"`
	IsExpired          bool         `json:"is_expired"`
	TrialDaysRemaining int          `json:"trial_days_remaining"`
	WarningLevel       WarningLevel `json:"warning_level"`
}

// CanUseAutopilot reports whether automated campaigns are permitted under
// this status. Paid access is absorbing and ignores trial state entirely.
func (s TrialStatus) CanUseAutopilot() bool {
	return s.IsPaid || (s.IsTrialActive && !s.IsExpired)
}
