// Package model defines the core domain types shared across the outreach engine.
package model

import "strings"

// Classification is a discretized conversion-likelihood bucket derived from
// a lead's score.
type Classification string

const (
	ClassificationHot  Classification = "hot"
	ClassificationWarm Classification = "warm"
	ClassificationCold Classification = "cold"
)

// CampaignMode selects between operator-driven and fully automated sending.
type CampaignMode string

const (
	ModeManual    CampaignMode = "manual"
	ModeAutopilot CampaignMode = "autopilot"
)

// WebsiteProfile holds web-presence signals for a lead.
type WebsiteProfile struct {
	HasWebsite   bool     `json:"has_website"`
	Platform     string   `json:"platform,omitempty"`
	NeedsUpgrade bool     `json:"needs_upgrade"`
	MobileScore  *int     `json:"mobile_score,omitempty"` // 0-100, nil when never measured
	Issues       []string `json:"issues,omitempty"`
}

// Lead is a prospective business contact. Leads are immutable inputs to
// scoring; classification and score are derived, never written back.
type Lead struct {
	ID            string          `json:"id,omitempty"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	ContactName   string          `json:"contact_name,omitempty"`
	BusinessName  string          `json:"business_name"`
	Industry      string          `json:"industry,omitempty"`
	Rating        float64         `json:"rating,omitempty"`
	ReviewCount   int             `json:"review_count,omitempty"`
	Website       *WebsiteProfile `json:"website,omitempty"`
	PainPoints    []string        `json:"pain_points,omitempty"`
	Opportunities []string        `json:"opportunities,omitempty"`
}

// Key returns the lead's identity: the explicit ID when present, otherwise
// a key derived from the lowercased email address.
func (l Lead) Key() string {
	if l.ID != "" {
		return l.ID
	}
	return strings.ToLower(strings.TrimSpace(l.Email))
}

// ScoreResult is the outcome of scoring a single lead. Reasons are for
// display only and carry no downstream logic.
type ScoreResult struct {
	Score          int            `json:"score"`
	Classification Classification `json:"classification"`
	Reasons        []string       `json:"reasons,omitempty"`
}

// PainPointCount pairs a pain-point tag with its frequency in a batch.
type PainPointCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// BatchStats aggregates per-lead score results over a lead batch. It is
// recomputed whenever the batch changes, never patched incrementally.
type BatchStats struct {
	Total                  int              `json:"total"`
	HotCount               int              `json:"hot_count"`
	WarmCount              int              `json:"warm_count"`
	ColdCount              int              `json:"cold_count"`
	NoWebsiteCount         int              `json:"no_website_count"`
	NeedsUpgradeCount      int              `json:"needs_upgrade_count"`
	PoorMobileCount        int              `json:"poor_mobile_count"`
	TopPainPoints          []PainPointCount `json:"top_pain_points,omitempty"`
	DominantClassification Classification   `json:"dominant_classification"`
}

// CountFor returns the batch count for the given classification.
func (s BatchStats) CountFor(c Classification) int {
	switch c {
	case ClassificationHot:
		return s.HotCount
	case ClassificationCold:
		return s.ColdCount
	default:
		return s.WarmCount
	}
}
