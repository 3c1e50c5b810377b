package model

// SequenceStep is one message in a multi-day outreach sequence.
type SequenceStep struct {
	DayOffset int    `json:"day_offset" yaml:"day_offset"`
	Action    string `json:"action" yaml:"action"`
	Subject   string `json:"subject" yaml:"subject"`
	Body      string `json:"body" yaml:"body"`
}

// SequenceDefinition is a static, read-only outreach sequence targeting a
// given context and priority classification.
type SequenceDefinition struct {
	ID       string         `json:"id" yaml:"id"`
	Context  string         `json:"context" yaml:"context"`
	Priority Classification `json:"priority" yaml:"priority"`
	Name     string         `json:"name" yaml:"name"`
	Tags     []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Steps    []SequenceStep `json:"steps" yaml:"steps"`
}

// SequenceRecommendation is one ranked entry in a recommendation list.
// Recommendations are recomputed from scratch on every batch change.
type SequenceRecommendation struct {
	Sequence              SequenceDefinition `json:"sequence"`
	Score                 int                `json:"score"` // clamped to [0,100]
	Reason                string             `json:"reason"`
	MatchedLeadCount      int                `json:"matched_lead_count"`
	EstimatedResponseRate string             `json:"estimated_response_rate"`
}
