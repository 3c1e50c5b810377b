package drip

import (
	"math"
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Plan holds the timing parameters derived from a target send rate.
type Plan struct {
	EmailsPerHour   int
	DelayMinutes    int
	IntervalSeconds int
}

// PlanRate converts a target emails-per-hour into pacing parameters.
// Non-positive rates are silently clamped to 1 rather than rejected.
func PlanRate(emailsPerHour int) Plan {
	if emailsPerHour < 1 {
		emailsPerHour = 1
	}
	delay := 60 / emailsPerHour
	if delay < 1 {
		delay = 1
	}
	return Plan{
		EmailsPerHour:   emailsPerHour,
		DelayMinutes:    delay,
		IntervalSeconds: int(math.Round(3600 / float64(emailsPerHour))),
	}
}

// Config returns the plan as a persistable DripConfig.
func (p Plan) Config() model.DripConfig {
	return model.DripConfig{
		EmailsPerHour: p.EmailsPerHour,
		DelayMinutes:  p.DelayMinutes,
	}
}

// Interval returns the pause between consecutive sends.
func (p Plan) Interval() time.Duration {
	return time.Duration(p.IntervalSeconds) * time.Second
}

// Limiter builds a token-bucket limiter matching the plan's rate, for
// callers that dispatch step by step instead of delegating a whole batch.
func (p Plan) Limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(p.Interval()), 1)
}

// EstimateHours returns the completion estimate surfaced to the operator.
// It is an estimate, not an enforced deadline.
func EstimateHours(leadCount, emailsPerHour int) int {
	if emailsPerHour < 1 {
		emailsPerHour = 1
	}
	if leadCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(leadCount) / float64(emailsPerHour)))
}
