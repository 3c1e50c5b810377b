package drip

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanRate(t *testing.T) {
	tests := []struct {
		eph          int
		wantDelay    int
		wantInterval int
	}{
		{30, 2, 120},
		{60, 1, 60},
		{100, 1, 36},
		{10, 6, 360},
		{1, 60, 3600},
		{7, 8, 514}, // 60/7 floors to 8, 3600/7 rounds to 514
	}
	for _, tt := range tests {
		p := PlanRate(tt.eph)
		assert.Equal(t, tt.wantDelay, p.DelayMinutes, "eph %d", tt.eph)
		assert.Equal(t, tt.wantInterval, p.IntervalSeconds, "eph %d", tt.eph)
	}
}

func TestPlanRate_ClampsToOne(t *testing.T) {
	for _, eph := range []int{0, -5} {
		p := PlanRate(eph)
		assert.Equal(t, 1, p.EmailsPerHour)
		assert.Equal(t, 60, p.DelayMinutes)
		assert.Equal(t, 3600, p.IntervalSeconds)
	}
}

func TestPlanRate_IntervalInvariant(t *testing.T) {
	// For any rate, interval * rate should recover one hour within
	// integer rounding tolerance.
	for eph := 1; eph <= 200; eph++ {
		p := PlanRate(eph)
		recovered := math.Round(float64(p.IntervalSeconds) * float64(eph) / 3600)
		assert.InDelta(t, 1, recovered, 1, "eph %d", eph)
	}
}

func TestEstimateHours(t *testing.T) {
	assert.Equal(t, 3, EstimateHours(90, 30))
	assert.Equal(t, 4, EstimateHours(91, 30))
	assert.Equal(t, 1, EstimateHours(1, 100))
	assert.Equal(t, 0, EstimateHours(0, 30))
	assert.Equal(t, 5, EstimateHours(5, 0)) // clamped rate of 1
}

func TestPlan_Limiter(t *testing.T) {
	p := PlanRate(3600) // one email per second
	l := p.Limiter()
	assert.True(t, l.Allow())
	assert.False(t, l.Allow()) // bucket of one token
}
