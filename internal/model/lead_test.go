package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLead_Key(t *testing.T) {
	tests := []struct {
		name string
		lead Lead
		want string
	}{
		{"explicit id wins", Lead{ID: "lead-1", Email: "a@b.com"}, "lead-1"},
		{"derived from email", Lead{Email: "Owner@Example.COM"}, "owner@example.com"},
		{"email trimmed", Lead{Email: "  a@b.com "}, "a@b.com"},
		{"empty lead", Lead{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lead.Key())
		})
	}
}

func TestBatchStats_CountFor(t *testing.T) {
	s := BatchStats{HotCount: 3, WarmCount: 5, ColdCount: 2}
	assert.Equal(t, 3, s.CountFor(ClassificationHot))
	assert.Equal(t, 5, s.CountFor(ClassificationWarm))
	assert.Equal(t, 2, s.CountFor(ClassificationCold))
}

func TestTrialStatus_CanUseAutopilot(t *testing.T) {
	assert.True(t, TrialStatus{IsPaid: true, IsExpired: true}.CanUseAutopilot())
	assert.True(t, TrialStatus{IsTrialActive: true}.CanUseAutopilot())
	assert.False(t, TrialStatus{IsTrialActive: true, IsExpired: true}.CanUseAutopilot())
	assert.False(t, TrialStatus{}.CanUseAutopilot())
}
