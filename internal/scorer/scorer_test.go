package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/outreach-cli/internal/model"
)

func intPtr(v int) *int { return &v }

func TestScore_BaseCase(t *testing.T) {
	// A lead with a healthy website and no other signals earns no bonuses.
	lead := model.Lead{
		BusinessName: "Quiet Cafe",
		Website:      &model.WebsiteProfile{HasWebsite: true},
	}
	res := Score(lead)
	assert.Equal(t, 50, res.Score)
	assert.Equal(t, model.ClassificationCold, res.Classification)
	assert.Empty(t, res.Reasons)
}

func TestScore_NoWebsiteStacksToHot(t *testing.T) {
	// No website + rating >= 4.5 + phone exceeds 100. The score is
	// intentionally unclamped.
	lead := model.Lead{
		BusinessName: "Top Rated Plumbing",
		Phone:        "555-867-5309",
		Rating:       4.6,
	}
	res := Score(lead)
	assert.Equal(t, 105, res.Score)
	assert.Equal(t, model.ClassificationHot, res.Classification)
	assert.Contains(t, res.Reasons, "No website")
}

func TestScore_WarmWithWebsiteAndPhone(t *testing.T) {
	lead := model.Lead{
		BusinessName: "Mid Street Bakery",
		Phone:        "555-0100",
		Rating:       3.0,
		Website:      &model.WebsiteProfile{HasWebsite: true},
	}
	res := Score(lead)
	assert.Equal(t, 55, res.Score)
	assert.Equal(t, model.ClassificationWarm, res.Classification)
}

func TestScore_WebsiteSignals(t *testing.T) {
	tests := []struct {
		name        string
		website     *model.WebsiteProfile
		wantScore   int
		wantReasons []string
	}{
		{
			name:        "needs upgrade",
			website:     &model.WebsiteProfile{HasWebsite: true, NeedsUpgrade: true},
			wantScore:   80,
			wantReasons: []string{"Needs upgrade"},
		},
		{
			name:      "one issue, no reason emitted",
			website:   &model.WebsiteProfile{HasWebsite: true, Issues: []string{"slow"}},
			wantScore: 60,
		},
		{
			name:      "two issues",
			website:   &model.WebsiteProfile{HasWebsite: true, Issues: []string{"slow", "no ssl"}},
			wantScore: 60,
		},
		{
			name:        "three issues",
			website:     &model.WebsiteProfile{HasWebsite: true, Issues: []string{"slow", "no ssl", "broken links"}},
			wantScore:   75,
			wantReasons: []string{"3 issues"},
		},
		{
			name:        "poor mobile",
			website:     &model.WebsiteProfile{HasWebsite: true, MobileScore: intPtr(35)},
			wantScore:   70,
			wantReasons: []string{"Poor mobile"},
		},
		{
			name:      "mobile score at boundary is fine",
			website:   &model.WebsiteProfile{HasWebsite: true, MobileScore: intPtr(50)},
			wantScore: 50,
		},
		{
			name:        "legacy platform",
			website:     &model.WebsiteProfile{HasWebsite: true, Platform: "Wix (free tier)"},
			wantScore:   70,
			wantReasons: []string{"Legacy platform"},
		},
		{
			name:      "modern platform",
			website:   &model.WebsiteProfile{HasWebsite: true, Platform: "Next.js"},
			wantScore: 50,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(model.Lead{BusinessName: "b", Website: tt.website})
			assert.Equal(t, tt.wantScore, res.Score)
			if tt.wantReasons == nil {
				assert.Empty(t, res.Reasons)
			} else {
				assert.Equal(t, tt.wantReasons, res.Reasons)
			}
		})
	}
}

func TestScore_NoWebsiteProfileCountsAsMissing(t *testing.T) {
	res := Score(model.Lead{BusinessName: "Cash Only Diner"})
	assert.Equal(t, 90, res.Score)
	assert.Equal(t, []string{"No website"}, res.Reasons)
}

func TestScore_Deterministic(t *testing.T) {
	lead := model.Lead{
		BusinessName: "Repeat Co",
		Phone:        "5551234567",
		Rating:       4.8,
		Website: &model.WebsiteProfile{
			HasWebsite:   true,
			Platform:     "joomla",
			NeedsUpgrade: true,
			MobileScore:  intPtr(20),
			Issues:       []string{"a", "b", "c", "d"},
		},
	}
	first := Score(lead)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(lead))
	}
}

func TestClassify_ThresholdLaw(t *testing.T) {
	for score := 0; score <= 150; score++ {
		c := Classify(score)
		switch {
		case score >= 80:
			assert.Equal(t, model.ClassificationHot, c, "score %d", score)
		case score >= 55:
			assert.Equal(t, model.ClassificationWarm, c, "score %d", score)
		default:
			assert.Equal(t, model.ClassificationCold, c, "score %d", score)
		}
	}
}
