// Package scorer turns raw lead signals into a conversion-likelihood score
// and a hot/warm/cold classification.
package scorer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

const baseScore = 50

// Classification thresholds. Scores are not clamped upward; stacked bonuses
// past 100 are intentional headroom.
const (
	hotThreshold  = 80
	warmThreshold = 55
)

// legacyPlatforms lists outdated CMS families whose presence signals an easy
// upgrade pitch. Matched case-insensitively as a substring of the platform.
var legacyPlatforms = []string{
	"wix", "squarespace", "godaddy", "weebly", "joomla", "drupal",
}

// Score computes the conversion-likelihood score for a single lead.
// Deterministic, no side effects; repeated calls return identical results.
func Score(lead model.Lead) model.ScoreResult {
	score := baseScore
	var reasons []string

	w := lead.Website
	if w == nil || !w.HasWebsite {
		score += 40
		reasons = append(reasons, "No website")
	}

	if w != nil {
		if w.NeedsUpgrade {
			score += 30
			reasons = append(reasons, "Needs upgrade")
		}

		if n := len(w.Issues); n >= 3 {
			score += 25
			reasons = append(reasons, fmt.Sprintf("%d issues", n))
		} else if n >= 1 {
			score += 10
		}

		if w.MobileScore != nil && *w.MobileScore < 50 {
			score += 20
			reasons = append(reasons, "Poor mobile")
		}

		if isLegacyPlatform(w.Platform) {
			score += 20
			reasons = append(reasons, "Legacy platform")
		}
	}

	if strings.TrimSpace(lead.Phone) != "" {
		score += 5
	}

	if lead.Rating >= 4.5 {
		score += 10
	}

	result := model.ScoreResult{
		Score:          score,
		Classification: Classify(score),
		Reasons:        reasons,
	}

	zap.L().Debug("scorer: lead scored",
		zap.String("lead", lead.Key()),
		zap.Int("score", score),
		zap.String("classification", string(result.Classification)),
	)

	return result
}

// Classify maps a score onto the fixed classification thresholds.
func Classify(score int) model.Classification {
	switch {
	case score >= hotThreshold:
		return model.ClassificationHot
	case score >= warmThreshold:
		return model.ClassificationWarm
	default:
		return model.ClassificationCold
	}
}

func isLegacyPlatform(platform string) bool {
	if platform == "" {
		return false
	}
	lower := strings.ToLower(platform)
	for _, p := range legacyPlatforms {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
