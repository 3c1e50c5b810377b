// Package recommend ranks catalog sequences against batch statistics.
package recommend

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

const baseScore = 50.0

// Recommend scores each sequence against the batch and returns the list
// sorted non-increasing by score. The sort is stable, so ties keep catalog
// order. An empty batch yields a single default nurture recommendation.
func Recommend(sequences []model.SequenceDefinition, stats model.BatchStats) []model.SequenceRecommendation {
	if len(sequences) == 0 {
		return nil
	}
	if stats.Total == 0 {
		return []model.SequenceRecommendation{defaultNurture(sequences)}
	}

	recs := make([]model.SequenceRecommendation, 0, len(sequences))
	for _, seq := range sequences {
		recs = append(recs, scoreSequence(seq, stats))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	zap.L().Debug("recommend: ranked sequences",
		zap.Int("candidates", len(recs)),
		zap.String("top", recs[0].Sequence.ID),
		zap.Int("top_score", recs[0].Score),
	)

	return recs
}

func scoreSequence(seq model.SequenceDefinition, stats model.BatchStats) model.SequenceRecommendation {
	score := baseScore
	matched := -1
	var reasons []string

	if seq.Priority == stats.DominantClassification {
		score += 20
		matched = stats.CountFor(seq.Priority)
		reasons = append(reasons, "matches the batch's dominant classification")
	}

	framing := strings.ToLower(seq.Name + " " + strings.Join(seq.Tags, " "))

	if hasFraming(framing, "no-website", "no website") && stats.NoWebsiteCount > 0 {
		score += float64(stats.NoWebsiteCount) / float64(stats.Total) * 30
		if matched < 0 {
			matched = stats.NoWebsiteCount
		}
		reasons = append(reasons, "targets leads without a website")
	}

	if hasFraming(framing, "upgrade", "audit") && stats.NeedsUpgradeCount > 0 {
		score += float64(stats.NeedsUpgradeCount) / float64(stats.Total) * 25
		reasons = append(reasons, "targets outdated websites")
	}

	if hasFraming(framing, "pain-point", "pain point") && len(stats.TopPainPoints) > 0 {
		score += 15
		reasons = append(reasons, "speaks to the batch's common pain points")
	}

	if hasFraming(framing, "social-proof", "social proof", "case-study", "case study") {
		score += 10
		reasons = append(reasons, "leads with social proof")
	}

	if matched < 0 {
		matched = stats.Total / 3
	}

	reason := "general fit for this batch"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, "; ")
	}

	return model.SequenceRecommendation{
		Sequence:              seq,
		Score:                 int(math.Min(100, math.Round(score))),
		Reason:                reason,
		MatchedLeadCount:      matched,
		EstimatedResponseRate: responseRate(seq.Priority),
	}
}

// defaultNurture picks a fallback recommendation for an empty batch: the
// first nurture-tagged sequence, then the first cold sequence, then the
// first sequence outright.
func defaultNurture(sequences []model.SequenceDefinition) model.SequenceRecommendation {
	pick := sequences[0]
	for _, seq := range sequences {
		if hasFraming(strings.ToLower(seq.Name+" "+strings.Join(seq.Tags, " ")), "nurture") {
			pick = seq
			break
		}
		if pick.Priority != model.ClassificationCold && seq.Priority == model.ClassificationCold {
			pick = seq
		}
	}
	return model.SequenceRecommendation{
		Sequence:              pick,
		Score:                 int(baseScore),
		Reason:                "no leads in batch yet; start with a nurture sequence",
		MatchedLeadCount:      0,
		EstimatedResponseRate: responseRate(pick.Priority),
	}
}

// responseRate is a display-only band keyed to the sequence priority.
func responseRate(priority model.Classification) string {
	switch priority {
	case model.ClassificationHot:
		return "15-25%"
	case model.ClassificationCold:
		return "3-8%"
	default:
		return "8-12%"
	}
}

func hasFraming(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
