// Package analyzer aggregates per-lead score results into batch-level
// distributional statistics used by sequence recommendation.
package analyzer

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/scorer"
)

// topPainPoints caps how many pain-point tags are reported per batch.
const topPainPoints = 3

// Recompute scores every lead in the batch and derives fresh BatchStats.
// Callers invoke it explicitly whenever the batch changes; stats are never
// patched incrementally.
func Recompute(leads []model.Lead) model.BatchStats {
	stats := model.BatchStats{Total: len(leads)}
	painCounts := make(map[string]int)

	for _, lead := range leads {
		res := scorer.Score(lead)
		switch res.Classification {
		case model.ClassificationHot:
			stats.HotCount++
		case model.ClassificationWarm:
			stats.WarmCount++
		default:
			stats.ColdCount++
		}

		w := lead.Website
		if w == nil || !w.HasWebsite {
			stats.NoWebsiteCount++
		}
		if w != nil && w.NeedsUpgrade {
			stats.NeedsUpgradeCount++
		}
		if w != nil && w.MobileScore != nil && *w.MobileScore < 50 {
			stats.PoorMobileCount++
		}

		for _, tag := range lead.PainPoints {
			painCounts[tag]++
		}
	}

	stats.TopPainPoints = rankPainPoints(painCounts)
	stats.DominantClassification = dominant(stats)

	zap.L().Debug("analyzer: batch stats recomputed",
		zap.Int("total", stats.Total),
		zap.Int("hot", stats.HotCount),
		zap.Int("warm", stats.WarmCount),
		zap.Int("cold", stats.ColdCount),
		zap.String("dominant", string(stats.DominantClassification)),
	)

	return stats
}

// dominant picks the majority classification. Ties favor hot, then cold;
// warm is the fallback winner only when it strictly beats both.
func dominant(s model.BatchStats) model.Classification {
	if s.HotCount >= s.WarmCount && s.HotCount >= s.ColdCount {
		return model.ClassificationHot
	}
	if s.ColdCount >= s.WarmCount {
		return model.ClassificationCold
	}
	return model.ClassificationWarm
}

// rankPainPoints returns the most frequent tags, count descending with
// alphabetical tie-break so repeated recomputes stay stable.
func rankPainPoints(counts map[string]int) []model.PainPointCount {
	if len(counts) == 0 {
		return nil
	}
	ranked := make([]model.PainPointCount, 0, len(counts))
	for tag, n := range counts {
		ranked = append(ranked, model.PainPointCount{Tag: tag, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Tag < ranked[j].Tag
	})
	if len(ranked) > topPainPoints {
		ranked = ranked[:topPainPoints]
	}
	return ranked
}
