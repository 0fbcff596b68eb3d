package analytics

import (
	"fmt"

	"github.com/skillshock/skillshock-cli/internal/model"
)

// daysPerMonth approximates one month when converting start-date gaps.
const daysPerMonth = 30.44

// PromotionVelocity computes the median months between level transitions,
// grouped by (from level, to level). Jobs with Unknown level are excluded
// before adjacency is considered; adjacent pairs with the same level emit
// nothing. Groups with fewer than minSample transitions are flagged low
// confidence. Zero-transition groups are absent, not emitted as zeros.
func PromotionVelocity(careers []Career, minSample int) map[string]model.PromotionStat {
	gaps := make(map[string][]float64)

	for _, c := range careers {
		var leveled []SequencedJob
		for _, j := range c.Jobs {
			if j.Level.IsCanonical() {
				leveled = append(leveled, j)
			}
		}
		for i := 0; i+1 < len(leveled); i++ {
			from, to := leveled[i], leveled[i+1]
			if from.Level == to.Level {
				continue
			}
			gapMonths := to.StartedAt.Sub(from.StartedAt).Hours() / 24 / daysPerMonth
			key := fmt.Sprintf("%s -> %s", from.Level, to.Level)
			gaps[key] = append(gaps[key], gapMonths)
		}
	}

	result := make(map[string]model.PromotionStat, len(gaps))
	for key, g := range gaps {
		result[key] = model.PromotionStat{
			MedianMonths:  round1(median(g)),
			SampleSize:    len(g),
			LowConfidence: len(g) < minSample,
		}
	}
	return result
}
