// Package ranking computes percentile standings for vehicle metrics.
package ranking

import (
	"math"
	"sort"

	"github.com/machinebio/machinebio/internal/model"
)

// smallSampleLimit is the population size below which percentile is derived
// from ordinal rank directly. With very few comparables, "2 of 3" communicates
// more honestly than a smoothed percentile.
const smallSampleLimit = 10

// Calculate returns the standing of value within population, or nil when the
// value cannot be ranked.
//
// Rules:
//   - value <= 0 means the stat was never recorded: no standing.
//   - population is filtered to entries > 0 first; if nothing remains, no standing.
//   - rank is the 1-based position of the first entry <= value in the descending
//     sort, so ties resolve in favor of the queried vehicle.
//   - percentile never reports 0 for an included data point.
//
// The function is pure: it never mutates population and never fails.
func Calculate(value int64, population []int64) *model.Standing {
	if value <= 0 {
		return nil
	}

	filtered := make([]int64, 0, len(population))
	for _, v := range population {
		if v > 0 {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i] > filtered[j] })

	total := len(filtered)
	rank := total
	for i, v := range filtered {
		if v <= value {
			rank = i + 1
			break
		}
	}

	var percentile int
	if total < smallSampleLimit {
		percentile = int(math.Round(float64(rank) / float64(total) * 100))
	} else {
		below := 0
		for _, v := range filtered {
			if v < value {
				below++
			}
		}
		percentile = int(math.Round(100 - float64(below)/float64(total)*100))
	}
	if percentile < 1 {
		percentile = 1
	}

	return &model.Standing{Rank: rank, Total: total, Percentile: percentile}
}
