package analytics

import (
	"math"
	"sort"
)

// counter counts string keys while remembering first-seen key order, so
// top-N selection breaks count ties deterministically (first seen wins).
// A bare map cannot provide that ordering.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

type keyCount struct {
	key   string
	count int
}

// top returns up to n entries by descending count, ties in first-seen
// order. n <= 0 returns all entries.
func (c *counter) top(n int) []keyCount {
	out := make([]keyCount, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, keyCount{key: k, count: c.counts[k]})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].count > out[b].count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// distribution converts top-N counts into proportions of the top-N-only
// total, rounded to four decimals.
func distribution(entries []keyCount) map[string]float64 {
	total := 0
	for _, e := range entries {
		total += e.count
	}
	out := make(map[string]float64, len(entries))
	if total == 0 {
		return out
	}
	for _, e := range entries {
		out[e.key] = round4(float64(e.count) / float64(total))
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// median returns the middle value of vs (mean of the two middles for even
// lengths). vs must be non-empty; the input slice is not modified.
func median(vs []float64) float64 {
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
