package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_TopBreaksTiesByFirstSeen(t *testing.T) {
	c := newCounter()
	for _, k := range []string{"b", "a", "a", "b", "c"} {
		c.add(k)
	}

	top := c.top(0)
	require.Len(t, top, 3)
	assert.Equal(t, keyCount{"b", 2}, top[0])
	assert.Equal(t, keyCount{"a", 2}, top[1])
	assert.Equal(t, keyCount{"c", 1}, top[2])
}

func TestCounter_TopCapsAtN(t *testing.T) {
	c := newCounter()
	for _, k := range []string{"x", "x", "x", "y", "y", "z"} {
		c.add(k)
	}

	top := c.top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "x", top[0].key)
	assert.Equal(t, "y", top[1].key)
}

func TestDistribution(t *testing.T) {
	d := distribution([]keyCount{{"a", 2}, {"b", 2}, {"c", 1}})
	assert.InDelta(t, 0.4, d["a"], 1e-9)
	assert.InDelta(t, 0.4, d["b"], 1e-9)
	assert.InDelta(t, 0.2, d["c"], 1e-9)

	// Proportions are over the entries given, not the full counter.
	d = distribution([]keyCount{{"a", 1}, {"b", 1}, {"c", 1}})
	assert.InDelta(t, 0.3333, d["a"], 1e-9)

	assert.Empty(t, distribution(nil))
}

func TestMedian(t *testing.T) {
	assert.InDelta(t, 3.0, median([]float64{5, 1, 3}), 1e-9)
	assert.InDelta(t, 2.5, median([]float64{4, 1, 2, 3}), 1e-9)
	assert.InDelta(t, 7.0, median([]float64{7}), 1e-9)

	// Input stays unsorted.
	vs := []float64{9, 1, 5}
	median(vs)
	assert.Equal(t, []float64{9, 1, 5}, vs)
}
