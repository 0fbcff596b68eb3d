package analytics

import (
	"strings"

	"github.com/skillshock/skillshock-cli/internal/model"
)

// pathSep joins title sequences into counter keys. Unit separator keeps
// distinct paths distinct even when titles contain common punctuation.
const pathSep = "\x1f"

// PathsToRole finds, for each final title, the topN most common full title
// paths leading to it. Two people with the identical ordered path to the
// same final title increment the same counter. Paths are ordered by
// descending frequency, ties in first-seen order.
func PathsToRole(careers []Career, topN int) map[string][]model.PathFrequency {
	byFinal := make(map[string]*counter)

	for _, c := range careers {
		titles := titleSequence(c)
		if len(titles) == 0 {
			continue
		}
		final := titles[len(titles)-1]
		if byFinal[final] == nil {
			byFinal[final] = newCounter()
		}
		byFinal[final].add(strings.Join(titles, pathSep))
	}

	result := make(map[string][]model.PathFrequency, len(byFinal))
	for final, c := range byFinal {
		entries := c.top(topN)
		paths := make([]model.PathFrequency, 0, len(entries))
		for _, e := range entries {
			paths = append(paths, model.PathFrequency{
				Path:      strings.Split(e.key, pathSep),
				Frequency: e.count,
			})
		}
		result[final] = paths
	}
	return result
}
