package analytics

// RoleTransitions computes per-source-title probabilities over adjacent
// title pairs. Unlike industry transitions, a repeated title still counts:
// someone holding the same title across two jobs is a real observed move.
func RoleTransitions(careers []Career) map[string]map[string]float64 {
	counters := make(map[string]*counter)

	for _, c := range careers {
		titles := titleSequence(c)
		for i := 0; i+1 < len(titles); i++ {
			from, to := titles[i], titles[i+1]
			if counters[from] == nil {
				counters[from] = newCounter()
			}
			counters[from].add(to)
		}
	}

	return probabilities(counters)
}

// IndustryTransitions computes per-source-industry probabilities over
// adjacent industry pairs where the industry actually changed.
func IndustryTransitions(careers []Career) map[string]map[string]float64 {
	counters := make(map[string]*counter)

	for _, c := range careers {
		var industries []string
		for _, j := range c.Jobs {
			if j.Industry != nil {
				industries = append(industries, *j.Industry)
			}
		}
		for i := 0; i+1 < len(industries); i++ {
			from, to := industries[i], industries[i+1]
			if from == to {
				continue
			}
			if counters[from] == nil {
				counters[from] = newCounter()
			}
			counters[from].add(to)
		}
	}

	return probabilities(counters)
}

func titleSequence(c Career) []string {
	var titles []string
	for _, j := range c.Jobs {
		if j.Title != nil {
			titles = append(titles, *j.Title)
		}
	}
	return titles
}

// probabilities converts destination counts into probabilities over each
// source's full transition total, rounded to four decimals.
func probabilities(counters map[string]*counter) map[string]map[string]float64 {
	result := make(map[string]map[string]float64, len(counters))
	for from, c := range counters {
		result[from] = distribution(c.top(0))
	}
	return result
}
