// Package analytics computes the five population-level career trajectory
// statistics from the store.
package analytics

import (
	"sort"
	"time"

	"github.com/skillshock/skillshock-cli/internal/model"
)

// SequencedJob is one job placed on a person's timeline.
type SequencedJob struct {
	Title     *string
	Level     model.Level
	Industry  *string
	StartedAt time.Time
}

// Career is one person's jobs sorted ascending by start timestamp. Jobs
// whose start does not parse are excluded here and therefore from every
// transition statistic.
type Career struct {
	PersonID string
	Jobs     []SequencedJob
}

var startLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
}

func parseStart(s string) (time.Time, bool) {
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// BuildSequences turns the flat job rows into per-person ordered careers.
// Persons keep first-seen order; within a person the sort on start
// timestamp is stable, so identical starts keep store (insertion) order.
func BuildSequences(rows []model.JobRow) []Career {
	var order []string
	byPerson := make(map[string][]SequencedJob)

	for _, r := range rows {
		if r.StartedAt == nil {
			continue
		}
		start, ok := parseStart(*r.StartedAt)
		if !ok {
			continue
		}
		if _, seen := byPerson[r.PersonID]; !seen {
			order = append(order, r.PersonID)
		}
		byPerson[r.PersonID] = append(byPerson[r.PersonID], SequencedJob{
			Title:     r.Title,
			Level:     r.Level,
			Industry:  r.CompanyIndustry,
			StartedAt: start,
		})
	}

	careers := make([]Career, 0, len(order))
	for _, pid := range order {
		jobs := byPerson[pid]
		sort.SliceStable(jobs, func(a, b int) bool {
			return jobs[a].StartedAt.Before(jobs[b].StartedAt)
		})
		careers = append(careers, Career{PersonID: pid, Jobs: jobs})
	}
	return careers
}
