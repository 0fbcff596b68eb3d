package analytics

import "github.com/skillshock/skillshock-cli/internal/model"

// MajorToFirstRole maps each education field to the distribution of first
// job titles among people who studied it. Each field keeps its topN most
// frequent titles, expressed as proportions of the top-N-only total.
// Persons without a qualifying first job, and fields with no qualifying
// persons, are absent from the output.
func MajorToFirstRole(firstJobs []model.FirstJob, fields []model.EducationField, topN int) map[string]map[string]float64 {
	// First qualifying row per person wins; the store orders ties by
	// insertion id.
	firstByPerson := make(map[string]string, len(firstJobs))
	for _, fj := range firstJobs {
		if _, ok := firstByPerson[fj.PersonID]; !ok {
			firstByPerson[fj.PersonID] = fj.Title
		}
	}

	counters := make(map[string]*counter)
	for _, f := range fields {
		title, ok := firstByPerson[f.PersonID]
		if !ok {
			continue
		}
		if counters[f.Field] == nil {
			counters[f.Field] = newCounter()
		}
		counters[f.Field].add(title)
	}

	result := make(map[string]map[string]float64, len(counters))
	for field, c := range counters {
		result[field] = distribution(c.top(topN))
	}
	return result
}
