package model

// PromotionStat summarizes one (from level, to level) transition group.
type PromotionStat struct {
	MedianMonths  float64 `json:"median_months"`
	SampleSize    int     `json:"sample_size"`
	LowConfidence bool    `json:"low_confidence"`
}

// PathFrequency is one observed multi-step title path and how many people
// took it.
type PathFrequency struct {
	Path      []string `json:"path"`
	Frequency int      `json:"frequency"`
}

// Metrics holds the five aggregation outputs. Every field is a non-nil map;
// an aggregation over empty input yields an empty map, never null.
type Metrics struct {
	PromotionVelocity   map[string]PromotionStat      `json:"promotion_velocity"`
	RoleTransitions     map[string]map[string]float64 `json:"role_transitions"`
	MajorToFirstRole    map[string]map[string]float64 `json:"major_to_first_role"`
	IndustryTransitions map[string]map[string]float64 `json:"industry_transitions"`
	PathsToRole         map[string][]PathFrequency    `json:"paths_to_role"`
}

// Metadata describes one export run.
type Metadata struct {
	GeneratedAt  string   `json:"generated_at"`
	TotalPersons int      `json:"total_persons"`
	TotalJobs    int      `json:"total_jobs"`
	DataFiles    []string `json:"data_files"`
}

// Payload is the single JSON artifact consumed by every downstream tool.
// Key names and value shapes are a stable contract.
type Payload struct {
	Metadata            Metadata                      `json:"metadata"`
	PromotionVelocity   map[string]PromotionStat      `json:"promotion_velocity"`
	RoleTransitions     map[string]map[string]float64 `json:"role_transitions"`
	MajorToFirstRole    map[string]map[string]float64 `json:"major_to_first_role"`
	IndustryTransitions map[string]map[string]float64 `json:"industry_transitions"`
	PathsToRole         map[string][]PathFrequency    `json:"paths_to_role"`
}
