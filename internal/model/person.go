package model

import "time"

// Person is one individual's career/education history record. Persons are
// created once on first encounter of an identifier during ingestion;
// duplicate identifiers are ignored (first write wins).
type Person struct {
	ID               string  `json:"id"`
	CreatedAt        *string `json:"created_at,omitempty"`
	EmploymentStatus *string `json:"employment_status,omitempty"`
	Connections      *int    `json:"connections,omitempty"`
	LocationCountry  *string `json:"location_country,omitempty"`
	LocationCity     *string `json:"location_city,omitempty"`
}

// Job is one employment entry belonging to a person. No ordering is stored;
// ordering is derived at query time by sorting on the start timestamp.
type Job struct {
	Title               *string `json:"title,omitempty"`
	Function            *string `json:"function,omitempty"`
	Level               Level   `json:"level"`
	CompanyName         *string `json:"company_name,omitempty"`
	CompanyIndustry     *string `json:"company_industry,omitempty"`
	StartedAt           *string `json:"started_at,omitempty"`
	EndedAt             *string `json:"ended_at,omitempty"`
	DurationMonths      *int    `json:"duration_months,omitempty"`
	CompanyTenureMonths *int    `json:"company_tenure_months,omitempty"`
}

// Education is one education entry belonging to a person.
type Education struct {
	School    *string `json:"school,omitempty"`
	Degree    *string `json:"degree,omitempty"`
	Field     *string `json:"field,omitempty"`
	StartedAt *string `json:"started_at,omitempty"`
	EndedAt   *string `json:"ended_at,omitempty"`
}

// Change holds change-detection timestamps for a person. Stored for audit
// purposes; none of the aggregations read it.
type Change struct {
	TitleChangeDetectedAt   *string `json:"title_change_detected_at,omitempty"`
	CompanyChangeDetectedAt *string `json:"company_change_detected_at,omitempty"`
	InfoChangeDetectedAt    *string `json:"info_change_detected_at,omitempty"`
}

// Record is one fully normalized person record ready for insertion.
type Record struct {
	Person    Person
	Jobs      []Job
	Education []Education
	Change    Change
}

// JobRow is the job projection read back for aggregation: one row per job,
// ordered by person, start timestamp, then insertion id.
type JobRow struct {
	PersonID        string
	Title           *string
	Level           Level
	CompanyIndustry *string
	StartedAt       *string
}

// FirstJob is a person's earliest job with a non-null title and start.
type FirstJob struct {
	PersonID string
	Title    string
}

// EducationField is one (person, field-of-study) pair. A person with
// multiple education records contributes one row per non-null field.
type EducationField struct {
	PersonID string
	Field    string
}

// IngestEntry is one row of the ingest audit log, recorded per input file.
type IngestEntry struct {
	ID         string    `json:"id"`
	File       string    `json:"file"`
	Loaded     int       `json:"loaded"`
	Skipped    int       `json:"skipped"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
