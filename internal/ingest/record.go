// Package ingest parses newline-delimited JSON career-history files and
// normalizes the heterogeneous raw records into relational tuples.
package ingest

import (
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/skillshock/skillshock-cli/internal/model"
)

// rawRecord mirrors one input line. Fields with more than one wire shape
// (location dict-or-absent, company dict-or-string, changes dict-or-flat)
// stay as json.RawMessage and go through the resolve* helpers.
type rawRecord struct {
	ID               string          `json:"id"`
	CreatedAt        *string         `json:"created_at"`
	EmploymentStatus *string         `json:"employment_status"`
	Connections      *int            `json:"connections"`
	Country          *string         `json:"country"`
	LocationDetails  json.RawMessage `json:"location_details"`
	Location         json.RawMessage `json:"location"`
	Jobs             []rawJob        `json:"jobs"`
	Education        []rawEducation  `json:"education"`
	Changes          json.RawMessage `json:"changes"`

	// Flat change-detection fallbacks.
	TitleChangeDetectedAt   *string `json:"title_change_detected_at"`
	CompanyChangeDetectedAt *string `json:"company_change_detected_at"`
	InfoChangeDetectedAt    *string `json:"info_change_detected_at"`
}

type rawJob struct {
	Title           *string         `json:"title"`
	Function        *string         `json:"function"`
	Level           *string         `json:"level"`
	Seniority       *string         `json:"seniority"`
	Company         json.RawMessage `json:"company"`
	CompanyName     *string         `json:"company_name"`
	CompanyIndustry *string         `json:"company_industry"`
	Industry        *string         `json:"industry"`
	StartedAt       *string         `json:"started_at"`
	EndedAt         *string         `json:"ended_at"`
	Duration        *int            `json:"duration"`
	CompanyTenure   *int            `json:"company_tenure"`
}

type rawEducation struct {
	School    *string `json:"school"`
	Degree    *string `json:"degree"`
	Field     *string `json:"field"`
	Major     *string `json:"major"`
	StartedAt *string `json:"started_at"`
	EndedAt   *string `json:"ended_at"`
}

// Normalizer maps raw records to canonical tuples using a fixed level-rule
// set.
type Normalizer struct {
	rules []model.LevelRule
}

// NewNormalizer creates a Normalizer with the given level rules.
func NewNormalizer(rules []model.LevelRule) *Normalizer {
	return &Normalizer{rules: rules}
}

// Normalize parses one input line into a Record. It fails only for
// undecodable JSON or a missing identifier; malformed optional fields
// degrade to nil.
func (n *Normalizer) Normalize(line []byte) (*model.Record, error) {
	var raw rawRecord
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, eris.Wrap(err, "ingest: decode record")
	}
	if raw.ID == "" {
		return nil, eris.New("ingest: record missing id")
	}

	country, city := resolveLocation(raw)

	rec := &model.Record{
		Person: model.Person{
			ID:               raw.ID,
			CreatedAt:        raw.CreatedAt,
			EmploymentStatus: raw.EmploymentStatus,
			Connections:      raw.Connections,
			LocationCountry:  country,
			LocationCity:     city,
		},
		Change: resolveChanges(raw),
	}

	for _, j := range raw.Jobs {
		name, industry := resolveCompany(j)

		duration := j.Duration
		if duration == nil {
			duration = monthsBetween(j.StartedAt, j.EndedAt)
		}
		tenure := j.CompanyTenure
		if tenure == nil {
			tenure = monthsBetween(j.StartedAt, j.EndedAt)
		}

		rec.Jobs = append(rec.Jobs, model.Job{
			Title:               j.Title,
			Function:            j.Function,
			Level:               model.NormalizeLevel(levelSource(j), n.rules),
			CompanyName:         name,
			CompanyIndustry:     industry,
			StartedAt:           j.StartedAt,
			EndedAt:             j.EndedAt,
			DurationMonths:      duration,
			CompanyTenureMonths: tenure,
		})
	}

	for _, e := range raw.Education {
		field := e.Field
		if strEmpty(field) {
			field = e.Major
		}
		rec.Education = append(rec.Education, model.Education{
			School:    e.School,
			Degree:    e.Degree,
			Field:     field,
			StartedAt: e.StartedAt,
			EndedAt:   e.EndedAt,
		})
	}

	return rec, nil
}

// levelSource picks the raw string fed to level normalization:
// level, then title, then seniority.
func levelSource(j rawJob) string {
	for _, s := range []*string{j.Level, j.Title, j.Seniority} {
		if !strEmpty(s) {
			return *s
		}
	}
	return ""
}

// resolveLocation prefers a nested location_details/location dict's
// country and locality/city fields, falling back to the flat top-level
// country. City has no flat fallback.
func resolveLocation(raw rawRecord) (country, city *string) {
	loc := firstDict(raw.LocationDetails, raw.Location)
	if loc == nil {
		return raw.Country, nil
	}
	country = dictString(loc, "country")
	if country == nil {
		country = raw.Country
	}
	city = dictString(loc, "locality")
	if city == nil {
		city = dictString(loc, "city")
	}
	return country, city
}

// resolveCompany prefers a nested company dict; otherwise it falls back to
// the flat company_name/company_industry/industry fields, treating a bare
// string company value as the name.
func resolveCompany(j rawJob) (name, industry *string) {
	if c := toDict(j.Company); len(c) > 0 {
		return dictString(c, "name"), dictString(c, "industry")
	}

	name = j.CompanyName
	if strEmpty(name) {
		var s string
		if err := json.Unmarshal(j.Company, &s); err == nil && s != "" {
			name = &s
		}
	}
	industry = j.CompanyIndustry
	if strEmpty(industry) {
		industry = j.Industry
	}
	return name, industry
}

// resolveChanges prefers the nested changes dict per field, falling back to
// the flat top-level keys.
func resolveChanges(raw rawRecord) model.Change {
	chg := toDict(raw.Changes)
	pick := func(key string, flat *string) *string {
		if v := dictString(chg, key); v != nil {
			return v
		}
		return flat
	}
	return model.Change{
		TitleChangeDetectedAt:   pick("title_change_detected_at", raw.TitleChangeDetectedAt),
		CompanyChangeDetectedAt: pick("company_change_detected_at", raw.CompanyChangeDetectedAt),
		InfoChangeDetectedAt:    pick("info_change_detected_at", raw.InfoChangeDetectedAt),
	}
}

// monthsBetween computes whole months between two ISO-ish date strings as
// (endY*12+endM)-(startY*12+startM), floored at zero. Nil when either
// endpoint is missing or its YYYY-MM prefix does not parse.
func monthsBetween(start, end *string) *int {
	sy, sm, ok := yearMonth(start)
	if !ok {
		return nil
	}
	ey, em, ok := yearMonth(end)
	if !ok {
		return nil
	}
	months := (ey-sy)*12 + (em - sm)
	if months < 0 {
		months = 0
	}
	return &months
}

func yearMonth(s *string) (year, month int, ok bool) {
	if s == nil || len(*s) < 7 {
		return 0, 0, false
	}
	year, err := strconv.Atoi((*s)[:4])
	if err != nil {
		return 0, 0, false
	}
	month, err = strconv.Atoi((*s)[5:7])
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}

// firstDict returns the first raw message that decodes to a non-empty JSON
// object. An empty object does not count; it defers to the next candidate.
func firstDict(candidates ...json.RawMessage) map[string]any {
	for _, c := range candidates {
		if d := toDict(c); len(d) > 0 {
			return d
		}
	}
	return nil
}

func toDict(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var d map[string]any
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil
	}
	return d
}

// dictString extracts a non-empty string value from a decoded dict.
func dictString(d map[string]any, key string) *string {
	if d == nil {
		return nil
	}
	if s, ok := d[key].(string); ok && s != "" {
		return &s
	}
	return nil
}

func strEmpty(s *string) bool {
	return s == nil || *s == ""
}
