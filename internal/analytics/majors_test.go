package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillshock/skillshock-cli/internal/model"
)

func TestMajorToFirstRole(t *testing.T) {
	firstJobs := []model.FirstJob{
		{PersonID: "p1", Title: "Engineer"},
		{PersonID: "p2", Title: "Analyst"},
		{PersonID: "p3", Title: "Engineer"},
	}
	fields := []model.EducationField{
		{PersonID: "p1", Field: "Computer Science"},
		{PersonID: "p2", Field: "Computer Science"},
		{PersonID: "p3", Field: "Computer Science"},
		{PersonID: "p2", Field: "Economics"},
	}

	result := MajorToFirstRole(firstJobs, fields, 10)
	require.Len(t, result, 2)

	cs := result["Computer Science"]
	assert.InDelta(t, 0.6667, cs["Engineer"], 1e-9)
	assert.InDelta(t, 0.3333, cs["Analyst"], 1e-9)

	econ := result["Economics"]
	assert.InDelta(t, 1.0, econ["Analyst"], 1e-9)
}

func TestMajorToFirstRole_DuplicateFirstJobRowsFirstWins(t *testing.T) {
	// Two qualifying rows for the same person (identical earliest start):
	// only the first row counts.
	firstJobs := []model.FirstJob{
		{PersonID: "p1", Title: "Engineer"},
		{PersonID: "p1", Title: "Consultant"},
	}
	fields := []model.EducationField{{PersonID: "p1", Field: "Physics"}}

	result := MajorToFirstRole(firstJobs, fields, 10)
	require.Contains(t, result, "Physics")
	assert.InDelta(t, 1.0, result["Physics"]["Engineer"], 1e-9)
	assert.NotContains(t, result["Physics"], "Consultant")
}

func TestMajorToFirstRole_FieldWithoutQualifyingPersonsAbsent(t *testing.T) {
	firstJobs := []model.FirstJob{{PersonID: "p1", Title: "Engineer"}}
	fields := []model.EducationField{
		{PersonID: "p1", Field: "Math"},
		{PersonID: "p9", Field: "History"},
	}

	result := MajorToFirstRole(firstJobs, fields, 10)
	assert.Contains(t, result, "Math")
	assert.NotContains(t, result, "History")
}

func TestMajorToFirstRole_TopNCapRenormalizes(t *testing.T) {
	firstJobs := []model.FirstJob{
		{PersonID: "p1", Title: "A"},
		{PersonID: "p2", Title: "A"},
		{PersonID: "p3", Title: "A"},
		{PersonID: "p4", Title: "B"},
		{PersonID: "p5", Title: "B"},
		{PersonID: "p6", Title: "C"},
	}
	var fields []model.EducationField
	for _, pid := range []string{"p1", "p2", "p3", "p4", "p5", "p6"} {
		fields = append(fields, model.EducationField{PersonID: pid, Field: "Design"})
	}

	result := MajorToFirstRole(firstJobs, fields, 2)
	design := result["Design"]
	require.Len(t, design, 2)

	// C is cut; proportions are over the surviving five observations.
	assert.InDelta(t, 0.6, design["A"], 1e-9)
	assert.InDelta(t, 0.4, design["B"], 1e-9)
}

func TestMajorToFirstRole_Empty(t *testing.T) {
	result := MajorToFirstRole(nil, nil, 10)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
