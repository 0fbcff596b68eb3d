package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillshock/skillshock-cli/internal/model"
)

func TestPromotionVelocity_SingleTransition(t *testing.T) {
	careers := []Career{{PersonID: "p1", Jobs: []SequencedJob{
		seqJob("Engineer", model.LevelIC, "", date(2020, 1, 1)),
		seqJob("Senior Engineer", model.LevelSenior, "", date(2020, 3, 2)),
	}}}

	result := PromotionVelocity(careers, 10)
	require.Len(t, result, 1)

	stat, ok := result["IC -> Senior"]
	require.True(t, ok)
	// 61 days at 30.44 days per month.
	assert.InDelta(t, 2.0, stat.MedianMonths, 1e-9)
	assert.Equal(t, 1, stat.SampleSize)
	assert.True(t, stat.LowConfidence)
}

func TestPromotionVelocity_MedianAcrossPeople(t *testing.T) {
	careers := []Career{
		{PersonID: "p1", Jobs: []SequencedJob{
			seqJob("", model.LevelIC, "", date(2020, 1, 1)),
			seqJob("", model.LevelSenior, "", date(2021, 1, 1)),
		}},
		{PersonID: "p2", Jobs: []SequencedJob{
			seqJob("", model.LevelIC, "", date(2019, 1, 1)),
			seqJob("", model.LevelSenior, "", date(2019, 7, 2)),
		}},
	}

	result := PromotionVelocity(careers, 2)
	stat, ok := result["IC -> Senior"]
	require.True(t, ok)

	// Gaps of 366 and 182 days: 12.0 and 6.0 months, median 9.0.
	assert.InDelta(t, 9.0, stat.MedianMonths, 1e-9)
	assert.Equal(t, 2, stat.SampleSize)
	assert.False(t, stat.LowConfidence)
}

func TestPromotionVelocity_LowConfidenceBoundary(t *testing.T) {
	var careers []Career
	for i := 0; i < 9; i++ {
		careers = append(careers, Career{Jobs: []SequencedJob{
			seqJob("", model.LevelManager, "", date(2020, 1, 1)),
			seqJob("", model.LevelDirector, "", date(2022, 1, 1)),
		}})
	}

	result := PromotionVelocity(careers, 10)
	assert.True(t, result["Manager -> Director"].LowConfidence)

	careers = append(careers, Career{Jobs: []SequencedJob{
		seqJob("", model.LevelManager, "", date(2020, 1, 1)),
		seqJob("", model.LevelDirector, "", date(2022, 1, 1)),
	}})
	result = PromotionVelocity(careers, 10)
	assert.False(t, result["Manager -> Director"].LowConfidence)
	assert.Equal(t, 10, result["Manager -> Director"].SampleSize)
}

func TestPromotionVelocity_UnknownBridged(t *testing.T) {
	// The Unknown job in the middle is removed before adjacency, so the
	// transition spans it using the outer start dates.
	careers := []Career{{Jobs: []SequencedJob{
		seqJob("", model.LevelIC, "", date(2020, 1, 1)),
		seqJob("", model.LevelUnknown, "", date(2020, 2, 1)),
		seqJob("", model.LevelSenior, "", date(2020, 3, 2)),
	}}}

	result := PromotionVelocity(careers, 10)
	require.Len(t, result, 1)
	stat := result["IC -> Senior"]
	assert.InDelta(t, 2.0, stat.MedianMonths, 1e-9)
}

func TestPromotionVelocity_SameLevelSkipped(t *testing.T) {
	careers := []Career{{Jobs: []SequencedJob{
		seqJob("", model.LevelSenior, "", date(2018, 1, 1)),
		seqJob("", model.LevelSenior, "", date(2020, 1, 1)),
	}}}
	assert.Empty(t, PromotionVelocity(careers, 10))
}

func TestPromotionVelocity_DemotionsCount(t *testing.T) {
	careers := []Career{{Jobs: []SequencedJob{
		seqJob("", model.LevelManager, "", date(2019, 1, 1)),
		seqJob("", model.LevelIC, "", date(2020, 1, 1)),
	}}}

	result := PromotionVelocity(careers, 10)
	_, ok := result["Manager -> IC"]
	assert.True(t, ok)
}

func TestPromotionVelocity_Empty(t *testing.T) {
	result := PromotionVelocity(nil, 10)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
