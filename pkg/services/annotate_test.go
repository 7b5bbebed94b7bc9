package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline-io/kpi-engine/pkg/models"
)

func TestAnnotateRecords_ValueAndRateAttached(t *testing.T) {
	act := &models.ActivityDefinition{
		ProjectFullCode: "P100-01",
		ActivityName:    "Excavation",
		TotalValue:      floatPtr(1000),
		TotalUnits:      floatPtr(10),
	}
	idx := NewActivityIndex([]*models.ActivityDefinition{act})

	rec := &models.ProgressRecord{
		ProjectFullCode: "P100-01",
		ActivityName:    "Excavation",
		Quantity:        5,
	}

	annotated := AnnotateRecords([]*models.ProgressRecord{rec}, idx, BuildLookups(nil))
	require.Len(t, annotated, 1)

	vr := annotated[0]
	assert.True(t, vr.Matchable)
	assert.Same(t, act, vr.Activity)
	assert.Equal(t, 100.0, vr.Rate)
	assert.Equal(t, 500.0, vr.Value)
}

func TestAnnotateRecords_UnmatchableRecordCarriesNoValue(t *testing.T) {
	// A record with no project identifier at all stays in the listing but
	// never contributes value.
	rec := &models.ProgressRecord{
		ActivityName: "Excavation",
		Quantity:     5,
		Rate:         floatPtr(100),
		Value:        floatPtr(500),
	}

	annotated := AnnotateRecords([]*models.ProgressRecord{rec}, NewActivityIndex(nil), BuildLookups(nil))
	require.Len(t, annotated, 1)

	vr := annotated[0]
	assert.False(t, vr.Matchable)
	assert.Zero(t, vr.Rate)
	assert.Zero(t, vr.Value)
}

func TestAnnotateRecords_EffectiveFieldsPreferRecord(t *testing.T) {
	act := &models.ActivityDefinition{
		ProjectFullCode:  "P100-01",
		ActivityName:     "Excavation",
		ActivityDivision: "Infrastructure",
		ActivityScope:    "Civil",
		ActivityTiming:   "Phase 1",
	}
	idx := NewActivityIndex([]*models.ActivityDefinition{act})

	rec := &models.ProgressRecord{
		ProjectFullCode:  "P100-01",
		ActivityName:     "Excavation",
		ActivityDivision: "Buildings",
	}

	annotated := AnnotateRecords([]*models.ProgressRecord{rec}, idx, BuildLookups(nil))
	require.Len(t, annotated, 1)

	vr := annotated[0]
	assert.Equal(t, "Buildings", vr.Division, "record field wins over activity")
	assert.Equal(t, "Civil", vr.Scope, "activity fills the blank")
	assert.Equal(t, "Phase 1", vr.Timing)
}

func TestAnnotateRecords_DivisionInferredFromScope(t *testing.T) {
	activities := []*models.ActivityDefinition{
		{
			ProjectFullCode:  "P200-01",
			ActivityName:     "Paving",
			ActivityDivision: "Roads",
			ActivityScope:    "Highways",
		},
	}
	lookups := BuildLookups(activities)

	// This record resolves no activity, but its scope maps to a division
	// through the batch lookup.
	rec := &models.ProgressRecord{
		ProjectFullCode: "P100-01",
		ActivityName:    "Unknown Work",
		ActivityScope:   "highways",
	}

	annotated := AnnotateRecords([]*models.ProgressRecord{rec}, NewActivityIndex(nil), lookups)
	require.Len(t, annotated, 1)
	assert.Equal(t, "Roads", annotated[0].Division)
}

func TestBuildLookups_FirstDivisionPerScopeWins(t *testing.T) {
	activities := []*models.ActivityDefinition{
		{ActivityScope: "Civil", ActivityDivision: "Infrastructure"},
		{ActivityScope: "civil", ActivityDivision: "Other"},
		{ActivityScope: "", ActivityDivision: "Ignored"},
		{ActivityScope: "Orphan", ActivityDivision: ""},
	}

	lookups := BuildLookups(activities)
	assert.Equal(t, "Infrastructure", lookups.DivisionByScope["civil"])
	assert.NotContains(t, lookups.DivisionByScope, "")
	assert.NotContains(t, lookups.DivisionByScope, "orphan")
}
