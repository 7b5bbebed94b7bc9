package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldline-io/kpi-engine/pkg/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestComputeValue_QuantityTimesRate(t *testing.T) {
	rec := &models.ProgressRecord{Quantity: 20}
	assert.Equal(t, 100.0, ComputeValue(rec, 5))
}

func TestComputeValue_RateBeatsStoredValue(t *testing.T) {
	rec := &models.ProgressRecord{Quantity: 20, Value: floatPtr(999)}
	assert.Equal(t, 100.0, ComputeValue(rec, 5))
}

func TestComputeValue_DefectValueIgnoredWhenRateKnown(t *testing.T) {
	// Stored value numerically equal to the quantity is the known upstream
	// miscategorization; the rate-derived value wins.
	rec := &models.ProgressRecord{Quantity: 20, Value: floatPtr(20)}
	assert.Equal(t, 100.0, ComputeValue(rec, 5))
}

func TestComputeValue_DefectValueIgnoredWithoutRate(t *testing.T) {
	rec := &models.ProgressRecord{Quantity: 20, Value: floatPtr(20)}
	assert.Equal(t, 0.0, ComputeValue(rec, 0))
}

func TestComputeValue_StoredValueUsedWithoutRate(t *testing.T) {
	rec := &models.ProgressRecord{Quantity: 20, Value: floatPtr(85)}
	assert.Equal(t, 85.0, ComputeValue(rec, 0))
}

func TestComputeValue_ZeroQuantityFallsBackToTypedValue(t *testing.T) {
	planned := &models.ProgressRecord{
		InputType:    models.InputTypePlanned,
		PlannedValue: floatPtr(500),
		ActualValue:  floatPtr(300),
	}
	assert.Equal(t, 500.0, ComputeValue(planned, 5))

	actual := &models.ProgressRecord{
		InputType:    models.InputTypeActual,
		PlannedValue: floatPtr(500),
		ActualValue:  floatPtr(300),
	}
	assert.Equal(t, 300.0, ComputeValue(actual, 5))
}

func TestComputeValue_NothingUsableYieldsZero(t *testing.T) {
	assert.Equal(t, 0.0, ComputeValue(&models.ProgressRecord{}, 0))
	assert.Equal(t, 0.0, ComputeValue(&models.ProgressRecord{InputType: models.InputTypeActual}, 10))
}

func TestComputeValue_OneUnitRateMisclassified(t *testing.T) {
	// A genuine 1-unit-rate record is indistinguishable from the defect and
	// is valued through the rate path only.
	rec := &models.ProgressRecord{Quantity: 20, Value: floatPtr(20)}
	assert.Equal(t, 20.0, ComputeValue(rec, 1))
	assert.Equal(t, 0.0, ComputeValue(rec, 0))
}
