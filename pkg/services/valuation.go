package services

import (
	"math"

	"github.com/fieldline-io/kpi-engine/pkg/models"
)

// valueQuantityEpsilon bounds the equality check behind the known upstream
// defect where a quantity is miscategorized as a monetary value.
const valueQuantityEpsilon = 1e-9

// ComputeValue derives the single authoritative monetary total for a record
// given its resolved unit rate. Every view — detail table and summary alike
// — must call this one function; a second implementation is how "totals
// don't match the table" bugs happen.
//
// A stored value numerically equal to the quantity (both positive) is
// treated as the known data-quality defect and ignored. A genuinely
// 1-unit-rate record is indistinguishable from the defect; this
// misclassification is accepted, inherited behavior.
func ComputeValue(rec *models.ProgressRecord, rate float64) float64 {
	q := rec.Quantity
	stored := 0.0
	if rec.Value != nil {
		stored = *rec.Value
	}

	defect := q > 0 && stored > 0 && math.Abs(stored-q) < valueQuantityEpsilon

	if q > 0 && rate > 0 {
		return q * rate
	}
	if q > 0 && stored > 0 && !defect {
		return stored
	}
	if q == 0 {
		switch rec.InputType {
		case models.InputTypePlanned:
			if rec.PlannedValue != nil && *rec.PlannedValue > 0 {
				return *rec.PlannedValue
			}
		case models.InputTypeActual:
			if rec.ActualValue != nil && *rec.ActualValue > 0 {
				return *rec.ActualValue
			}
		}
	}
	return 0
}
