package services

import (
	"github.com/fieldline-io/kpi-engine/pkg/models"
)

// PartitionSummary aggregates one input type of a filtered record set.
type PartitionSummary struct {
	Count    int     `json:"count"`
	Quantity float64 `json:"quantity"`
	Value    float64 `json:"value"`
}

// Summary is the per-input-type aggregate of a filtered record set, plus the
// achievement rate (actual over planned, value-based when planned value is
// available, quantity-based otherwise).
type Summary struct {
	Planned         PartitionSummary `json:"planned"`
	Actual          PartitionSummary `json:"actual"`
	AchievementRate float64          `json:"achievement_rate"`
}

// Summarize computes the summary for an already-filtered, already-annotated
// record set. It must be fed the exact slice rendered in the detail view;
// the values it sums are the ones attached during annotation, so the two
// views cannot diverge.
//
// Unmatchable records are counted and their quantities summed, but their
// value contribution is zero since annotation never assigns them a value.
func Summarize(records []ValuedRecord) Summary {
	var s Summary
	for _, vr := range records {
		part := &s.Actual
		if vr.Record.InputType == models.InputTypePlanned {
			part = &s.Planned
		}
		part.Count++
		part.Quantity += vr.Record.Quantity
		part.Value += vr.Value
	}

	switch {
	case s.Planned.Value > 0:
		s.AchievementRate = s.Actual.Value / s.Planned.Value * 100
	case s.Planned.Quantity > 0:
		s.AchievementRate = s.Actual.Quantity / s.Planned.Quantity * 100
	default:
		s.AchievementRate = 0
	}
	return s
}
