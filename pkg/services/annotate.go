package services

import (
	"strings"

	"github.com/fieldline-io/kpi-engine/pkg/models"
)

// ValuedRecord is a progress record annotated with everything the views
// derive from it: the matched activity, the resolved rate, the computed
// monetary value, and the effective division/scope/timing (record field
// first, matched activity second). Built once per computation batch so the
// detail listing, the filter predicate and the aggregator all see identical
// derived values.
type ValuedRecord struct {
	Record   *models.ProgressRecord      `json:"record"`
	Activity *models.ActivityDefinition `json:"-"`
	Rate     float64                     `json:"rate"`
	Value    float64                     `json:"value"`
	Division string                      `json:"division,omitempty"`
	Scope    string                      `json:"scope,omitempty"`
	Timing   string                      `json:"timing,omitempty"`

	// Matchable is false when the record carries neither a full code nor a
	// base code. Such records stay in listings untouched but are excluded
	// from value-dependent aggregates.
	Matchable bool `json:"matchable"`
}

// BatchLookups holds derived lookup tables built once per computation batch
// and passed explicitly — never cached at package level.
type BatchLookups struct {
	// DivisionByScope maps a lower-cased scope name to its division, built
	// from the activity definitions that carry both.
	DivisionByScope map[string]string
}

// BuildLookups constructs the per-batch lookup tables from an activity
// snapshot.
func BuildLookups(activities []*models.ActivityDefinition) BatchLookups {
	byScope := make(map[string]string)
	for _, act := range activities {
		scope := strings.ToLower(strings.TrimSpace(act.ActivityScope))
		division := strings.TrimSpace(act.ActivityDivision)
		if scope == "" || division == "" {
			continue
		}
		if _, seen := byScope[scope]; !seen {
			byScope[scope] = division
		}
	}
	return BatchLookups{DivisionByScope: byScope}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// AnnotateRecords builds the ValuedRecord views for a record snapshot. The
// input slices are not mutated.
func AnnotateRecords(records []*models.ProgressRecord, idx *ActivityIndex, lookups BatchLookups) []ValuedRecord {
	annotated := make([]ValuedRecord, 0, len(records))
	for _, rec := range records {
		vr := ValuedRecord{
			Record:    rec,
			Matchable: CanonicalProjectCode(rec.Ref()) != "",
		}

		var act *models.ActivityDefinition
		if idx != nil {
			act = idx.Resolve(rec)
		}
		vr.Activity = act

		if vr.Matchable {
			vr.Rate = ResolveRate(rec, idx)
			vr.Value = ComputeValue(rec, vr.Rate)
		}

		if act != nil {
			vr.Division = firstNonEmpty(rec.ActivityDivision, act.ActivityDivision)
			vr.Scope = firstNonEmpty(rec.ActivityScope, act.ActivityScope)
			vr.Timing = firstNonEmpty(rec.ActivityTiming, act.ActivityTiming)
		} else {
			vr.Division = strings.TrimSpace(rec.ActivityDivision)
			vr.Scope = strings.TrimSpace(rec.ActivityScope)
			vr.Timing = strings.TrimSpace(rec.ActivityTiming)
		}

		if vr.Division == "" && vr.Scope != "" {
			vr.Division = lookups.DivisionByScope[strings.ToLower(vr.Scope)]
		}

		annotated = append(annotated, vr)
	}
	return annotated
}
