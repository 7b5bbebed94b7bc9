package services

import (
	"strings"
	"time"

	"github.com/fieldline-io/kpi-engine/pkg/models"
)

// Filter holds the active criteria of the interactive KPI view. Empty
// slices and nil bounds mean "criterion inactive". A record matches only
// when every active criterion is satisfied.
type Filter struct {
	Projects   []string // selected full codes
	Activities []string
	InputTypes []models.InputType
	Zones      []string
	Sections   []string
	Units      []string
	Divisions  []string
	Scopes     []string
	Timings    []string

	DateFrom *time.Time
	DateTo   *time.Time

	MinValue    *float64
	MaxValue    *float64
	MinQuantity *float64
	MaxQuantity *float64
}

// refFromFullCode derives an identifier triple from a bare full code, as
// selected in the project filter widget.
func refFromFullCode(fullCode string) models.ProjectRef {
	full := strings.TrimSpace(fullCode)
	ref := models.ProjectRef{FullCode: full}
	if i := strings.Index(full, "-"); i >= 0 {
		ref.Code = full[:i]
		ref.SubCode = full[i+1:]
	} else {
		ref.Code = full
	}
	return ref
}

// looseMatch is the default criterion comparison: case-insensitive equality
// or substring containment in either direction.
func looseMatch(value, filter string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	f := strings.ToLower(strings.TrimSpace(filter))
	if v == "" || f == "" {
		return v == f && v != ""
	}
	return v == f || strings.Contains(v, f) || strings.Contains(f, v)
}

func anyLooseMatch(value string, filters []string) bool {
	for _, f := range filters {
		if looseMatch(value, f) {
			return true
		}
	}
	return false
}

// Matches reports whether an annotated record satisfies every active
// criterion of the filter.
func (f *Filter) Matches(vr ValuedRecord) bool {
	rec := vr.Record

	if len(f.Projects) > 0 {
		matched := false
		candidate := rec.Ref()
		for _, selected := range f.Projects {
			if MatchesProject(candidate, refFromFullCode(selected)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Activities) > 0 && !anyLooseMatch(rec.ActivityName, f.Activities) {
		return false
	}

	if len(f.InputTypes) > 0 {
		matched := false
		for _, t := range f.InputTypes {
			if rec.InputType == t {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Zones) > 0 && !f.matchesZone(rec) {
		return false
	}

	// Section is defined only for Actual records: an active section filter
	// excludes Planned records outright.
	if len(f.Sections) > 0 {
		if rec.InputType == models.InputTypePlanned {
			return false
		}
		if !anyLooseMatch(rec.Section, f.Sections) {
			return false
		}
	}

	if len(f.Units) > 0 && !anyLooseMatch(rec.Unit, f.Units) {
		return false
	}
	if len(f.Divisions) > 0 && !anyLooseMatch(vr.Division, f.Divisions) {
		return false
	}

	// Scope and timing fail closed: a record whose scope/timing cannot be
	// determined is excluded whenever such a filter is active.
	if len(f.Scopes) > 0 {
		if vr.Scope == "" || !anyLooseMatch(vr.Scope, f.Scopes) {
			return false
		}
	}
	if len(f.Timings) > 0 {
		if vr.Timing == "" || !anyLooseMatch(vr.Timing, f.Timings) {
			return false
		}
	}

	if f.DateFrom != nil || f.DateTo != nil {
		day, ok := ParseFlexibleDate(rec.ActivityDate)
		if !ok {
			return false
		}
		if f.DateFrom != nil && day.Before(DateOnly(*f.DateFrom)) {
			return false
		}
		if f.DateTo != nil && day.After(DateOnly(*f.DateTo)) {
			return false
		}
	}

	if f.MinValue != nil && vr.Value < *f.MinValue {
		return false
	}
	if f.MaxValue != nil && vr.Value > *f.MaxValue {
		return false
	}
	if f.MinQuantity != nil && rec.Quantity < *f.MinQuantity {
		return false
	}
	if f.MaxQuantity != nil && rec.Quantity > *f.MaxQuantity {
		return false
	}

	return true
}

// matchesZone compares zones after stripping project-code prefixes from both
// sides, via zone-number equality or substring containment.
func (f *Filter) matchesZone(rec *models.ProgressRecord) bool {
	recZone := NormalizeZone(rec.Zone, rec.ProjectCode)
	recNum := ExtractZoneNumber(recZone)
	for _, filter := range f.Zones {
		candZone := NormalizeZone(filter, rec.ProjectCode)
		if ExtractZoneNumber(candZone) == recNum {
			return true
		}
		lv := strings.ToLower(recZone)
		lf := strings.ToLower(candZone)
		if lv != "" && lf != "" && (strings.Contains(lv, lf) || strings.Contains(lf, lv)) {
			return true
		}
	}
	return false
}

// ApplyFilter returns the annotated records satisfying the filter, in input
// order.
func ApplyFilter(records []ValuedRecord, filter *Filter) []ValuedRecord {
	if filter == nil {
		return records
	}
	out := make([]ValuedRecord, 0, len(records))
	for _, vr := range records {
		if filter.Matches(vr) {
			out = append(out, vr)
		}
	}
	return out
}
