package models

import "github.com/google/uuid"

// ActivityDefinition is a bill-of-quantities activity: the contractual unit
// of work a ProgressRecord reports against.
//
// The authoritative unit rate is TotalValue / TotalUnits when both are
// present and positive; the flat Rate field may be stale and is only a
// fallback (see services.ResolveRate).
type ActivityDefinition struct {
	ID               uuid.UUID `json:"id"`
	ProjectCode      string    `json:"project_code,omitempty"`
	ProjectFullCode  string    `json:"project_full_code,omitempty"`
	ActivityName     string    `json:"activity_name"`
	Zone             string    `json:"zone,omitempty"`
	Rate             *float64  `json:"rate,omitempty"`
	TotalValue       *float64  `json:"total_value,omitempty"`
	TotalUnits       *float64  `json:"total_units,omitempty"`
	ActivityDivision string    `json:"activity_division,omitempty"`
	ActivityScope    string    `json:"activity_scope,omitempty"`
	ActivityTiming   string    `json:"activity_timing,omitempty"`
}

// Ref returns the activity's project identifier triple. Activities carry no
// separate sub-code column upstream; the sub-code, when present, is embedded
// in the full code.
func (a *ActivityDefinition) Ref() ProjectRef {
	return ProjectRef{FullCode: a.ProjectFullCode, Code: a.ProjectCode}
}
