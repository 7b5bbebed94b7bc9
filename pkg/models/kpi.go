package models

import (
	"time"

	"github.com/google/uuid"
)

// InputType distinguishes planned from actual progress reports.
type InputType string

const (
	InputTypePlanned InputType = "Planned"
	InputTypeActual  InputType = "Actual"
)

// ApprovalStatusApproved marks an Actual record as visible regardless of age.
const ApprovalStatusApproved = "approved"

// ProgressRecord is a single dated report of planned or actual progress
// against a BOQ activity ("KPI" in the tracking view).
//
// Upstream data quality is poor: identifiers are inconsistently populated,
// dates arrive as free text, and Value sometimes holds a miscategorized
// quantity. The record is stored as received; all interpretation happens in
// the services package.
type ProgressRecord struct {
	ID               uuid.UUID `json:"id"`
	ProjectCode      string    `json:"project_code,omitempty"`
	ProjectSubCode   string    `json:"project_sub_code,omitempty"`
	ProjectFullCode  string    `json:"project_full_code,omitempty"`
	ActivityName     string    `json:"activity_name"`
	InputType        InputType `json:"input_type"`
	Quantity         float64   `json:"quantity"`
	Value            *float64  `json:"value,omitempty"`
	Rate             *float64  `json:"rate,omitempty"`
	PlannedValue     *float64  `json:"planned_value,omitempty"`
	ActualValue      *float64  `json:"actual_value,omitempty"`
	Zone             string    `json:"zone,omitempty"`
	Section          string    `json:"section,omitempty"` // meaningful only for Actual records
	Unit             string    `json:"unit,omitempty"`
	ActivityDivision string    `json:"activity_division,omitempty"`
	ActivityScope    string    `json:"activity_scope,omitempty"`
	ActivityTiming   string    `json:"activity_timing,omitempty"`
	ActivityDate     string    `json:"activity_date,omitempty"` // raw upstream text, parsed on demand
	DayLabel         string    `json:"day_label,omitempty"`     // free-text day label, fallback date source
	ApprovalStatus   string    `json:"approval_status,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Ref returns the record's project identifier triple.
func (r *ProgressRecord) Ref() ProjectRef {
	return ProjectRef{FullCode: r.ProjectFullCode, Code: r.ProjectCode, SubCode: r.ProjectSubCode}
}
