package models

import (
	"time"

	"github.com/google/uuid"
)

// IgnoredReportEntry is a user-asserted suppression: "do not flag this
// project as missing a report for this date". Either the ISO date or the
// human-readable day label suppresses a match.
type IgnoredReportEntry struct {
	ID              uuid.UUID `json:"id"`
	ProjectID       uuid.UUID `json:"project_id"`
	IgnoredDate     string    `json:"ignored_date"` // YYYY-MM-DD
	IgnoredDayLabel string    `json:"ignored_day_label,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// MissingReportEntry is a derived, never-persisted row: an ongoing project
// with no submitted progress report on a given day and no suppression for
// it. Recomputed on every gap-detection pass.
type MissingReportEntry struct {
	Project  *Project `json:"project"`
	Date     string   `json:"date"` // YYYY-MM-DD
	DayLabel string   `json:"day_label"`
}
