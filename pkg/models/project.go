// Package models contains domain types for kpi-engine.
package models

import (
	"github.com/google/uuid"
)

// Project statuses as they commonly appear upstream. The store is free text;
// gap detection normalizes before comparing (see services.DetectMissingReports).
const (
	ProjectStatusOngoing  = "Ongoing"
	ProjectStatusFinished = "Finished"
	ProjectStatusOnHold   = "On Hold"
)

// Project represents a contract instance tracked by the application.
// A project is identified by a base code plus an optional sub-code; the
// full code is the authoritative identifier when present.
type Project struct {
	ID                  uuid.UUID `json:"id"`
	ProjectCode         string    `json:"project_code"`
	ProjectSubCode      string    `json:"project_sub_code,omitempty"`
	ProjectFullCode     string    `json:"project_full_code,omitempty"`
	ProjectStatus       string    `json:"project_status"`
	ResponsibleDivision string    `json:"responsible_division,omitempty"`
}

// ProjectRef carries the three identifier fields shared by records,
// activities and projects. Canonicalization and matching live in the
// services package so every comparison goes through one implementation.
type ProjectRef struct {
	FullCode string
	Code     string
	SubCode  string
}

// Ref returns the project's identifier triple.
func (p *Project) Ref() ProjectRef {
	return ProjectRef{FullCode: p.ProjectFullCode, Code: p.ProjectCode, SubCode: p.ProjectSubCode}
}
