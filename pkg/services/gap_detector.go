package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldline-io/kpi-engine/pkg/models"
)

// normalizeStatus collapses case, whitespace, hyphens and underscores so
// "Ongoing", "on-going" and "ON GOING" all compare equal.
func normalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\t':
			return -1
		}
		return r
	}, s)
}

const statusOngoing = "ongoing"

// presenceKey joins a lower-cased project identifier with an ISO date.
func presenceKey(identifier, isoDate string) string {
	return identifier + "|" + isoDate
}

// DetectMissingReports enumerates every (ongoing project, day) pair in the
// inclusive [from, to] window with no submitted progress record and no
// suppression entry.
//
// A record marks presence under both its full code and its base code (when
// distinct), for every date representation it yields: the parsed activity
// date, or, when that is absent or unparsable, a best-effort parse of the
// free-text day label. Suppression matches on either the ISO date or the
// day label, case-insensitively.
//
// Complexity is |ongoing projects| x |days| with O(1) set lookups; both
// factors are small in practice. Empty inputs yield empty output.
func DetectMissingReports(
	projects []*models.Project,
	records []*models.ProgressRecord,
	ignored []*models.IgnoredReportEntry,
	from, to time.Time,
) []models.MissingReportEntry {
	from = DateOnly(from)
	to = DateOnly(to)
	if to.Before(from) {
		return []models.MissingReportEntry{}
	}

	present := make(map[string]struct{}, len(records)*2)
	for _, rec := range records {
		iso := ""
		if day, ok := ParseFlexibleDate(rec.ActivityDate); ok {
			iso = day.Format(ISODate)
		} else if day, ok := ParseFlexibleDate(rec.DayLabel); ok {
			iso = day.Format(ISODate)
		}
		if iso == "" {
			continue
		}

		full := strings.ToLower(CanonicalProjectCode(rec.Ref()))
		if full == "" {
			continue
		}
		present[presenceKey(full, iso)] = struct{}{}
		if base := baseCode(rec.Ref()); base != "" && base != full {
			present[presenceKey(base, iso)] = struct{}{}
		}
	}

	suppressed := make(map[uuid.UUID]map[string]struct{}, len(ignored))
	for _, entry := range ignored {
		keys := suppressed[entry.ProjectID]
		if keys == nil {
			keys = make(map[string]struct{}, 2)
			suppressed[entry.ProjectID] = keys
		}
		if d := strings.TrimSpace(entry.IgnoredDate); d != "" {
			keys[strings.ToLower(d)] = struct{}{}
		}
		if l := strings.TrimSpace(entry.IgnoredDayLabel); l != "" {
			keys[strings.ToLower(l)] = struct{}{}
		}
	}

	missing := []models.MissingReportEntry{}
	for _, project := range projects {
		if normalizeStatus(project.ProjectStatus) != statusOngoing {
			continue
		}

		full := strings.ToLower(CanonicalProjectCode(project.Ref()))
		base := baseCode(project.Ref())
		projectKeys := suppressed[project.ID]

		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			iso := day.Format(ISODate)

			if _, ok := present[presenceKey(full, iso)]; ok {
				continue
			}
			if base != "" && base != full {
				if _, ok := present[presenceKey(base, iso)]; ok {
					continue
				}
			}

			label := day.Format(DayLabelFormat)
			if projectKeys != nil {
				if _, ok := projectKeys[iso]; ok {
					continue
				}
				if _, ok := projectKeys[strings.ToLower(label)]; ok {
					continue
				}
			}

			missing = append(missing, models.MissingReportEntry{
				Project:  project,
				Date:     iso,
				DayLabel: label,
			})
		}
	}
	return missing
}
