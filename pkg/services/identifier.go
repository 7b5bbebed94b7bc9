// Package services contains the KPI reconciliation and gap-detection engine:
// pure functions over in-memory snapshots fetched by the repositories layer.
// Nothing in this package performs I/O or mutates its inputs.
package services

import (
	"strings"

	"github.com/fieldline-io/kpi-engine/pkg/models"
)

// CanonicalProjectCode returns the one full code identifying a project.
// The stored full code wins when present; otherwise it is rebuilt from the
// base code and sub-code. A sub-code that already embeds the base code
// (case-insensitive prefix) is returned as-is instead of being joined again.
func CanonicalProjectCode(ref models.ProjectRef) string {
	if full := strings.TrimSpace(ref.FullCode); full != "" {
		return full
	}

	code := strings.TrimSpace(ref.Code)
	sub := strings.TrimSpace(ref.SubCode)

	switch {
	case sub == "":
		return code
	case code == "":
		return sub
	case strings.HasPrefix(strings.ToLower(sub), strings.ToLower(code)):
		return sub
	default:
		return code + "-" + sub
	}
}

// baseCode returns the base project code of a ref: the explicit code field
// when populated, otherwise everything before the first hyphen of the
// canonical full code. Lower-cased and trimmed.
func baseCode(ref models.ProjectRef) string {
	if code := strings.TrimSpace(ref.Code); code != "" {
		return strings.ToLower(code)
	}
	full := strings.ToLower(CanonicalProjectCode(ref))
	if i := strings.Index(full, "-"); i >= 0 {
		return full[:i]
	}
	return full
}

// subCode returns the sub-code of a ref: the explicit sub-code field when
// populated, otherwise everything after the first hyphen of the canonical
// full code. Lower-cased and trimmed; empty when the ref carries none.
func subCode(ref models.ProjectRef) string {
	if sub := strings.TrimSpace(ref.SubCode); sub != "" {
		return strings.ToLower(sub)
	}
	full := strings.ToLower(CanonicalProjectCode(ref))
	if i := strings.Index(full, "-"); i >= 0 {
		return full[i+1:]
	}
	return ""
}

// MatchesProject reports whether a candidate identifies the same project as
// the selected identifier. Tiers are evaluated in strict order, short-
// circuiting on the first match:
//
//  1. exact full-code equality;
//  2. the selected code carries a sub-code but the candidate carries none:
//     match on base code alone (tolerates rows stored without a sub-code);
//  3. both carry sub-codes: reconstruct the candidate's full code with and
//     without a joining hyphen, detecting an embedded base code, and compare.
//
// Tier 2 deliberately merges records across sub-contracts when the sub-code
// is missing upstream. That is inherited behavior; do not tighten it here
// without changing every call site's expectations.
func MatchesProject(candidate, selected models.ProjectRef) bool {
	candFull := strings.ToLower(strings.TrimSpace(CanonicalProjectCode(candidate)))
	selFull := strings.ToLower(strings.TrimSpace(CanonicalProjectCode(selected)))
	if candFull == "" || selFull == "" {
		return false
	}
	if candFull == selFull {
		return true
	}

	candBase, candSub := baseCode(candidate), subCode(candidate)
	selBase, selSub := baseCode(selected), subCode(selected)

	if selSub != "" && candSub == "" {
		return candBase != "" && candBase == selBase
	}

	if selSub != "" && candSub != "" {
		rebuilt := candBase + "-" + candSub
		if strings.HasPrefix(candSub, candBase) {
			rebuilt = candSub
		}
		if rebuilt == selFull || candBase+candSub == selFull {
			return true
		}
	}

	return false
}

// NormalizeZone strips a redundant project-code prefix from a zone label.
// Upstream zones frequently arrive as "P100 - Zone 1", "P100 Zone 1" or
// "P100-Zone 1". When stripping would leave nothing, the original trimmed
// label is kept.
func NormalizeZone(zone, projectCode string) string {
	z := strings.TrimSpace(zone)
	pc := strings.TrimSpace(projectCode)
	if z == "" || pc == "" {
		return z
	}

	lowerZ := strings.ToLower(z)
	lowerPC := strings.ToLower(pc)
	for _, sep := range []string{" - ", " ", "-"} {
		prefix := lowerPC + sep
		if strings.HasPrefix(lowerZ, prefix) {
			stripped := strings.TrimSpace(z[len(prefix):])
			if stripped == "" {
				return z
			}
			return stripped
		}
	}
	return z
}

// ExtractZoneNumber returns the first contiguous digit run in a zone label,
// the coarse key under which "Zone 1" and "P100-01-1" can be compared.
// Labels with no digits fall back to their lower-cased trimmed form.
func ExtractZoneNumber(zone string) string {
	z := strings.TrimSpace(zone)
	start := -1
	for i, r := range z {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return z[start:i]
		}
	}
	if start >= 0 {
		return z[start:]
	}
	return strings.ToLower(z)
}
