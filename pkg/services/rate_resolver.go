package services

import (
	"strings"

	"github.com/fieldline-io/kpi-engine/pkg/models"
)

// activityRate derives the unit rate carried by an activity definition.
// TotalValue / TotalUnits reflects the current contractual allocation and
// takes priority over the stored flat rate, which may be stale.
func activityRate(act *models.ActivityDefinition) float64 {
	if act.TotalUnits != nil && act.TotalValue != nil &&
		*act.TotalUnits > 0 && *act.TotalValue > 0 {
		return *act.TotalValue / *act.TotalUnits
	}
	if act.Rate != nil && *act.Rate > 0 {
		return *act.Rate
	}
	return 0
}

// ResolveRate returns the unit rate for a progress record, or 0 when no rate
// can be found. The cascade trades precision for availability:
//
//  1. the indexed activity's TotalValue/TotalUnits;
//  2. the indexed activity's stored rate;
//  3. a rate-like field on the record itself;
//  4. a relaxed scan of all activities matching the name and base project
//     code, ignoring zone and sub-code specificity.
//
// A zero rate silently breaks valuation for an apparently normal record, so
// the late, less precise steps exist on purpose.
func ResolveRate(rec *models.ProgressRecord, idx *ActivityIndex) float64 {
	if idx != nil {
		if act := idx.Resolve(rec); act != nil {
			if rate := activityRate(act); rate > 0 {
				return rate
			}
		}
	}

	if rec.Rate != nil && *rec.Rate > 0 {
		return *rec.Rate
	}

	if idx != nil {
		name := strings.ToLower(strings.TrimSpace(rec.ActivityName))
		base := baseCode(rec.Ref())
		if name != "" && base != "" {
			for _, act := range idx.Activities() {
				if strings.ToLower(strings.TrimSpace(act.ActivityName)) != name {
					continue
				}
				if baseCode(act.Ref()) != base {
					continue
				}
				if rate := activityRate(act); rate > 0 {
					return rate
				}
			}
		}
	}

	return 0
}
