package services

import (
	"strings"

	"github.com/fieldline-io/kpi-engine/pkg/models"
)

// ActivityIndex maps composite keys to activity definitions. Each activity
// is inserted under up to four keys so lookups can degrade gracefully when a
// record's zone or sub-code is absent or malformed:
//
//	name|fullCode|zone   (most specific)
//	name|fullCode
//	name|code|zone       (only when code differs from fullCode)
//	name|code
//
// The lookup order encodes business meaning: a specific match beats a
// general one. It must stay behaviorally aligned with MatchesProject — both
// tolerate the same class of upstream inconsistency.
type ActivityIndex struct {
	byKey      map[string][]*models.ActivityDefinition
	activities []*models.ActivityDefinition
}

func indexKey(parts ...string) string {
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|")
}

// NewActivityIndex builds the multi-key index over a snapshot of activity
// definitions. The snapshot is retained (not copied) for whole-collection
// scans; callers must not mutate it afterwards.
func NewActivityIndex(activities []*models.ActivityDefinition) *ActivityIndex {
	idx := &ActivityIndex{
		byKey:      make(map[string][]*models.ActivityDefinition, len(activities)*2),
		activities: activities,
	}

	for _, act := range activities {
		name := act.ActivityName
		full := CanonicalProjectCode(act.Ref())
		code := strings.TrimSpace(act.ProjectCode)

		idx.insert(indexKey(name, full, act.Zone), act)
		idx.insert(indexKey(name, full), act)
		if code != "" && !strings.EqualFold(code, full) {
			idx.insert(indexKey(name, code, act.Zone), act)
			idx.insert(indexKey(name, code), act)
		}
	}
	return idx
}

func (idx *ActivityIndex) insert(key string, act *models.ActivityDefinition) {
	idx.byKey[key] = append(idx.byKey[key], act)
}

// Activities returns the underlying snapshot, used by the rate resolver's
// relaxed whole-collection scan.
func (idx *ActivityIndex) Activities() []*models.ActivityDefinition {
	return idx.activities
}

// Resolve finds the activity definition a progress record reports against,
// trying keys from most to least specific and returning nil when no key
// matches. When a key yields several candidates and the record has a known
// zone, the candidate whose normalized zone equals, contains, or is
// contained by the record's normalized zone is preferred; otherwise the
// first candidate wins.
func (idx *ActivityIndex) Resolve(rec *models.ProgressRecord) *models.ActivityDefinition {
	name := rec.ActivityName
	full := CanonicalProjectCode(rec.Ref())
	code := strings.TrimSpace(rec.ProjectCode)

	keys := []string{
		indexKey(name, full, rec.Zone),
		indexKey(name, full),
	}
	if code != "" && !strings.EqualFold(code, full) {
		keys = append(keys,
			indexKey(name, code, rec.Zone),
			indexKey(name, code),
		)
	}

	for _, key := range keys {
		candidates := idx.byKey[key]
		if len(candidates) == 0 {
			continue
		}
		if len(candidates) == 1 || strings.TrimSpace(rec.Zone) == "" {
			return candidates[0]
		}
		recZone := strings.ToLower(NormalizeZone(rec.Zone, rec.ProjectCode))
		for _, cand := range candidates {
			candZone := strings.ToLower(NormalizeZone(cand.Zone, cand.ProjectCode))
			if candZone == "" {
				continue
			}
			if candZone == recZone ||
				strings.Contains(candZone, recZone) ||
				strings.Contains(recZone, candZone) {
				return cand
			}
		}
		return candidates[0]
	}
	return nil
}
