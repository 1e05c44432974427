package domain

import (
	"cmp"
	"slices"
)

// DrillKey identifies a merged recommendation. Risk level is part of the
// identity because criteria differ by severity.
type DrillKey struct {
	Hazard HazardType
	Level  RiskLevel
}

// MergedDrillRecommendation is one drill for a whole class, deduplicated
// across every roster location that calls for the same hazard and level.
type MergedDrillRecommendation struct {
	Hazard            HazardType  `json:"hazard"`
	Level             RiskLevel   `json:"risk_level"`
	Priority          int         `json:"priority"`
	AffectedLocations []string    `json:"affected_locations"`
	StudentCount      int         `json:"student_count"`
	Objectives        []string    `json:"objectives"`
	SuccessCriteria   []Criterion `json:"success_criteria"`
	Season            Season      `json:"season_months,omitempty"`
	Frequency         string      `json:"frequency"`
	Duration          string      `json:"duration"`
	Notes             string      `json:"notes"`
}

// Key returns the merge identity of the recommendation.
func (m MergedDrillRecommendation) Key() DrillKey {
	return DrillKey{Hazard: m.Hazard, Level: m.Level}
}

// Merge folds the drills recommended for every location in locationCounts
// into one list per class. Locations are visited in sorted order and the
// result is sorted by priority then hazard name, so the output depends only
// on the contents of locationCounts.
func Merge(index RiskIndex, locationCounts map[string]int) []MergedDrillRecommendation {
	locations := make([]string, 0, len(locationCounts))
	for loc := range locationCounts {
		locations = append(locations, loc)
	}
	slices.Sort(locations)

	merged := make(map[DrillKey]*MergedDrillRecommendation)
	for _, loc := range locations {
		count := locationCounts[loc]
		for _, entry := range index.RisksFor(loc) {
			drill, ok := DrillFor(entry)
			if !ok {
				continue
			}
			key := DrillKey{Hazard: drill.Hazard, Level: drill.Level}
			m, seen := merged[key]
			if !seen {
				merged[key] = &MergedDrillRecommendation{
					Hazard:            drill.Hazard,
					Level:             drill.Level,
					Priority:          drill.Priority,
					AffectedLocations: []string{loc},
					StudentCount:      count,
					Objectives:        drill.Objectives,
					SuccessCriteria:   drill.SuccessCriteria,
					Season:            drill.Season,
					Frequency:         drill.Frequency,
					Duration:          drill.Duration,
				}
				continue
			}
			if slices.Contains(m.AffectedLocations, loc) {
				continue
			}
			m.AffectedLocations = append(m.AffectedLocations, loc)
			m.StudentCount += count
		}
	}

	out := make([]MergedDrillRecommendation, 0, len(merged))
	for _, m := range merged {
		if t, ok := TemplateFor(m.Hazard); ok {
			m.Notes = t.Notes(m.AffectedLocations)
		}
		out = append(out, *m)
	}
	slices.SortFunc(out, compareMerged)
	return out
}

func compareMerged(a, b MergedDrillRecommendation) int {
	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Hazard, b.Hazard); c != 0 {
		return c
	}
	return cmp.Compare(a.Level.Priority(), b.Level.Priority())
}
