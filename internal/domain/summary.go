package domain

// HazardExposure counts roster students exposed to one hazard.
type HazardExposure struct {
	Count int       `json:"count"`
	Level RiskLevel `json:"risk_level"`
}

// RiskSummary is the roster-wide headline numbers for a class.
type RiskSummary struct {
	TotalStudents        int                           `json:"total_students"`
	DistinctLocations    int                           `json:"distinct_locations"`
	HighRiskStudentCount int                           `json:"high_risk_students"`
	RiskDistribution     map[HazardType]HazardExposure `json:"risk_distribution"`
}

// Summarize computes the risk summary for a roster. Every entry counts
// toward TotalStudents, including those without a location. A student is
// high risk when any hazard at their location is high or critical. The
// distribution counts exposures: a student at a location with two hazards
// adds one to each, and each hazard reports the most severe level seen.
func Summarize(index RiskIndex, roster []RosterEntry) RiskSummary {
	agg := Aggregate(roster)
	s := RiskSummary{
		TotalStudents:     len(roster),
		DistinctLocations: len(agg.DistinctLocations),
		RiskDistribution:  make(map[HazardType]HazardExposure),
	}

	// Students at the same location share its risks, so resolve it once.
	for _, loc := range agg.DistinctLocations {
		n := agg.LocationCounts[loc]
		highRisk := false
		for _, e := range index.RisksFor(loc) {
			if e.Level.AtLeastHigh() {
				highRisk = true
			}
			exp := s.RiskDistribution[e.Hazard]
			exp.Count += n
			if exp.Level == "" || e.Level.Priority() < exp.Level.Priority() {
				exp.Level = e.Level
			}
			s.RiskDistribution[e.Hazard] = exp
		}
		if highRisk {
			s.HighRiskStudentCount += n
		}
	}
	return s
}
