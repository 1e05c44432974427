package domain

import (
	"fmt"
	"strings"
	"time"
)

// Recommendation is the full drill plan for one class roster snapshot.
type Recommendation struct {
	ClassID           string                       `json:"class_id,omitempty"`
	MergedDrills      []MergedDrillRecommendation  `json:"merged_drills"`
	RiskSummary       RiskSummary                  `json:"risk_summary"`
	DistinctLocations []string                     `json:"distinct_locations"`
	LocationProfiles  map[string][]HazardRiskEntry `json:"location_profiles"`
	Schedule          MonthlySchedule              `json:"schedule"`
	GeneratedAt       time.Time                    `json:"generated_at"`
}

// Recommend builds the drill plan for a roster: the merged drill list, the
// risk summary, the roster's distinct locations, a risk profile for every
// location with at least one hazard, and the twelve-month calendar. An empty
// roster or one with no catalogued locations yields empty collections.
func Recommend(index RiskIndex, roster []RosterEntry) Recommendation {
	agg := Aggregate(roster)

	profiles := make(map[string][]HazardRiskEntry)
	for _, loc := range agg.DistinctLocations {
		if risks := index.RisksFor(loc); len(risks) > 0 {
			profiles[loc] = risks
		}
	}

	merged := Merge(index, agg.LocationCounts)
	return Recommendation{
		MergedDrills:      merged,
		RiskSummary:       Summarize(index, roster),
		DistinctLocations: agg.DistinctLocations,
		LocationProfiles:  profiles,
		Schedule:          Synthesize(merged),
		GeneratedAt:       clock.Now().UTC(),
	}
}

// LocationStats describes the drills one location calls for on its own.
type LocationStats struct {
	Location               string             `json:"location"`
	TotalRecommendedDrills int                `json:"total_recommended_drills"`
	ByRiskLevel            map[RiskLevel]int  `json:"by_risk_level"`
	ByHazard               map[HazardType]int `json:"by_hazard"`
	Drills                 []RecommendedDrill `json:"drills"`
	Schedule               MonthlySchedule    `json:"monthly_schedule"`
}

// StatsFor summarizes the drills recommended for a single location. Every
// risk level appears in ByRiskLevel, with zero for levels not present.
func StatsFor(index RiskIndex, location string) LocationStats {
	st := LocationStats{
		Location:    strings.TrimSpace(location),
		ByRiskLevel: make(map[RiskLevel]int, len(RiskLevels)),
		ByHazard:    make(map[HazardType]int),
		Drills:      []RecommendedDrill{},
		Schedule:    newMonthlySchedule(),
	}
	for _, l := range RiskLevels {
		st.ByRiskLevel[l] = 0
	}

	for _, e := range index.RisksFor(location) {
		d, ok := DrillFor(e)
		if !ok {
			continue
		}
		st.Drills = append(st.Drills, d)
		st.ByRiskLevel[d.Level]++
		st.ByHazard[d.Hazard]++
		placeDrill(&st.Schedule, d.Hazard, d.Level, d.Season)
	}
	st.TotalRecommendedDrills = len(st.Drills)
	return st
}

// LearningModule is a self-paced lesson suggested for students at a location.
type LearningModule struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	Points      int       `json:"points"`
	Level       RiskLevel `json:"risk_level,omitempty"`
	Priority    int       `json:"priority,omitempty"`
}

type moduleTemplate struct {
	title       string
	description string
	duration    string
	points      int
}

var moduleTemplates = map[HazardType]moduleTemplate{
	HazardEarthquake: {"Earthquake Safety", "Learn how to stay safe during earthquakes", "45 min", 150},
	HazardFlood:      {"Flood Preparedness", "Flood safety and evacuation tips", "40 min", 120},
	HazardCyclone:    {"Cyclone Safety", "How to prepare for cyclones", "35 min", 120},
	HazardTsunami:    {"Tsunami Evacuation", "Learn tsunami warning signs and evacuation", "30 min", 100},
	HazardLandslide:  {"Landslide Safety", "How to stay safe during landslides", "25 min", 100},
	HazardHeatwave:   {"Heatwave Protection", "Stay safe during extreme heat", "20 min", 80},
}

// BasicModule is offered when a location has no catalogued hazards.
var BasicModule = LearningModule{
	ID:          "basic",
	Title:       "Basic Disaster Preparedness",
	Description: "Learn essential safety tips for all disasters",
	Duration:    "30 min",
	Points:      100,
}

// LearningModulesFor returns one module per hazard at the location, in the
// location's priority order, or BasicModule alone when it has none.
func LearningModulesFor(index RiskIndex, location string) []LearningModule {
	risks := index.RisksFor(location)
	if len(risks) == 0 {
		return []LearningModule{BasicModule}
	}

	modules := make([]LearningModule, 0, len(risks))
	for _, e := range risks {
		t, ok := moduleTemplates[e.Hazard]
		if !ok {
			continue
		}
		modules = append(modules, LearningModule{
			ID:          strings.ToLower(string(e.Hazard)),
			Title:       fmt.Sprintf("%s (%s risk)", t.title, e.Level),
			Description: t.description,
			Duration:    t.duration,
			Points:      t.points,
			Level:       e.Level,
			Priority:    e.Priority,
		})
	}
	return modules
}
