package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Criterion is one measurable target a drill run is judged against.
type Criterion struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

// DrillTemplate is the fixed, location-independent content of a drill for a
// hazard type.
type DrillTemplate struct {
	Objectives []string
	// Criteria returns the success criteria for a drill at the given level.
	// Only earthquake drills tighten their targets with severity.
	Criteria         func(level RiskLevel) []Criterion
	Duration         string
	DefaultFrequency string
	notes            string
}

// Notes renders the template's note for the given locations.
func (t DrillTemplate) Notes(locations []string) string {
	return fmt.Sprintf(t.notes, strings.Join(locations, ", "))
}

func fixedCriteria(c ...Criterion) func(RiskLevel) []Criterion {
	return func(RiskLevel) []Criterion {
		out := make([]Criterion, len(c))
		copy(out, c)
		return out
	}
}

var drillTemplates = map[HazardType]DrillTemplate{
	HazardEarthquake: {
		Objectives: []string{
			"Practice Drop, Cover, and Hold",
			"Evacuate to safe zone",
			"Count all students after evacuation",
			"Identify safe spots in classroom",
		},
		Criteria: func(level RiskLevel) []Criterion {
			response := "< 45 seconds"
			if level == RiskCritical {
				response = "< 30 seconds"
			}
			return []Criterion{
				{Name: "response_time", Target: response},
				{Name: "participation", Target: "> 95%"},
				{Name: "evacuation_time", Target: "< 3 minutes"},
			}
		},
		Duration:         "15-20 minutes",
		DefaultFrequency: "Monthly",
		notes:            "Critical for %s due to high seismic activity",
	},
	HazardFlood: {
		Objectives: []string{
			"Move to higher ground",
			"Avoid walking through water",
			"Turn off electricity if safe",
			"Gather emergency supplies",
		},
		Criteria: fixedCriteria(
			Criterion{Name: "response_time", Target: "< 2 minutes"},
			Criterion{Name: "participation", Target: "> 95%"},
			Criterion{Name: "safe_assembly", Target: "100% at high ground"},
		),
		Duration:         "20-25 minutes",
		DefaultFrequency: "Before monsoon",
		notes:            "Focus on flood-prone areas of %s during monsoon",
	},
	HazardCyclone: {
		Objectives: []string{
			"Reinforce doors and windows",
			"Gather emergency kit",
			"Move to interior room",
			"Listen to weather updates",
		},
		Criteria: fixedCriteria(
			Criterion{Name: "preparation_time", Target: "< 10 minutes"},
			Criterion{Name: "participation", Target: "> 95%"},
			Criterion{Name: "kit_readiness", Target: "100%"},
		),
		Duration:         "15-20 minutes",
		DefaultFrequency: "Before cyclone season",
		notes:            "Critical during the cyclone season in %s",
	},
	HazardTsunami: {
		Objectives: []string{
			"Recognize natural warnings",
			"Evacuate to high ground immediately",
			"Never go to shore to watch",
			"Follow official alerts",
		},
		Criteria: fixedCriteria(
			Criterion{Name: "response_time", Target: "< 1 minute"},
			Criterion{Name: "participation", Target: "100%"},
			Criterion{Name: "evacuation_route", Target: "All know route"},
		),
		Duration:         "15 minutes",
		DefaultFrequency: "Quarterly",
		notes:            "Immediate evacuation is critical for coastal %s",
	},
	HazardLandslide: {
		Objectives: []string{
			"Watch for warning signs",
			"Evacuate to open areas",
			"Avoid slope areas",
			"Listen for unusual sounds",
		},
		Criteria: fixedCriteria(
			Criterion{Name: "awareness", Target: "100% know signs"},
			Criterion{Name: "evacuation_time", Target: "< 2 minutes"},
			Criterion{Name: "safe_zone", Target: "All reach safe area"},
		),
		Duration:         "15 minutes",
		DefaultFrequency: "Before monsoon",
		notes:            "Monitor during heavy rains in %s",
	},
	HazardHeatwave: {
		Objectives: []string{
			"Stay hydrated",
			"Avoid outdoor activities",
			"Recognize heat stroke symptoms",
			"Keep rooms cool",
		},
		Criteria: fixedCriteria(
			Criterion{Name: "awareness", Target: "100% know prevention"},
			Criterion{Name: "hydration", Target: "All carry water"},
			Criterion{Name: "symptoms", Target: "All recognize signs"},
		),
		Duration:         "10 minutes",
		DefaultFrequency: "Before summer",
		notes:            "Critical during the summer months in %s",
	},
}

// TemplateFor returns the drill template for a hazard. Every value in
// Hazards has one.
func TemplateFor(h HazardType) (DrillTemplate, bool) {
	t, ok := drillTemplates[h]
	return t, ok
}

// RecommendedDrill is the drill a single catalog entry calls for.
type RecommendedDrill struct {
	Hazard          HazardType  `json:"hazard"`
	Level           RiskLevel   `json:"risk_level"`
	Priority        int         `json:"priority"`
	Objectives      []string    `json:"objectives"`
	SuccessCriteria []Criterion `json:"success_criteria"`
	Season          Season      `json:"season_months,omitempty"`
	Frequency       string      `json:"frequency"`
	Duration        string      `json:"duration"`
}

// DrillFor derives the recommended drill for a catalog entry. The entry's
// cadence wins over the template default when present. It reports false for
// hazards without a template.
func DrillFor(e HazardRiskEntry) (RecommendedDrill, bool) {
	t, ok := TemplateFor(e.Hazard)
	if !ok {
		return RecommendedDrill{}, false
	}
	freq := e.DrillFrequency
	if freq == "" {
		freq = t.DefaultFrequency
	}
	return RecommendedDrill{
		Hazard:          e.Hazard,
		Level:           e.Level,
		Priority:        e.Priority,
		Objectives:      slices.Clone(t.Objectives),
		SuccessCriteria: t.Criteria(e.Level),
		Season:          slices.Clone(e.Season),
		Frequency:       freq,
		Duration:        t.Duration,
	}, true
}
