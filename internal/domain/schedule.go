package domain

import "time"

// Frequency labels used on the synthesized calendar.
const (
	FrequencyMonthly   = "Monthly"
	FrequencyQuarterly = "Quarterly"
	FrequencySeasonal  = "Seasonal"
)

// quarterStarts are the months a year-round high-risk drill lands in.
var quarterStarts = []time.Month{time.January, time.April, time.July, time.October}

// ScheduledDrill is one expected drill occurrence in a month.
type ScheduledDrill struct {
	Hazard    HazardType `json:"hazard"`
	Frequency string     `json:"frequency"`
}

// MonthPlan is the drills expected in one calendar month.
type MonthPlan struct {
	Month  string           `json:"month"`
	Drills []ScheduledDrill `json:"drills"`
}

// MonthlySchedule is a twelve-month drill calendar, January first.
type MonthlySchedule [12]MonthPlan

// Month returns the plan for m, or a zero MonthPlan when m is not a
// calendar month.
func (s *MonthlySchedule) Month(m time.Month) MonthPlan {
	if m < time.January || m > time.December {
		return MonthPlan{}
	}
	return s[m-1]
}

// Count returns how many months contain a drill for hazard h.
func (s *MonthlySchedule) Count(h HazardType) int {
	n := 0
	for _, p := range s {
		for _, d := range p.Drills {
			if d.Hazard == h {
				n++
				break
			}
		}
	}
	return n
}

func newMonthlySchedule() MonthlySchedule {
	var s MonthlySchedule
	for i := range s {
		s[i] = MonthPlan{Month: monthAbbrev[i], Drills: []ScheduledDrill{}}
	}
	return s
}

func (s *MonthlySchedule) add(m time.Month, h HazardType, freq string) {
	s[m-1].Drills = append(s[m-1].Drills, ScheduledDrill{Hazard: h, Frequency: freq})
}

// Synthesize lays merged drills onto a calendar, in input order:
//
//   - seasonal drills land in each of their season months as "Seasonal";
//   - year-round critical drills land in every month as "Monthly";
//   - year-round high drills land in Jan, Apr, Jul and Oct as "Quarterly";
//   - year-round moderate and low drills are not placed.
func Synthesize(merged []MergedDrillRecommendation) MonthlySchedule {
	s := newMonthlySchedule()
	for _, d := range merged {
		placeDrill(&s, d.Hazard, d.Level, d.Season)
	}
	return s
}

func placeDrill(s *MonthlySchedule, h HazardType, level RiskLevel, season Season) {
	switch {
	case len(season) > 0:
		for _, m := range season {
			s.add(m, h, FrequencySeasonal)
		}
	case level == RiskCritical:
		for m := time.January; m <= time.December; m++ {
			s.add(m, h, FrequencyMonthly)
		}
	case level == RiskHigh:
		for _, m := range quarterStarts {
			s.add(m, h, FrequencyQuarterly)
		}
	}
}
