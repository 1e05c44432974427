package domain

import (
	"fmt"
	"strings"
	"time"
)

// HazardType names a natural-disaster category a class can drill for.
type HazardType string

const (
	HazardEarthquake HazardType = "Earthquake"
	HazardFlood      HazardType = "Flood"
	HazardCyclone    HazardType = "Cyclone"
	HazardTsunami    HazardType = "Tsunami"
	HazardLandslide  HazardType = "Landslide"
	HazardHeatwave   HazardType = "Heatwave"
)

// Hazards lists every recognized hazard in display order.
var Hazards = []HazardType{
	HazardEarthquake,
	HazardFlood,
	HazardCyclone,
	HazardTsunami,
	HazardLandslide,
	HazardHeatwave,
}

// ParseHazardType matches a hazard name case-insensitively.
func ParseHazardType(s string) (HazardType, error) {
	s = strings.TrimSpace(s)
	for _, h := range Hazards {
		if strings.EqualFold(string(h), s) {
			return h, nil
		}
	}
	return "", fmt.Errorf("unknown hazard type %q", s)
}

// RiskLevel is the ordered severity of a hazard at a location.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskLevels lists levels from most to least severe.
var RiskLevels = []RiskLevel{RiskCritical, RiskHigh, RiskModerate, RiskLow}

// ParseRiskLevel validates a catalog risk level string.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch l := RiskLevel(strings.ToLower(strings.TrimSpace(s))); l {
	case RiskLow, RiskModerate, RiskHigh, RiskCritical:
		return l, nil
	default:
		return "", fmt.Errorf("unknown risk level %q", s)
	}
}

// Priority returns the urgency rank for the level: 1 for critical through 4
// for low. Unknown levels rank after low.
func (l RiskLevel) Priority() int {
	switch l {
	case RiskCritical:
		return 1
	case RiskHigh:
		return 2
	case RiskModerate:
		return 3
	case RiskLow:
		return 4
	default:
		return 5
	}
}

// AtLeastHigh reports whether the level counts a student as high risk.
func (l RiskLevel) AtLeastHigh() bool {
	return l == RiskHigh || l == RiskCritical
}

// monthAbbrev holds the fixed schedule keys, Jan through Dec.
var monthAbbrev = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthAbbrev returns the three-letter schedule key for m.
func MonthAbbrev(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthAbbrev[m-1]
}

// ParseMonth accepts full English month names ("June") or the three-letter
// abbreviation ("Jun"), in any case.
func ParseMonth(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(s, m.String()) || strings.EqualFold(s, monthAbbrev[m-1]) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", s)
}
