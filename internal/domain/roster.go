package domain

import "strings"

// RosterEntry is one student on a class roster. Location is the student's
// home city (or district) as recorded by the roster provider.
type RosterEntry struct {
	StudentID string `json:"student_id"`
	Location  string `json:"city"`
}

// RosterAggregate is the per-location view of a roster snapshot.
type RosterAggregate struct {
	// LocationCounts maps each non-empty location name to its student count.
	LocationCounts map[string]int
	// DistinctLocations lists the keys of LocationCounts in order of first
	// appearance in the roster.
	DistinctLocations []string
}

// Aggregate counts students per location. Entries with a blank location are
// left out of the counts; they are not an error. Location names are trimmed
// but otherwise kept as the roster spells them, so "Pune" and "pune" are two
// roster locations that resolve to the same catalog rows.
func Aggregate(roster []RosterEntry) RosterAggregate {
	agg := RosterAggregate{
		LocationCounts:    make(map[string]int),
		DistinctLocations: []string{},
	}
	for _, e := range roster {
		loc := strings.TrimSpace(e.Location)
		if loc == "" {
			continue
		}
		if _, seen := agg.LocationCounts[loc]; !seen {
			agg.DistinctLocations = append(agg.DistinctLocations, loc)
		}
		agg.LocationCounts[loc]++
	}
	return agg
}
