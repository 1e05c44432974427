// Package domain turns a class roster into a natural-hazard drill plan.
//
// # Reference Data
//
// The hazard catalog is bundled as data/hazard_catalog.yaml and loaded once
// per process (see [LoadCatalog], [CurrentCatalog]). It holds one table per
// hazard. Each table lists risk levels, and each level lists the locations
// it covers:
//
//	Earthquake  seismic zones 5 (critical) to 2 (low), by city
//	Flood       critical, high, moderate, by city
//	Cyclone     critical (east coast), high (west coast), moderate, by city
//	Landslide   critical, high, by district
//	Tsunami     critical, high, moderate, by city; always year-round
//	Heatwave    critical, high, by city
//
// Priority is fixed by risk level: critical=1, high=2, moderate=3, low=4.
// A catalog whose priorities disagree with their levels fails to load.
//
// Landslide rows name districts. Rosters normally record cities, and the
// catalog join is a single exact match, so a city roster only matches a
// landslide row where a district shares the city's name.
//
// # Location Matching
//
// Roster locations and catalog locations meet on [NormalizeLocation]: the
// name trimmed and lower-cased. There is no fuzzy matching. A location the
// catalog does not know has no hazards, which is a normal outcome.
//
// # Engine
//
// [Recommend] runs the stages below over one roster snapshot:
//
//	Aggregate   students per location, first-appearance order
//	Merge       one drill per (hazard, risk level) across all locations
//	Summarize   total, distinct locations, high-risk students, exposure
//	Synthesize  twelve-month calendar from the merged drills
//
// Merged drills are sorted by priority, then hazard name. Synthesis rules:
//
//	seasonal                 each season month, "Seasonal"
//	year-round + critical    every month, "Monthly"
//	year-round + high        Jan, Apr, Jul, Oct, "Quarterly"
//	year-round + otherwise   not placed
//
// Every stage is a pure function of its inputs and the immutable catalog, so
// any number of callers may run it concurrently.
//
// # Wire Format
//
// Roster snapshots arrive as JSON:
//
//	{"class_id": "7B", "students": [{"student_id": "s1", "city": "Guwahati"}]}
//
// Recommendations leave keyed by class ID, with class_id, merged_drills and
// generated_at headers. See [ParseRosterEvent] and [SerializeRecommendation].
package domain
