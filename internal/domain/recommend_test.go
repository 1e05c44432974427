package domain

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })
}

func TestRecommend_GuwahatiChennai(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	freezeClock(t, now)

	rec := Recommend(CurrentCatalog(), roster("Guwahati", "Guwahati", "Chennai"))

	assert.Equal(t, now, rec.GeneratedAt)
	assert.Equal(t, []string{"Guwahati", "Chennai"}, rec.DistinctLocations)
	assert.Equal(t, 3, rec.RiskSummary.TotalStudents)
	assert.Equal(t, 2, rec.RiskSummary.DistinctLocations)
	assert.Equal(t, 3, rec.RiskSummary.HighRiskStudentCount)

	keys := make(map[DrillKey]bool)
	for _, m := range rec.MergedDrills {
		keys[m.Key()] = true
	}
	assert.True(t, keys[DrillKey{HazardEarthquake, RiskCritical}])
	assert.True(t, keys[DrillKey{HazardCyclone, RiskCritical}])
	assert.True(t, keys[DrillKey{HazardTsunami, RiskCritical}])

	require.Contains(t, rec.LocationProfiles, "Guwahati")
	require.Contains(t, rec.LocationProfiles, "Chennai")
	assert.Equal(t, HazardFlood, rec.LocationProfiles["Chennai"][0].Hazard)

	assert.Equal(t, 12, rec.Schedule.Count(HazardEarthquake))
}

func TestRecommend_StubbedScenario(t *testing.T) {
	rec := Recommend(scenarioIndex, roster("Guwahati", "Guwahati", "Chennai"))

	assert.Len(t, rec.MergedDrills, 3)
	assert.Equal(t, 3, rec.RiskSummary.HighRiskStudentCount)
}

func TestRecommend_NowhereCity(t *testing.T) {
	rec := Recommend(CurrentCatalog(), roster("Nowhere City"))

	assert.NotNil(t, rec.MergedDrills)
	assert.Empty(t, rec.MergedDrills)
	assert.Empty(t, rec.LocationProfiles)
	assert.Equal(t, 1, rec.RiskSummary.TotalStudents)
	assert.Zero(t, rec.RiskSummary.HighRiskStudentCount)
	for m := time.January; m <= time.December; m++ {
		assert.Empty(t, rec.Schedule.Month(m).Drills)
	}
}

func TestRecommend_EmptyRoster(t *testing.T) {
	rec := Recommend(CurrentCatalog(), nil)

	assert.Empty(t, rec.MergedDrills)
	assert.Empty(t, rec.DistinctLocations)
	assert.Zero(t, rec.RiskSummary.TotalStudents)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"merged_drills":[]`)
	assert.Contains(t, string(data), `"distinct_locations":[]`)
}

func TestRecommend_ConcurrentCallers(t *testing.T) {
	freezeClock(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	students := roster("Delhi", "Mumbai", "Chennai", "Kochi", "Kullu", "Delhi")

	want, err := json.Marshal(Recommend(CurrentCatalog(), students))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = json.Marshal(Recommend(CurrentCatalog(), students))
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, string(want), string(got))
	}
}

func TestStatsFor(t *testing.T) {
	st := StatsFor(CurrentCatalog(), "Chennai")

	assert.Equal(t, "Chennai", st.Location)
	assert.Equal(t, 5, st.TotalRecommendedDrills)
	assert.Equal(t, map[RiskLevel]int{RiskCritical: 4, RiskHigh: 0, RiskModerate: 1, RiskLow: 0}, st.ByRiskLevel)
	assert.Equal(t, map[HazardType]int{
		HazardEarthquake: 1, HazardFlood: 1, HazardCyclone: 1, HazardTsunami: 1, HazardHeatwave: 1,
	}, st.ByHazard)

	// Tsunami is year-round critical, so every month has at least that drill.
	assert.Equal(t, 12, st.Schedule.Count(HazardTsunami))
	assert.Contains(t, st.Schedule.Month(time.May).Drills, ScheduledDrill{HazardHeatwave, FrequencySeasonal})
	assert.Equal(t, 0, st.Schedule.Count(HazardEarthquake), "moderate year-round drills are not placed")
}

func TestStatsFor_Unknown(t *testing.T) {
	st := StatsFor(CurrentCatalog(), "Atlantis")

	assert.Zero(t, st.TotalRecommendedDrills)
	assert.Len(t, st.ByRiskLevel, 4)
	assert.Empty(t, st.ByHazard)
	assert.NotNil(t, st.Drills)
}

func TestLearningModulesFor(t *testing.T) {
	modules := LearningModulesFor(CurrentCatalog(), "Guwahati")

	require.Len(t, modules, 2)
	assert.Equal(t, LearningModule{
		ID:          "earthquake",
		Title:       "Earthquake Safety (critical risk)",
		Description: "Learn how to stay safe during earthquakes",
		Duration:    "45 min",
		Points:      150,
		Level:       RiskCritical,
		Priority:    1,
	}, modules[0])
	assert.Equal(t, "flood", modules[1].ID)
	assert.Equal(t, "Flood Preparedness (critical risk)", modules[1].Title)
}

func TestLearningModulesFor_NoRisks(t *testing.T) {
	modules := LearningModulesFor(CurrentCatalog(), "Nowhere City")
	assert.Equal(t, []LearningModule{BasicModule}, modules)
}

func TestLearningModulesFor_SortedByPriority(t *testing.T) {
	modules := LearningModulesFor(CurrentCatalog(), "Mumbai")
	require.NotEmpty(t, modules)
	for i := 1; i < len(modules); i++ {
		assert.LessOrEqual(t, modules[i-1].Priority, modules[i].Priority)
	}
}
