// Command genmock turns the class roster fixture into the recommendation
// fixture consumers of the sink topic test against. It runs the same domain
// code as the pipeline, with a fixed clock so the output is reproducible.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -in data/mock/class_rosters.json \
//	  -out data/mock/class_recommendations.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/couchcryptid/drill-recommendation-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

var generatedAt = time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "path to the class roster JSON fixture")
	out := flag.String("out", "", "output path for the recommendation JSON fixture")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -in, -out")
	}

	domain.SetClock(clockwork.NewFakeClockAt(generatedAt))
	defer domain.SetClock(nil)

	data, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("reading rosters: %w", err)
	}
	var rosters []json.RawMessage
	if err := json.Unmarshal(data, &rosters); err != nil {
		return fmt.Errorf("decoding rosters: %w", err)
	}

	recs := make([]domain.Recommendation, 0, len(rosters))
	for i, r := range rosters {
		ev, err := domain.ParseRosterEvent(domain.RawEvent{Value: r, Timestamp: generatedAt})
		if err != nil {
			return fmt.Errorf("roster %d: %w", i, err)
		}
		recs = append(recs, domain.RecommendForEvent(domain.CurrentCatalog(), ev))
	}
	log.Printf("rosters: %d", len(recs))

	if err := writeJSON(*out, recs); err != nil {
		return fmt.Errorf("writing recommendation fixture: %w", err)
	}
	log.Printf("wrote recommendation fixture: %s", *out)

	printStats(recs)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(recs []domain.Recommendation) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	for _, r := range recs {
		hazards := make([]string, 0, len(r.MergedDrills))
		for _, m := range r.MergedDrills {
			hazards = append(hazards, fmt.Sprintf("%s/%s", m.Hazard, m.Level))
		}
		slices.Sort(hazards)
		fmt.Printf("%-4s students=%d locations=%d high_risk=%d merged=%d %v\n",
			r.ClassID,
			r.RiskSummary.TotalStudents,
			r.RiskSummary.DistinctLocations,
			r.RiskSummary.HighRiskStudentCount,
			len(r.MergedDrills),
			hazards,
		)
	}
}
