// Command catalogcheck validates a hazard catalog and reports its coverage.
// Without -catalog it checks the catalog bundled into the service binary.
//
// Usage:
//
//	go run ./cmd/catalogcheck -catalog config/hazard_catalog.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/drill-recommendation-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("catalog", "", "path to a hazard catalog YAML file (default: bundled catalog)")
	flag.Parse()

	os.Exit(run(os.Stdout, *path))
}

func run(out io.Writer, path string) int {
	fmt.Fprintln(out, "=== Hazard Catalog Check ===")

	var (
		catalog *domain.Catalog
		err     error
	)
	if path == "" {
		fmt.Fprintln(out, "source: bundled catalog")
		catalog, err = domain.LoadEmbeddedCatalog()
	} else {
		fmt.Fprintf(out, "source: %s\n", path)
		catalog, err = domain.LoadCatalogFile(path)
	}
	if err != nil {
		fmt.Fprintf(out, "\nFATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		checkEntries(catalog),
		checkDrills(catalog),
	}

	fmt.Fprintln(out)
	printCoverage(out, catalog)

	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-36s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nCatalog OK.")
		return 0
	}
	fmt.Fprintln(out, "\nCatalog check FAILED.")
	return 1
}

// checkEntries verifies each location's entries are consistent and ordered.
func checkEntries(c *domain.Catalog) *phase {
	p := &phase{name: "Entries (priority, ordering)"}
	for _, loc := range c.Locations() {
		risks := c.RisksFor(loc)
		if len(risks) == 0 {
			p.errorf("%s: listed but has no entries", loc)
			continue
		}
		seen := map[domain.HazardType]bool{}
		for i, e := range risks {
			if seen[e.Hazard] {
				p.errorf("%s: %s listed more than once", loc, e.Hazard)
			}
			seen[e.Hazard] = true
			if e.Priority != e.Level.Priority() {
				p.errorf("%s/%s: priority %d does not match level %s", loc, e.Hazard, e.Priority, e.Level)
			}
			if i > 0 && risks[i-1].Priority > e.Priority {
				p.errorf("%s: %s sorted after lower-priority %s", loc, e.Hazard, risks[i-1].Hazard)
			}
		}
	}
	return p
}

// checkDrills verifies every entry yields a drill with a cadence.
func checkDrills(c *domain.Catalog) *phase {
	p := &phase{name: "Drills (templates, cadence)"}
	for _, loc := range c.Locations() {
		for _, e := range c.RisksFor(loc) {
			d, ok := domain.DrillFor(e)
			if !ok {
				p.errorf("%s/%s: no drill template", loc, e.Hazard)
				continue
			}
			if d.Frequency == "" {
				p.errorf("%s/%s: no drill frequency", loc, e.Hazard)
			}
			if len(d.Objectives) == 0 {
				p.errorf("%s/%s: no objectives", loc, e.Hazard)
			}
		}
	}
	return p
}

func printCoverage(out io.Writer, c *domain.Catalog) {
	counts := map[domain.HazardType]map[domain.RiskLevel]int{}
	for _, loc := range c.Locations() {
		for _, e := range c.RisksFor(loc) {
			if counts[e.Hazard] == nil {
				counts[e.Hazard] = map[domain.RiskLevel]int{}
			}
			counts[e.Hazard][e.Level]++
		}
	}

	fmt.Fprintf(out, "version %d: %d locations, %d entries\n\n", c.Version(), len(c.Locations()), c.Len())
	fmt.Fprintf(out, "  %-12s", "hazard")
	for _, l := range domain.RiskLevels {
		fmt.Fprintf(out, " %9s", l)
	}
	fmt.Fprintln(out)
	for _, h := range domain.Hazards {
		fmt.Fprintf(out, "  %-12s", h)
		for _, l := range domain.RiskLevels {
			fmt.Fprintf(out, " %9d", counts[h][l])
		}
		fmt.Fprintln(out)
	}
}
