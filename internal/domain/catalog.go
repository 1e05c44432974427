package domain

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/hazard_catalog.yaml
var embeddedCatalog []byte

// ErrInvalidCatalog wraps every catalog load failure.
var ErrInvalidCatalog = errors.New("invalid hazard catalog")

// catalogVersion is the only document version this build understands.
const catalogVersion = 1

// HazardRiskEntry is one hazard's risk profile for one location.
type HazardRiskEntry struct {
	Location        string     `json:"location"`
	Hazard          HazardType `json:"hazard"`
	Level           RiskLevel  `json:"risk_level"`
	Priority        int        `json:"priority"`
	Zone            string     `json:"zone,omitempty"`
	Description     string     `json:"description"`
	Recommendations []string   `json:"recommendations"`
	Season          Season     `json:"season_months,omitempty"`
	DrillFrequency  string     `json:"drill_frequency,omitempty"`
}

// YearRound reports whether the hazard is active in every month.
func (e HazardRiskEntry) YearRound() bool {
	return len(e.Season) == 0
}

func (e HazardRiskEntry) clone() HazardRiskEntry {
	e.Recommendations = slices.Clone(e.Recommendations)
	e.Season = slices.Clone(e.Season)
	return e
}

// RiskIndex answers which hazards apply to a location. *Catalog is the
// production implementation.
type RiskIndex interface {
	RisksFor(location string) []HazardRiskEntry
}

// Catalog is the immutable location-to-hazard reference data. A Catalog is
// never modified after LoadCatalog returns, so it is safe for concurrent use.
type Catalog struct {
	version   int
	byKey     map[string][]HazardRiskEntry
	locations []string
	entries   int
}

// NormalizeLocation produces the join key between roster entries and the
// catalog: surrounding whitespace removed, case folded.
func NormalizeLocation(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RisksFor returns every hazard entry recorded for the location, sorted by
// ascending priority. Unknown and empty locations yield an empty slice.
func (c *Catalog) RisksFor(location string) []HazardRiskEntry {
	key := NormalizeLocation(location)
	if key == "" {
		return []HazardRiskEntry{}
	}
	stored := c.byKey[key]
	out := make([]HazardRiskEntry, len(stored))
	for i, e := range stored {
		out[i] = e.clone()
	}
	return out
}

// Locations returns every catalogued location name, sorted.
func (c *Catalog) Locations() []string {
	return slices.Clone(c.locations)
}

// Len returns the number of (location, hazard, level) entries.
func (c *Catalog) Len() int { return c.entries }

// Version returns the catalog document version.
func (c *Catalog) Version() int { return c.version }

// --- loading ---

type catalogDocument struct {
	Version int            `yaml:"version"`
	Tables  []catalogTable `yaml:"tables"`
}

type catalogTable struct {
	Hazard  string         `yaml:"hazard"`
	KeyedBy string         `yaml:"keyed_by"`
	Levels  []catalogLevel `yaml:"levels"`
}

type catalogLevel struct {
	Zone            string   `yaml:"zone"`
	RiskLevel       string   `yaml:"risk_level"`
	Priority        int      `yaml:"priority"`
	Description     string   `yaml:"description"`
	DrillFrequency  string   `yaml:"drill_frequency"`
	Season          []string `yaml:"season"`
	Recommendations []string `yaml:"recommendations"`
	Locations       []string `yaml:"locations"`
}

// LoadCatalog parses and validates a YAML catalog document. Every problem in
// the document is reported in the returned error, which wraps
// ErrInvalidCatalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc catalogDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidCatalog, err)
	}
	return buildCatalog(doc)
}

// LoadCatalogFile reads a catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// LoadEmbeddedCatalog parses the catalog bundled into the binary.
func LoadEmbeddedCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(embeddedCatalog))
}

func buildCatalog(doc catalogDocument) (*Catalog, error) {
	var errs []error
	if doc.Version != catalogVersion {
		errs = append(errs, fmt.Errorf("unsupported version %d", doc.Version))
	}
	if len(doc.Tables) == 0 {
		errs = append(errs, errors.New("no hazard tables"))
	}

	c := &Catalog{
		version: doc.Version,
		byKey:   make(map[string][]HazardRiskEntry),
	}
	names := make(map[string]string)
	seenHazards := make(map[HazardType]bool)

	for ti, table := range doc.Tables {
		hazard, err := ParseHazardType(table.Hazard)
		if err != nil {
			errs = append(errs, fmt.Errorf("table %d: %w", ti, err))
			continue
		}
		if seenHazards[hazard] {
			errs = append(errs, fmt.Errorf("%s: duplicate table", hazard))
			continue
		}
		seenHazards[hazard] = true

		if table.KeyedBy != "city" && table.KeyedBy != "district" {
			errs = append(errs, fmt.Errorf("%s: keyed_by must be city or district, got %q", hazard, table.KeyedBy))
		}

		for li, lvl := range table.Levels {
			entry, levelErrs := parseLevel(hazard, li, lvl)
			errs = append(errs, levelErrs...)
			if len(levelErrs) > 0 {
				continue
			}

			seenHere := make(map[string]bool, len(lvl.Locations))
			for _, loc := range lvl.Locations {
				name := strings.TrimSpace(loc)
				key := NormalizeLocation(name)
				if key == "" {
					errs = append(errs, fmt.Errorf("%s/%s: empty location", hazard, entry.Level))
					continue
				}
				if seenHere[key] {
					errs = append(errs, fmt.Errorf("%s/%s: duplicate location %q", hazard, entry.Level, name))
					continue
				}
				seenHere[key] = true

				if _, ok := names[key]; !ok {
					names[key] = name
				}
				e := entry.clone()
				e.Location = names[key]
				c.byKey[key] = append(c.byKey[key], e)
				c.entries++
			}
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}

	for key, entries := range c.byKey {
		slices.SortStableFunc(entries, compareEntries)
		c.byKey[key] = entries
		c.locations = append(c.locations, names[key])
	}
	slices.Sort(c.locations)
	return c, nil
}

func parseLevel(hazard HazardType, idx int, lvl catalogLevel) (HazardRiskEntry, []error) {
	var errs []error
	where := fmt.Sprintf("%s level %d", hazard, idx)

	level, err := ParseRiskLevel(lvl.RiskLevel)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", where, err))
	} else if lvl.Priority != level.Priority() {
		errs = append(errs, fmt.Errorf("%s: priority %d inconsistent with risk level %s (want %d)",
			where, lvl.Priority, level, level.Priority()))
	}
	if strings.TrimSpace(lvl.Description) == "" {
		errs = append(errs, fmt.Errorf("%s: missing description", where))
	}
	if len(lvl.Recommendations) == 0 {
		errs = append(errs, fmt.Errorf("%s: no recommendations", where))
	}

	season := make(Season, 0, len(lvl.Season))
	for _, s := range lvl.Season {
		m, err := ParseMonth(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
			continue
		}
		if slices.Contains(season, m) {
			errs = append(errs, fmt.Errorf("%s: duplicate season month %s", where, m))
			continue
		}
		season = append(season, m)
	}
	slices.Sort(season)
	if len(season) == 0 {
		season = nil
	}

	return HazardRiskEntry{
		Hazard:          hazard,
		Level:           level,
		Priority:        lvl.Priority,
		Zone:            lvl.Zone,
		Description:     strings.TrimSpace(lvl.Description),
		Recommendations: slices.Clone(lvl.Recommendations),
		Season:          season,
		DrillFrequency:  strings.TrimSpace(lvl.DrillFrequency),
	}, errs
}

// compareEntries orders by priority, then by hazard display order.
func compareEntries(a, b HazardRiskEntry) int {
	if a.Priority != b.Priority {
		return a.Priority - b.Priority
	}
	return hazardRank(a.Hazard) - hazardRank(b.Hazard)
}

func hazardRank(h HazardType) int {
	if i := slices.Index(Hazards, h); i >= 0 {
		return i
	}
	return len(Hazards)
}

// --- process-wide catalog ---

var (
	current      atomic.Pointer[Catalog]
	embeddedOnce sync.Once
)

// CurrentCatalog returns the installed catalog, falling back to the bundled
// one. The bundled catalog is validated by tests, so a failure here means a
// broken build and panics.
func CurrentCatalog() *Catalog {
	if c := current.Load(); c != nil {
		return c
	}
	embeddedOnce.Do(func() {
		c, err := LoadEmbeddedCatalog()
		if err != nil {
			panic(err)
		}
		current.CompareAndSwap(nil, c)
	})
	return current.Load()
}

// InstallCatalog replaces the process-wide catalog in one step. Readers
// holding the previous *Catalog keep a consistent view.
func InstallCatalog(c *Catalog) {
	if c == nil {
		return
	}
	current.Store(c)
}

// Season is the set of months a hazard is active in, kept sorted. An empty
// Season means year-round. It encodes as month abbreviations ("Jun").
type Season []time.Month

// Contains reports whether m is in the season.
func (s Season) Contains(m time.Month) bool {
	return slices.Contains(s, m)
}

// Abbrevs returns the season as schedule keys.
func (s Season) Abbrevs() []string {
	out := make([]string, len(s))
	for i, m := range s {
		out[i] = MonthAbbrev(m)
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (s Season) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Abbrevs())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Season) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	out := make(Season, 0, len(names))
	for _, n := range names {
		m, err := ParseMonth(n)
		if err != nil {
			return err
		}
		out = append(out, m)
	}
	*s = out
	return nil
}
