// Package sqlite persists drills booked from recommendations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/drill-recommendation-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"
)

// ErrDrillNotFound is returned when no drill has the requested ID.
var ErrDrillNotFound = errors.New("drill not found")

// StatusScheduled is the state of a freshly booked drill.
const StatusScheduled = "scheduled"

const dateLayout = "2006-01-02"

// DrillRecord is a booked drill as stored.
type DrillRecord struct {
	ID                   string            `json:"id"`
	ClassID              string            `json:"class_id"`
	Hazard               domain.HazardType `json:"hazard"`
	Date                 string            `json:"date"`
	Time                 string            `json:"time"`
	DurationMinutes      int               `json:"duration_minutes"`
	Notes                string            `json:"notes"`
	ExpectedParticipants int               `json:"expected_participants"`
	Status               string            `json:"status"`
	CreatedAt            time.Time         `json:"created_at"`
}

// DrillStore implements domain.DrillScheduler on SQLite.
type DrillStore struct {
	db     *sql.DB
	clock  clockwork.Clock
	logger *slog.Logger
}

// Option configures a DrillStore.
type Option func(*DrillStore)

// WithClock sets the time source for created_at stamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *DrillStore) { s.clock = c }
}

// Open opens (creating if needed) the drill database at path. Use ":memory:"
// for an ephemeral store.
func Open(path string, logger *slog.Logger, opts ...Option) (*DrillStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open drill database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping drill database: %w", err)
	}

	s := &DrillStore{db: db, clock: clockwork.NewRealClock(), logger: logger}
	for _, o := range opts {
		o(s)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate drill database: %w", err)
	}
	return s, nil
}

func (s *DrillStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS drills (
			id TEXT PRIMARY KEY,
			class_id TEXT NOT NULL,
			hazard TEXT NOT NULL,
			drill_date TEXT NOT NULL,
			drill_time TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL,
			notes TEXT NOT NULL,
			expected_participants INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_drills_class_date ON drills(class_id, drill_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database.
func (s *DrillStore) Close() error {
	return s.db.Close()
}

// CheckReadiness pings the database.
func (s *DrillStore) CheckReadiness(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ScheduleDrill validates and stores the request, returning the new drill ID.
func (s *DrillStore) ScheduleDrill(ctx context.Context, req domain.ScheduleDrillRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO drills (id, class_id, hazard, drill_date, drill_time, duration_minutes,
			notes, expected_participants, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, req.ClassID, string(req.Hazard), req.Date.Format(dateLayout), req.Time,
		req.DurationMinutes, req.Notes, req.ExpectedParticipants, StatusScheduled,
		s.clock.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert drill: %w", err)
	}

	s.logger.Info("drill scheduled", "id", id, "class_id", req.ClassID, "hazard", req.Hazard,
		"date", req.Date.Format(dateLayout))
	return id, nil
}

// GetDrill loads one drill by ID.
func (s *DrillStore) GetDrill(ctx context.Context, id string) (DrillRecord, error) {
	row := s.db.QueryRowContext(ctx, selectDrills+` WHERE id = ?`, id)
	rec, err := scanDrill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return DrillRecord{}, ErrDrillNotFound
	}
	return rec, err
}

// ListDrills returns a class's drills ordered by date and time.
func (s *DrillStore) ListDrills(ctx context.Context, classID string) ([]DrillRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		selectDrills+` WHERE class_id = ? ORDER BY drill_date, drill_time, created_at`, classID)
	if err != nil {
		return nil, fmt.Errorf("list drills: %w", err)
	}
	defer rows.Close()

	out := []DrillRecord{}
	for rows.Next() {
		rec, err := scanDrill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

const selectDrills = `
	SELECT id, class_id, hazard, drill_date, drill_time, duration_minutes,
		notes, expected_participants, status, created_at
	FROM drills`

type scanner interface {
	Scan(dest ...any) error
}

func scanDrill(sc scanner) (DrillRecord, error) {
	var (
		rec    DrillRecord
		hazard string
	)
	err := sc.Scan(&rec.ID, &rec.ClassID, &hazard, &rec.Date, &rec.Time, &rec.DurationMinutes,
		&rec.Notes, &rec.ExpectedParticipants, &rec.Status, &rec.CreatedAt)
	if err != nil {
		return DrillRecord{}, err
	}
	rec.Hazard = domain.HazardType(hazard)
	return rec, nil
}
