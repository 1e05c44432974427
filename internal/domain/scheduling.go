package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidScheduleRequest is returned for drill requests that cannot be
// booked as given.
var ErrInvalidScheduleRequest = errors.New("invalid schedule request")

// DefaultDrillMinutes is used when a request does not state a duration.
const DefaultDrillMinutes = 15

// ScheduleDrillRequest asks the drill-scheduling collaborator to book one
// drill for a class.
type ScheduleDrillRequest struct {
	ClassID              string     `json:"class_id"`
	Hazard               HazardType `json:"hazard"`
	Date                 time.Time  `json:"date"`
	Time                 string     `json:"time"`
	DurationMinutes      int        `json:"duration_minutes"`
	Notes                string     `json:"notes"`
	ExpectedParticipants int        `json:"expected_participants"`
}

// DrillScheduler books drills and returns the new drill record ID. The
// engine only seeds requests; persistence and notification belong to the
// implementation.
type DrillScheduler interface {
	ScheduleDrill(ctx context.Context, req ScheduleDrillRequest) (string, error)
}

// DefaultDrillNotes is the note attached to a drill booked from a
// recommendation when the caller supplies none.
func DefaultDrillNotes(h HazardType) string {
	return fmt.Sprintf("%s drill for class based on city risk assessment", h)
}

// NewScheduleRequest seeds a booking from a merged recommendation. The
// caller fills in the date and time.
func NewScheduleRequest(classID string, rec MergedDrillRecommendation) ScheduleDrillRequest {
	return ScheduleDrillRequest{
		ClassID:              classID,
		Hazard:               rec.Hazard,
		DurationMinutes:      durationMinutes(rec.Duration),
		Notes:                DefaultDrillNotes(rec.Hazard),
		ExpectedParticipants: rec.StudentCount,
	}
}

// durationMinutes reads the upper bound of a template duration such as
// "15-20 minutes".
func durationMinutes(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "minutes")
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "-"); i >= 0 {
		s = s[i+1:]
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n <= 0 {
		return DefaultDrillMinutes
	}
	return n
}

// Validate normalizes the request and reports every problem with it. A blank
// Notes field is filled with DefaultDrillNotes.
func (r *ScheduleDrillRequest) Validate() error {
	var errs []error

	h, err := ParseHazardType(string(r.Hazard))
	if err != nil {
		errs = append(errs, err)
	} else {
		r.Hazard = h
	}
	if r.Date.IsZero() {
		errs = append(errs, errors.New("date is required"))
	}
	if _, err := time.Parse("15:04", r.Time); err != nil {
		errs = append(errs, fmt.Errorf("time %q must be HH:MM", r.Time))
	}
	if r.DurationMinutes <= 0 {
		errs = append(errs, fmt.Errorf("duration_minutes must be positive, got %d", r.DurationMinutes))
	}
	if r.ExpectedParticipants < 0 {
		errs = append(errs, fmt.Errorf("expected_participants must not be negative, got %d", r.ExpectedParticipants))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScheduleRequest, errors.Join(errs...))
	}
	if strings.TrimSpace(r.Notes) == "" {
		r.Notes = DefaultDrillNotes(r.Hazard)
	}
	return nil
}
