package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidRosterEvent marks source messages that can never be processed.
// The pipeline skips them rather than retrying.
var ErrInvalidRosterEvent = errors.New("invalid roster event")

// Output header names.
const (
	HeaderClassID      = "class_id"
	HeaderMergedDrills = "merged_drills"
	HeaderGeneratedAt  = "generated_at"
)

// ParseRosterEvent decodes a roster snapshot. When the payload omits the
// class ID, the message key is used instead. Students without a location are
// kept; aggregation skips them.
func ParseRosterEvent(raw RawEvent) (RosterEvent, error) {
	var ev RosterEvent
	if err := json.Unmarshal(raw.Value, &ev); err != nil {
		return RosterEvent{}, fmt.Errorf("%w: %w", ErrInvalidRosterEvent, err)
	}

	ev.ClassID = strings.TrimSpace(ev.ClassID)
	if ev.ClassID == "" {
		ev.ClassID = strings.TrimSpace(string(raw.Key))
	}
	if ev.ClassID == "" {
		return RosterEvent{}, fmt.Errorf("%w: missing class_id", ErrInvalidRosterEvent)
	}
	if ev.Students == nil {
		ev.Students = []RosterEntry{}
	}
	if ev.AsOf.IsZero() {
		ev.AsOf = raw.Timestamp
	}
	return ev, nil
}

// RecommendForEvent runs the engine over a roster snapshot.
func RecommendForEvent(index RiskIndex, ev RosterEvent) Recommendation {
	rec := Recommend(index, ev.Students)
	rec.ClassID = ev.ClassID
	return rec
}

// SerializeRecommendation encodes a recommendation for the sink topic, keyed
// by class so snapshots of one class stay ordered on one partition.
func SerializeRecommendation(rec Recommendation) (OutputEvent, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize recommendation: %w", err)
	}
	return OutputEvent{
		Key:   []byte(rec.ClassID),
		Value: data,
		Headers: map[string]string{
			HeaderClassID:      rec.ClassID,
			HeaderMergedDrills: strconv.Itoa(len(rec.MergedDrills)),
			HeaderGeneratedAt:  rec.GeneratedAt.Format(time.RFC3339),
		},
	}, nil
}
