package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// RosterEvent is a class roster snapshot as published by the roster
// provider. Each event replaces any earlier snapshot for the class.
type RosterEvent struct {
	ClassID  string        `json:"class_id"`
	Students []RosterEntry `json:"students"`
	// AsOf is when the provider took the snapshot; zero when not supplied.
	AsOf time.Time `json:"as_of,omitzero"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
