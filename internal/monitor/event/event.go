package event

import (
	"time"

	"github.com/oneagent-ai/oneagent/internal/monitor/taxonomy"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Metadata carries the optional fields of a tracked operation. Producers fill
// in what they have; everything else degrades gracefully.
type Metadata struct {
	// Operation duration in milliseconds. Negative, NaN or infinite values
	// are treated as absent.
	DurationMs *float64
	// Raw error message; classified into the taxonomy when Status is error.
	Error string
	// Free-form producer extensions, carried through to the recent-event
	// buffer untouched.
	Extra map[string]interface{}
}

// OperationEvent is an immutable record of a single tracked operation.
type OperationEvent struct {
	Component  string
	Operation  string
	Status     Status
	Time       time.Time
	DurationMs *float64
	RawError   string
	// Code is set only for error events.
	Code  taxonomy.Code
	Extra map[string]interface{}
}

// Counters accumulates outcomes for one (component, operation) pair. Values
// are monotonically increasing for the process lifetime.
type Counters struct {
	Total   uint64
	Success uint64
	Error   uint64
}
