// Package journal records every state transition of an order placement.
//
// Entries are append-only. The latest entry for a placement tells where it
// stopped, and the trace id links the row to the request that produced it.
package journal

import "time"

// Status is the lifecycle state of a placement run.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// Entry is a single row of the placement journal.
type Entry struct {
	// PlacementID is the order id the pipeline runs for.
	PlacementID string `json:"placementId"`

	Status Status `json:"status"`

	// Step is the name of the step that just finished or failed.
	Step string `json:"step,omitempty"`

	// Payload is the JSON order document, written on STARTED only.
	Payload string `json:"payload,omitempty"`

	// Errors is a JSON array of failure messages accumulated so far.
	Errors string `json:"errors"`

	TraceID string `json:"traceId,omitempty"`
	SpanID  string `json:"spanId,omitempty"`

	RecordedAt time.Time `json:"recordedAt"`
}
