// Package checkoutlog defines the audit trail for checkout attempts.
//
// Every state transition of a checkout flow is appended as an immutable
// entry, so a support query can show exactly where an attempt is (or died)
// and correlate it with the distributed trace via the trace_id field.
package checkoutlog

import "time"

// Status is the lifecycle state of a checkout flow execution.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// Entry is a single row in the checkout_logs table: a point-in-time snapshot
// of one flow execution.
type Entry struct {
	// CheckoutID identifies the flow execution; it is the checkout session
	// id, so the log can be joined with business data.
	CheckoutID string

	// Status is the lifecycle state at the time of this entry.
	Status Status

	// CurrentStep names the step that just executed or failed.
	CurrentStep string

	// Payload is the JSON-serialised order submission, stored once on the
	// STARTED entry.
	Payload string

	// ErrorMessages is a JSON array of failure details, one per failed step
	// or compensation.
	ErrorMessages string

	// TraceID / SpanID come from the OpenTelemetry span active when the
	// entry was written; empty when no span is active.
	TraceID string
	SpanID  string

	// UpdatedAt is the wall-clock time of this entry.
	UpdatedAt time.Time
}
