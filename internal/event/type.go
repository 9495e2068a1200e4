package event

import "time"

const SubmissionQueue string = "submission_events"

type EventType string

const (
	SubmissionCreated       EventType = "submission.created"
	DocumentsSubmitted      EventType = "documents.submitted"
	SubmissionStatusChanged EventType = "submission.status_changed"
	PaymentRecorded         EventType = "payment.recorded"
	SerialPoolLowStock      EventType = "serial_pool.low_stock"
)

// SubmissionEvent is the single envelope published for every domain event.
// Only the fields relevant to Type are set.
type SubmissionEvent struct {
	Type         EventType      `json:"type"`
	SubmissionID string         `json:"submission_id,omitempty"`
	SerialNumber string         `json:"serial_number,omitempty"`
	Status       string         `json:"status,omitempty"`
	Pool         string         `json:"pool,omitempty"`
	Remaining    *int           `json:"remaining,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	OccurredAt   time.Time      `json:"occurred_at"`
}
