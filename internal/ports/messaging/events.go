package messaging

import "time"

// ReportRequestedEvent is the JSON payload sent via SQS for the report queue.
type ReportRequestedEvent struct {
	JobID       string    `json:"jobId"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	RequestedAt time.Time `json:"requestedAt"`
}

// ReportEmailEvent is the JSON payload sent via SQS for the email queue.
type ReportEmailEvent struct {
	JobID      string    `json:"jobId"`
	Recipient  string    `json:"recipient"`
	OccurredAt time.Time `json:"occurredAt"`
}
