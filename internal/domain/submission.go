package domain

import (
	"context"
	"encoding/json"
	"time"
)

// SubmissionState is the position of a session in the submit flow.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateValidating SubmissionState = "validating"
	StateSubmitting SubmissionState = "submitting"
	StateComplete   SubmissionState = "complete"
)

// SubmitStatus is the outcome reported for one submit attempt.
type SubmitStatus string

const (
	SubmitInvalid   SubmitStatus = "invalid"
	SubmitSubmitted SubmitStatus = "submitted"
	SubmitFailed    SubmitStatus = "failed"
	SubmitIgnored   SubmitStatus = "ignored"
)

// Payload is anything the transport can serialize as one sheet row.
type Payload interface {
	json.Marshaler
	Len() int
}

// Transport dispatches a finished payload to the spreadsheet endpoint.
// A nil error means the request left without a local fault; it does not mean
// the row was received.
type Transport interface {
	Send(ctx context.Context, payload Payload) error
}

// Submission is a ledger record of one dispatched payload.
type Submission struct {
	ID          string
	SessionID   string
	Payload     string
	SubmittedAt time.Time
}

// SubmissionArchive keeps a local ledger of dispatched payloads.
type SubmissionArchive interface {
	Record(ctx context.Context, submission *Submission) error
	Count(ctx context.Context) (int64, error)
}
