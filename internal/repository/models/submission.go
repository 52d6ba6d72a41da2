package models

import "time"

// Submission is a row of the SURVEY_SUBMISSIONS ledger.
type Submission struct {
	ID          string    `db:"ID"`         // ULID
	SessionID   string    `db:"SESSION_ID"` // respondent session
	Payload     string    `db:"PAYLOAD"`    // JSON row as sent, column order kept
	SubmittedAt time.Time `db:"SUBMITTED_AT"`
	CreatedAt   time.Time `db:"CREATED_AT"`
}
