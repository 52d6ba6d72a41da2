package repository

import (
	"context"
	"fmt"
	"time"

	"pulse-survey/internal/domain"
	"pulse-survey/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxSubmissionRepository implements domain.SubmissionArchive using sqlx.
type sqlxSubmissionRepository struct {
	db  DBTX
	now func() time.Time
}

// NewSQLXSubmissionRepository creates the Oracle-backed submission ledger.
func NewSQLXSubmissionRepository(db *sqlx.DB) domain.SubmissionArchive {
	return &sqlxSubmissionRepository{db: db, now: time.Now}
}

func fromDomainSubmission(s *domain.Submission, createdAt time.Time) *models.Submission {
	return &models.Submission{
		ID:          s.ID,
		SessionID:   s.SessionID,
		Payload:     s.Payload,
		SubmittedAt: s.SubmittedAt,
		CreatedAt:   createdAt,
	}
}

// Record inserts one ledger row.
func (r *sqlxSubmissionRepository) Record(ctx context.Context, submission *domain.Submission) error {
	if submission == nil {
		return domain.NewInvalidInputError("cannot record nil submission")
	}
	row := fromDomainSubmission(submission, r.now())

	query := `INSERT INTO survey_submissions (ID, SESSION_ID, PAYLOAD, SUBMITTED_AT, CREATED_AT)
	          VALUES (:1, :2, :3, :4, :5)`
	_, err := r.db.ExecContext(ctx, query,
		row.ID,
		row.SessionID,
		row.Payload,
		row.SubmittedAt,
		row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record submission %s: %w", row.ID, err)
	}
	return nil
}

// Count returns the number of recorded submissions.
func (r *sqlxSubmissionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM survey_submissions`); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}
