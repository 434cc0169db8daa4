package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"brasa_ops_backend/internal/models"
)

// SubmissionRepository persists shift submissions (waste/prep data entry) with
// their gate-satisfaction snapshot. One submission per store, date and shift.
type SubmissionRepository interface {
	CreateSubmission(executor SQLExecutor, submission *models.ShiftSubmission) (*models.ShiftSubmission, error)
	GetSubmissionsByDate(storeID int64, date time.Time) ([]models.ShiftSubmission, error)
	// GetSubmissionsBetween returns submissions with date in [from, to).
	GetSubmissionsBetween(storeID int64, from, to time.Time) ([]models.ShiftSubmission, error)
}

type submissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new instance of SubmissionRepository.
func NewSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) CreateSubmission(executor SQLExecutor, submission *models.ShiftSubmission) (*models.ShiftSubmission, error) {
	itemsJSON, err := json.Marshal(submission.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission items: %w", err)
	}

	query := `
		INSERT INTO shift_submissions (store_id, submission_date, shift, satisfied_by, items, input_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`
	err = executor.QueryRow(query,
		submission.StoreID, submission.Date, string(submission.Shift),
		submission.SatisfiedBy, itemsJSON, submission.InputBy,
	).Scan(&submission.ID, &submission.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("%w: inserting shift submission: %v", ErrDatabaseError, err)
	}
	submission.RawItems = itemsJSON
	return submission, nil
}

func (r *submissionRepository) GetSubmissionsByDate(storeID int64, date time.Time) ([]models.ShiftSubmission, error) {
	return r.querySubmissions(
		`SELECT id, store_id, submission_date, shift, satisfied_by, items, input_by, created_at
		 FROM shift_submissions
		 WHERE store_id = $1 AND submission_date = $2
		 ORDER BY created_at ASC`,
		storeID, date)
}

func (r *submissionRepository) GetSubmissionsBetween(storeID int64, from, to time.Time) ([]models.ShiftSubmission, error) {
	return r.querySubmissions(
		`SELECT id, store_id, submission_date, shift, satisfied_by, items, input_by, created_at
		 FROM shift_submissions
		 WHERE store_id = $1 AND submission_date >= $2 AND submission_date < $3
		 ORDER BY submission_date ASC, created_at ASC`,
		storeID, from, to)
}

func (r *submissionRepository) querySubmissions(query string, args ...interface{}) ([]models.ShiftSubmission, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying shift submissions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var submissions []models.ShiftSubmission
	for rows.Next() {
		var s models.ShiftSubmission
		var shift string
		if err := rows.Scan(&s.ID, &s.StoreID, &s.Date, &shift, &s.SatisfiedBy, &s.RawItems, &s.InputBy, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning shift submission: %v", ErrDatabaseError, err)
		}
		s.Shift = models.Shift(shift)
		if len(s.RawItems) > 0 {
			if err := json.Unmarshal(s.RawItems, &s.Items); err != nil {
				return nil, fmt.Errorf("%w: decoding submission items for id %d: %v", ErrDatabaseError, s.ID, err)
			}
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shift submissions: %v", ErrDatabaseError, err)
	}
	return submissions, nil
}
