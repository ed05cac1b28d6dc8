package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/feedback-widget/internal/domain/feedback"
	"github.com/rpggio/feedback-widget/internal/repository"
)

var _ feedback.Repository = (*FeedbackRepository)(nil)

// FeedbackRepository implements feedback.Repository for SQLite
type FeedbackRepository struct {
	db *DB
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts a new feedback record
func (r *FeedbackRepository) Create(ctx context.Context, fb *feedback.Feedback) error {
	query := `
		INSERT INTO feedback (id, run_id, helpful, user_feedback, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		fb.ID,
		fb.RunID,
		nullableRating(fb.Helpful),
		fb.UserFeedback,
		fb.CreatedAt,
		fb.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

// Get retrieves a feedback record by ID
func (r *FeedbackRepository) Get(ctx context.Context, id string) (*feedback.Feedback, error) {
	query := `
		SELECT id, run_id, helpful, user_feedback, created_at, updated_at
		FROM feedback
		WHERE id = ?
	`

	fb, err := scanFeedback(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return fb, nil
}

// Update overwrites the mutable fields of a feedback record
func (r *FeedbackRepository) Update(ctx context.Context, fb *feedback.Feedback) error {
	query := `
		UPDATE feedback
		SET helpful = ?, user_feedback = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableRating(fb.Helpful),
		fb.UserFeedback,
		fb.UpdatedAt,
		fb.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByRun returns all feedback records for a run, oldest first
func (r *FeedbackRepository) ListByRun(ctx context.Context, runID string) ([]feedback.Feedback, error) {
	query := `
		SELECT id, run_id, helpful, user_feedback, created_at, updated_at
		FROM feedback
		WHERE run_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	list := []feedback.Feedback{}
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		list = append(list, *fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}
	return list, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeedback(row rowScanner) (*feedback.Feedback, error) {
	var fb feedback.Feedback
	var helpful sql.NullString
	if err := row.Scan(
		&fb.ID,
		&fb.RunID,
		&helpful,
		&fb.UserFeedback,
		&fb.CreatedAt,
		&fb.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if helpful.Valid {
		fb.Helpful = feedback.Rating(helpful.String).Ptr()
	}
	return &fb, nil
}

func nullableRating(r *feedback.Rating) sql.NullString {
	if r == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*r), Valid: true}
}
