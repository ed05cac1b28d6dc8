package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/feedback-widget/internal/domain/activity"
	"github.com/rpggio/feedback-widget/internal/repository"
)

// CreatedMessage is returned alongside the id of a new record.
const CreatedMessage = "Feedback submitted successfully"

// Service handles feedback record operations.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new feedback service. activities may be nil.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
}

// Create validates and stores a new feedback record.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Feedback, error) {
	if err := ValidateCreate(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	fb := &Feedback{
		ID:           uuid.NewString(),
		RunID:        strings.TrimSpace(req.RunID),
		Helpful:      req.Helpful,
		UserFeedback: req.UserFeedback,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, fb); err != nil {
		return nil, fmt.Errorf("creating feedback: %w", err)
	}

	s.logActivity(ctx, fb, activity.TypeFeedbackCreated, fmt.Sprintf("created feedback %s", fb.ID), req)
	s.logger.Info("feedback created", "feedback_id", fb.ID, "run_id", fb.RunID)
	return fb, nil
}

// Update applies the non-nil fields of req to an existing record.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Feedback, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	if err := ValidateUpdate(req); err != nil {
		return nil, err
	}

	fb, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Helpful != nil {
		fb.Helpful = req.Helpful
	}
	if req.UserFeedback != nil {
		fb.UserFeedback = *req.UserFeedback
	}
	fb.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, fb); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("updating feedback: %w", err)
	}

	s.logActivity(ctx, fb, activity.TypeFeedbackUpdated, fmt.Sprintf("updated feedback %s", fb.ID), req)
	s.logger.Info("feedback updated", "feedback_id", fb.ID, "run_id", fb.RunID)
	return fb, nil
}

// Get fetches a feedback record by ID.
func (s *Service) Get(ctx context.Context, id string) (*Feedback, error) {
	fb, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("getting feedback: %w", err)
	}
	return fb, nil
}

// ListByRun returns every record attached to runID, oldest first.
func (s *Service) ListByRun(ctx context.Context, runID string) ([]Feedback, error) {
	if strings.TrimSpace(runID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByRun(ctx, runID)
}

func (s *Service) logActivity(ctx context.Context, fb *Feedback, typ activity.Type, summary string, details any) {
	if s.activities == nil {
		return
	}
	raw, err := json.Marshal(details)
	if err != nil {
		s.logger.Warn("activity details not encodable", "feedback_id", fb.ID, "error", err)
		raw = nil
	}
	if err := s.activities.Log(ctx, &activity.Entry{
		FeedbackID: fb.ID,
		RunID:      fb.RunID,
		Type:       typ,
		Summary:    summary,
		Details:    string(raw),
		CreatedAt:  fb.UpdatedAt,
	}); err != nil {
		s.logger.Warn("activity log failed", "feedback_id", fb.ID, "error", err)
	}
}
