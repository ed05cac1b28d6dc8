package mocks

import (
	"context"

	"github.com/rpggio/feedback-widget/internal/domain/activity"
	"github.com/rpggio/feedback-widget/internal/domain/feedback"
	"github.com/stretchr/testify/mock"
)

// FeedbackRepository is a mock for feedback.Repository.
type FeedbackRepository struct {
	mock.Mock
}

func (m *FeedbackRepository) Create(ctx context.Context, fb *feedback.Feedback) error {
	args := m.Called(ctx, fb)
	return args.Error(0)
}

func (m *FeedbackRepository) Get(ctx context.Context, id string) (*feedback.Feedback, error) {
	args := m.Called(ctx, id)
	if fb, ok := args.Get(0).(*feedback.Feedback); ok {
		return fb, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FeedbackRepository) Update(ctx context.Context, fb *feedback.Feedback) error {
	args := m.Called(ctx, fb)
	return args.Error(0)
}

func (m *FeedbackRepository) ListByRun(ctx context.Context, runID string) ([]feedback.Feedback, error) {
	args := m.Called(ctx, runID)
	if list, ok := args.Get(0).([]feedback.Feedback); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
