package feedback

import (
	"context"

	"github.com/rpggio/feedback-widget/internal/domain/activity"
)

// Repository provides persistence for feedback records.
type Repository interface {
	Create(ctx context.Context, fb *Feedback) error
	Get(ctx context.Context, id string) (*Feedback, error)
	Update(ctx context.Context, fb *Feedback) error
	ListByRun(ctx context.Context, runID string) ([]Feedback, error)
}

// ActivityRepository logs feedback activity.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
