package activity

import "time"

// Type represents the kind of feedback event
type Type string

const (
	TypeFeedbackCreated Type = "feedback_created"
	TypeFeedbackUpdated Type = "feedback_updated"
)

// Entry represents an event in the feedback activity log
type Entry struct {
	ID         int64     `json:"id"`
	FeedbackID string    `json:"feedbackId"`
	RunID      string    `json:"runId"`
	Type       Type      `json:"type"`
	Summary    string    `json:"summary"`
	Details    string    `json:"details,omitempty"` // JSON string
	CreatedAt  time.Time `json:"createdAt"`
}

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	FeedbackID *string
	RunID      *string
	Type       *Type
	Limit      int
	Offset     int
}
