package widget

import "errors"

var (
	// ErrInvalidRating indicates a rating outside helpful/not_helpful.
	ErrInvalidRating = errors.New("invalid rating")
	// ErrAlreadySubmitted indicates the draft was already finalized.
	ErrAlreadySubmitted = errors.New("feedback already submitted")
	// ErrEmptyFeedback indicates a finalize with neither rating nor comment.
	ErrEmptyFeedback = errors.New("empty feedback")
	// ErrSubmitInProgress indicates another finalize is still running.
	ErrSubmitInProgress = errors.New("submit already in progress")
	// ErrMissingRunID indicates a configuration without a run id.
	ErrMissingRunID = errors.New("run id is required")
	// ErrInvalidConfig indicates a configuration with out-of-range values.
	ErrInvalidConfig = errors.New("invalid widget config")
	// ErrSurfaceNotFound indicates a mount target that doesn't exist.
	ErrSurfaceNotFound = errors.New("mount surface not found")
	// ErrNoClient indicates a coordinator without a feedback client.
	ErrNoClient = errors.New("no feedback client configured")
)

// EmptyFeedbackMessage is shown when a submit carries nothing.
const EmptyFeedbackMessage = "Please select a rating or provide feedback"
