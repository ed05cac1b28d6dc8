package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/feedback-widget/internal/client"
	"github.com/rpggio/feedback-widget/internal/widget"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps widget and client errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var httpErr *client.HTTPError
	switch {
	case errors.Is(err, widget.ErrMissingRunID):
		return &APIError{Code: "MISSING_RUN_ID", Message: "run_id is required"}
	case errors.Is(err, widget.ErrInvalidRating):
		return &APIError{Code: "INVALID_RATING", Message: "rating must be helpful or not_helpful"}
	case errors.Is(err, widget.ErrEmptyFeedback):
		return &APIError{Code: "EMPTY_FEEDBACK", Message: widget.EmptyFeedbackMessage, RecoveryHint: "Call rate_run or pass a comment"}
	case errors.Is(err, widget.ErrAlreadySubmitted):
		return &APIError{Code: "ALREADY_SUBMITTED", Message: "feedback for this run was already submitted", RecoveryHint: "Call forget_run to start over"}
	case errors.Is(err, widget.ErrSubmitInProgress):
		return &APIError{Code: "SUBMIT_IN_PROGRESS", Message: "a submit for this run is still running", RecoveryHint: "Retry after it completes"}
	case errors.Is(err, widget.ErrInvalidConfig):
		return &APIError{Code: "INVALID_CONFIG", Message: err.Error()}
	case errors.As(err, &httpErr):
		return &APIError{
			Code:         "REMOTE_ERROR",
			Message:      httpErr.Error(),
			Details:      map[string]int{"status": httpErr.StatusCode},
			RecoveryHint: "The draft is kept; submit again to retry",
		}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
