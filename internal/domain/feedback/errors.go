package feedback

import "errors"

var (
	// ErrFeedbackNotFound indicates the feedback record doesn't exist.
	ErrFeedbackNotFound = errors.New("feedback not found")
	// ErrInvalidInput indicates invalid create or update input.
	ErrInvalidInput = errors.New("invalid feedback input")
	// ErrEmptyUpdate indicates an update that carries no fields.
	ErrEmptyUpdate = errors.New("update must set helpful or userFeedback")
)
