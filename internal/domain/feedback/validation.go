package feedback

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateCreate validates a create request.
func ValidateCreate(req CreateRequest) error {
	if strings.TrimSpace(req.RunID) == "" {
		return fmt.Errorf("%w: runId is required", ErrInvalidInput)
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}
	return nil
}

// ValidateUpdate validates an update request.
func ValidateUpdate(req UpdateRequest) error {
	if req.Helpful == nil && req.UserFeedback == nil {
		return ErrEmptyUpdate
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}
	return nil
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
