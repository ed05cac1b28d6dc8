package feedback

import "time"

// Rating records whether the rated run was useful
type Rating string

const (
	RatingHelpful    Rating = "helpful"
	RatingNotHelpful Rating = "not_helpful"
)

// Valid reports whether r is one of the known ratings.
func (r Rating) Valid() bool {
	return r == RatingHelpful || r == RatingNotHelpful
}

// Ptr returns a pointer to a copy of r.
func (r Rating) Ptr() *Rating {
	return &r
}

// Feedback is the persisted feedback record for one run
type Feedback struct {
	ID           string    `json:"id"`
	RunID        string    `json:"runId"`
	Helpful      *Rating   `json:"helpful,omitempty"`
	UserFeedback string    `json:"userFeedback,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateRequest is the body of POST /public/v1/feedback.
type CreateRequest struct {
	RunID        string  `json:"runId" validate:"required,max=256"`
	Helpful      *Rating `json:"helpful,omitempty" validate:"omitempty,oneof=helpful not_helpful"`
	UserFeedback string  `json:"userFeedback,omitempty" validate:"max=10000"`
}

// UpdateRequest is the body of PATCH /public/v1/feedback/{id}.
// Nil fields are left untouched.
type UpdateRequest struct {
	Helpful      *Rating `json:"helpful,omitempty" validate:"omitempty,oneof=helpful not_helpful"`
	UserFeedback *string `json:"userFeedback,omitempty" validate:"omitempty,max=10000"`
}

// CreateResponse is returned by a successful create.
type CreateResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error,omitempty"`
}
