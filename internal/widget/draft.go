package widget

import "github.com/rpggio/feedback-widget/internal/domain/feedback"

// Draft is a snapshot of the user's not-yet-final feedback.
type Draft struct {
	Rating     *feedback.Rating
	Comment    string
	Submitted  bool
	Submitting bool
	LastError  string
	FeedbackID string
}

// HasContent reports whether a submit would carry anything.
func (d Draft) HasContent() bool {
	return d.Rating != nil || trimmedComment(d.Comment) != ""
}

func (d Draft) clone() Draft {
	if d.Rating != nil {
		d.Rating = d.Rating.Ptr()
	}
	return d
}

// Phase is where the remote record is in its lifecycle.
type Phase int

const (
	// PhaseUnlinked means no remote record exists or is being created.
	PhaseUnlinked Phase = iota
	// PhaseCreating means exactly one create request is outstanding.
	PhaseCreating
	// PhaseLinked means the remote record id is known.
	PhaseLinked
)

func (p Phase) String() string {
	switch p {
	case PhaseUnlinked:
		return "unlinked"
	case PhaseCreating:
		return "creating"
	case PhaseLinked:
		return "linked"
	default:
		return "unknown"
	}
}

// RecordState is a snapshot of the remote record lifecycle.
type RecordState struct {
	Phase      Phase
	FeedbackID string
}
