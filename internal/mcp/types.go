package mcp

import "github.com/rpggio/feedback-widget/internal/widget"

type RateRunParams struct {
	RunID  string `json:"run_id" jsonschema:"Opaque identifier of the run being rated"`
	Rating string `json:"rating" jsonschema:"helpful or not_helpful"`
}

type CommentRunParams struct {
	RunID   string `json:"run_id" jsonschema:"Opaque identifier of the run"`
	Comment string `json:"comment" jsonschema:"Free-text comment; replaces any earlier draft comment"`
}

type SubmitFeedbackParams struct {
	RunID   string `json:"run_id" jsonschema:"Opaque identifier of the run"`
	Rating  string `json:"rating,omitempty" jsonschema:"Optional rating applied before submitting: helpful or not_helpful"`
	Comment string `json:"comment,omitempty" jsonschema:"Optional comment applied before submitting"`
}

type RunParams struct {
	RunID string `json:"run_id" jsonschema:"Opaque identifier of the run"`
}

// DraftResult mirrors a widget's draft and record state.
type DraftResult struct {
	RunID       string `json:"run_id"`
	Rating      string `json:"rating,omitempty"`
	Comment     string `json:"comment,omitempty"`
	Submitted   bool   `json:"submitted"`
	Submitting  bool   `json:"submitting"`
	LastError   string `json:"last_error,omitempty"`
	FeedbackID  string `json:"feedback_id,omitempty"`
	RecordState string `json:"record_state"`
}

type SubmitResult struct {
	RunID      string `json:"run_id"`
	FeedbackID string `json:"feedback_id"`
}

type ForgetResult struct {
	RunID     string `json:"run_id"`
	Forgotten bool   `json:"forgotten"`
}

func draftResult(runID string, inst *widget.Instance) DraftResult {
	coord := inst.Coordinator()
	d := coord.Draft()
	out := DraftResult{
		RunID:       runID,
		Comment:     d.Comment,
		Submitted:   d.Submitted,
		Submitting:  d.Submitting,
		LastError:   d.LastError,
		FeedbackID:  d.FeedbackID,
		RecordState: coord.State().Phase.String(),
	}
	if d.Rating != nil {
		out.Rating = string(*d.Rating)
	}
	return out
}
