package mcp

import (
	"context"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/feedback-widget/internal/domain/feedback"
	"github.com/rpggio/feedback-widget/internal/widget"
)

type tools struct {
	host   *Host
	logger *slog.Logger
}

func registerTools(server *sdkmcp.Server, host *Host, logger *slog.Logger) {
	t := &tools{host: host, logger: logger}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "rate_run",
		Description: "Rate a run as helpful or not_helpful. The first rating creates the feedback record; later ratings update it",
	}, t.rateRun)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "comment_run",
		Description: "Set the draft comment for a run. The comment is sent on submit",
	}, t.commentRun)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_feedback",
		Description: "Finalize feedback for a run, optionally applying a rating and comment first",
	}, t.submitFeedback)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_feedback_draft",
		Description: "Get the current draft and record state for a run",
	}, t.getDraft)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "forget_run",
		Description: "Drop the widget for a run so the next call starts a fresh draft",
	}, t.forgetRun)
}

func (t *tools) rateRun(_ context.Context, _ *sdkmcp.CallToolRequest, in RateRunParams) (*sdkmcp.CallToolResult, DraftResult, error) {
	inst, err := t.host.Instance(in.RunID)
	if err != nil {
		return nil, DraftResult{}, mapError(err)
	}
	if err := inst.Rate(feedback.Rating(strings.TrimSpace(in.Rating))); err != nil {
		return nil, DraftResult{}, mapError(err)
	}
	return nil, draftResult(in.RunID, inst), nil
}

func (t *tools) commentRun(_ context.Context, _ *sdkmcp.CallToolRequest, in CommentRunParams) (*sdkmcp.CallToolResult, DraftResult, error) {
	inst, err := t.host.Instance(in.RunID)
	if err != nil {
		return nil, DraftResult{}, mapError(err)
	}
	if err := inst.Comment(in.Comment); err != nil {
		return nil, DraftResult{}, mapError(err)
	}
	return nil, draftResult(in.RunID, inst), nil
}

func (t *tools) submitFeedback(ctx context.Context, _ *sdkmcp.CallToolRequest, in SubmitFeedbackParams) (*sdkmcp.CallToolResult, SubmitResult, error) {
	inst, err := t.host.Instance(in.RunID)
	if err != nil {
		return nil, SubmitResult{}, mapError(err)
	}
	if rating := strings.TrimSpace(in.Rating); rating != "" {
		if err := inst.Rate(feedback.Rating(rating)); err != nil {
			return nil, SubmitResult{}, mapError(err)
		}
	}
	if in.Comment != "" {
		if err := inst.Comment(in.Comment); err != nil {
			return nil, SubmitResult{}, mapError(err)
		}
	}

	id, err := inst.Submit(ctx)
	if err != nil {
		t.logger.Debug("submit_feedback failed", "run_id", in.RunID, "session_id", getSessionID(ctx), "error", err)
		return nil, SubmitResult{}, mapError(err)
	}
	return nil, SubmitResult{RunID: in.RunID, FeedbackID: id}, nil
}

func (t *tools) getDraft(_ context.Context, _ *sdkmcp.CallToolRequest, in RunParams) (*sdkmcp.CallToolResult, DraftResult, error) {
	if strings.TrimSpace(in.RunID) == "" {
		return nil, DraftResult{}, mapError(widget.ErrMissingRunID)
	}
	inst, ok := t.host.Lookup(in.RunID)
	if !ok {
		return nil, DraftResult{RunID: in.RunID, RecordState: widget.PhaseUnlinked.String()}, nil
	}
	return nil, draftResult(in.RunID, inst), nil
}

func (t *tools) forgetRun(_ context.Context, _ *sdkmcp.CallToolRequest, in RunParams) (*sdkmcp.CallToolResult, ForgetResult, error) {
	if strings.TrimSpace(in.RunID) == "" {
		return nil, ForgetResult{}, mapError(widget.ErrMissingRunID)
	}
	return nil, ForgetResult{RunID: in.RunID, Forgotten: t.host.Forget(strings.TrimSpace(in.RunID))}, nil
}
