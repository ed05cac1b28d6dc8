package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/feedback-widget/internal/domain/feedback"
	"github.com/rpggio/feedback-widget/internal/testserver"
	"github.com/rpggio/feedback-widget/internal/widget"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, host *Host) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(Config{Host: host})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := c.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
		host.Close()
	})
	return cs
}

func callTool(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any, out any) *sdkmcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	if out != nil && !res.IsError {
		require.NotEmpty(t, res.Content)
		text, ok := res.Content[0].(*sdkmcp.TextContent)
		require.True(t, ok)
		require.NoError(t, json.Unmarshal([]byte(text.Text), out))
	}
	return res
}

func errorText(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestTools_RateCommentSubmit(t *testing.T) {
	ts := testserver.New(t)
	host := NewHost(ts.URL(), widget.Options{}, nil)
	cs := connect(t, host)

	var draft DraftResult
	callTool(t, cs, "rate_run", map[string]any{"run_id": "run-1", "rating": "helpful"}, &draft)
	require.Equal(t, "run-1", draft.RunID)
	require.Equal(t, "helpful", draft.Rating)

	callTool(t, cs, "comment_run", map[string]any{"run_id": "run-1", "comment": "nice answer"}, &draft)
	require.Equal(t, "nice answer", draft.Comment)

	var submitted SubmitResult
	callTool(t, cs, "submit_feedback", map[string]any{"run_id": "run-1"}, &submitted)
	require.NotEmpty(t, submitted.FeedbackID)

	callTool(t, cs, "get_feedback_draft", map[string]any{"run_id": "run-1"}, &draft)
	require.True(t, draft.Submitted)
	require.Equal(t, "linked", draft.RecordState)
	require.Equal(t, submitted.FeedbackID, draft.FeedbackID)

	stored, err := ts.Feedback.Get(context.Background(), submitted.FeedbackID)
	require.NoError(t, err)
	require.Equal(t, "run-1", stored.RunID)
	require.Equal(t, feedback.RatingHelpful, *stored.Helpful)
	require.Equal(t, "nice answer", stored.UserFeedback)
	require.Equal(t, 1, ts.Count(http.MethodPost))
}

func TestTools_SubmitWithInlineValues(t *testing.T) {
	ts := testserver.New(t)
	cs := connect(t, NewHost(ts.URL(), widget.Options{}, nil))

	var submitted SubmitResult
	res := callTool(t, cs, "submit_feedback", map[string]any{
		"run_id":  "run-2",
		"rating":  "not_helpful",
		"comment": "missed the point",
	}, &submitted)
	require.False(t, res.IsError)
	require.NotEmpty(t, submitted.FeedbackID)

	stored, err := ts.Feedback.Get(context.Background(), submitted.FeedbackID)
	require.NoError(t, err)
	require.Equal(t, feedback.RatingNotHelpful, *stored.Helpful)
	require.Equal(t, "missed the point", stored.UserFeedback)
}

func TestTools_Errors(t *testing.T) {
	ts := testserver.New(t)
	cs := connect(t, NewHost(ts.URL(), widget.Options{}, nil))

	res := callTool(t, cs, "submit_feedback", map[string]any{"run_id": "run-3"}, nil)
	require.Contains(t, errorText(t, res), "EMPTY_FEEDBACK")

	res = callTool(t, cs, "rate_run", map[string]any{"run_id": "run-3", "rating": "meh"}, nil)
	require.Contains(t, errorText(t, res), "INVALID_RATING")

	res = callTool(t, cs, "rate_run", map[string]any{"run_id": " ", "rating": "helpful"}, nil)
	require.Contains(t, errorText(t, res), "MISSING_RUN_ID")

	callTool(t, cs, "submit_feedback", map[string]any{"run_id": "run-3", "rating": "helpful"}, &SubmitResult{})
	res = callTool(t, cs, "comment_run", map[string]any{"run_id": "run-3", "comment": "late"}, nil)
	require.Contains(t, errorText(t, res), "ALREADY_SUBMITTED")
	require.Equal(t, 1, ts.Count(http.MethodPost))
}

func TestTools_RemoteFailureKeepsDraft(t *testing.T) {
	ts := testserver.New(t)
	cs := connect(t, NewHost(ts.URL(), widget.Options{}, nil))

	ts.FailNext(http.MethodPost, http.StatusServiceUnavailable, "maintenance")
	res := callTool(t, cs, "submit_feedback", map[string]any{"run_id": "run-4", "comment": "retry me"}, nil)
	text := errorText(t, res)
	require.Contains(t, text, "REMOTE_ERROR")
	require.Contains(t, text, "maintenance")

	var draft DraftResult
	callTool(t, cs, "get_feedback_draft", map[string]any{"run_id": "run-4"}, &draft)
	require.False(t, draft.Submitted)
	require.Equal(t, "retry me", draft.Comment)
	require.Equal(t, "maintenance", draft.LastError)
	require.Equal(t, "unlinked", draft.RecordState)

	var submitted SubmitResult
	callTool(t, cs, "submit_feedback", map[string]any{"run_id": "run-4"}, &submitted)
	require.NotEmpty(t, submitted.FeedbackID)
	require.Equal(t, 2, ts.Count(http.MethodPost))
}

func TestTools_UnknownRunDraftAndForget(t *testing.T) {
	host := NewHost("", widget.Options{}, nil)
	cs := connect(t, host)

	var draft DraftResult
	callTool(t, cs, "get_feedback_draft", map[string]any{"run_id": "nobody"}, &draft)
	require.Equal(t, "unlinked", draft.RecordState)
	require.Zero(t, host.Len())

	callTool(t, cs, "comment_run", map[string]any{"run_id": "run-5", "comment": "draft"}, &draft)
	require.Equal(t, 1, host.Len())

	var forgot ForgetResult
	callTool(t, cs, "forget_run", map[string]any{"run_id": "run-5"}, &forgot)
	require.True(t, forgot.Forgotten)
	require.Zero(t, host.Len())

	var after DraftResult
	callTool(t, cs, "get_feedback_draft", map[string]any{"run_id": "run-5"}, &after)
	require.Equal(t, "run-5", after.RunID)
	require.Empty(t, after.Comment)
	require.Equal(t, "unlinked", after.RecordState)
}

func TestDocResources(t *testing.T) {
	cs := connect(t, NewHost("", widget.Options{}, nil))

	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "feedback://docs/tools"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "submit_feedback")
}
