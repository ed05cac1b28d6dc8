package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/feedback-widget/internal/client"
	"github.com/rpggio/feedback-widget/internal/domain/feedback"
	"github.com/rpggio/feedback-widget/internal/testserver"
	"github.com/stretchr/testify/require"
)

func TestFeedbackClient_CreateAndUpdate(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()
	c := client.NewFeedbackClient(ts.URL() + "/")

	id, err := c.Create(ctx, feedback.CreateRequest{RunID: "run1", Helpful: feedback.RatingHelpful.Ptr()})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	comment := "useful"
	require.NoError(t, c.Update(ctx, id, feedback.UpdateRequest{UserFeedback: &comment}))

	fb, err := ts.Feedback.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, feedback.RatingHelpful, *fb.Helpful)
	require.Equal(t, "useful", fb.UserFeedback)

	calls := ts.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, testserver.Call{Method: http.MethodPost, Path: "/public/v1/feedback"}, calls[0])
	require.Equal(t, testserver.Call{Method: http.MethodPatch, Path: "/public/v1/feedback/" + id}, calls[1])
}

func TestFeedbackClient_ErrorBodyMessage(t *testing.T) {
	ts := testserver.New(t)
	ts.FailNext(http.MethodPost, http.StatusTooManyRequests, "slow down")

	c := client.NewFeedbackClient(ts.URL())
	_, err := c.Create(context.Background(), feedback.CreateRequest{RunID: "run1"})
	require.Error(t, err)
	require.Equal(t, "slow down", err.Error())

	var herr *client.HTTPError
	require.True(t, errors.As(err, &herr))
	require.Equal(t, http.StatusTooManyRequests, herr.StatusCode)
}

func TestFeedbackClient_ErrorWithoutBody(t *testing.T) {
	ts := testserver.New(t)
	ts.FailNext(http.MethodPatch, http.StatusServiceUnavailable, "")

	c := client.NewFeedbackClient(ts.URL())
	err := c.Update(context.Background(), "abc", feedback.UpdateRequest{Helpful: feedback.RatingNotHelpful.Ptr()})
	require.EqualError(t, err, "HTTP 503: Service Unavailable")
}

func TestFeedbackClient_ServerValidationError(t *testing.T) {
	ts := testserver.New(t)

	c := client.NewFeedbackClient(ts.URL())
	err := c.Update(context.Background(), "missing", feedback.UpdateRequest{Helpful: feedback.RatingHelpful.Ptr()})
	var herr *client.HTTPError
	require.ErrorAs(t, err, &herr)
	require.Equal(t, http.StatusNotFound, herr.StatusCode)
	require.Equal(t, feedback.ErrFeedbackNotFound.Error(), err.Error())
}

func TestFeedbackClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	c := client.NewFeedbackClient(server.URL, client.WithTimeout(20*time.Millisecond))
	_, err := c.Create(context.Background(), feedback.CreateRequest{RunID: "run1"})
	require.Error(t, err)

	var herr *client.HTTPError
	require.False(t, errors.As(err, &herr))
}

func TestFeedbackClient_DefaultBaseURL(t *testing.T) {
	require.Equal(t, client.DefaultBaseURL, client.NewFeedbackClient("").BaseURL())
	require.Equal(t, "http://x", client.NewFeedbackClient(" http://x/ ").BaseURL())
}

func TestDemoClient(t *testing.T) {
	c := client.NewDemoClient()
	ctx := context.Background()

	a, err := c.Create(ctx, feedback.CreateRequest{RunID: "run1"})
	require.NoError(t, err)
	b, err := c.Create(ctx, feedback.CreateRequest{RunID: "run1"})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(a, client.DemoIDPrefix))
	require.NotEqual(t, a, b)
	require.NoError(t, c.Update(ctx, a, feedback.UpdateRequest{}))
}
