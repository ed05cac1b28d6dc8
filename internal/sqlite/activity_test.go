package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/feedback-widget/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertFeedback(t, NewFeedbackRepository(db), "f1", "run1", nil, "x")

	repo := NewActivityRepository(db)
	entry1 := &activity.Entry{
		FeedbackID: "f1",
		RunID:      "run1",
		Type:       activity.TypeFeedbackCreated,
		Summary:    "created feedback f1",
		Details:    `{"runId":"run1"}`,
	}
	entry2 := &activity.Entry{
		FeedbackID: "f1",
		RunID:      "run1",
		Type:       activity.TypeFeedbackUpdated,
		Summary:    "updated feedback f1",
	}

	require.NoError(t, repo.Log(ctx, entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeFeedbackUpdated, entries[0].Type)
	require.Equal(t, activity.TypeFeedbackCreated, entries[1].Type)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	feedbackRepo := NewFeedbackRepository(db)
	insertFeedback(t, feedbackRepo, "f1", "run1", nil, "x")
	insertFeedback(t, feedbackRepo, "f2", "run2", nil, "y")

	repo := NewActivityRepository(db)
	require.NoError(t, repo.Log(ctx, &activity.Entry{FeedbackID: "f1", RunID: "run1", Type: activity.TypeFeedbackCreated, Summary: "a"}))
	require.NoError(t, repo.Log(ctx, &activity.Entry{FeedbackID: "f1", RunID: "run1", Type: activity.TypeFeedbackUpdated, Summary: "b"}))
	require.NoError(t, repo.Log(ctx, &activity.Entry{FeedbackID: "f2", RunID: "run2", Type: activity.TypeFeedbackCreated, Summary: "c"}))

	feedbackID := "f1"
	updated := activity.TypeFeedbackUpdated
	entries, err := repo.List(ctx, activity.ListOptions{FeedbackID: &feedbackID, Type: &updated})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "b", entries[0].Summary)

	runID := "run2"
	entries, err = repo.List(ctx, activity.ListOptions{RunID: &runID})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
