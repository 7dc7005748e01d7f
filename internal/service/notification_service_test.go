package service

import (
	"context"
	"errors"
	"testing"

	"quorum/internal/featureflags"
	"quorum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_Dispatch_SelfSuppression(t *testing.T) {
	t.Parallel()

	created := 0
	repo := noopNotificationRepo()
	repo.createFn = func(_ context.Context, _ *models.Notification) error {
		created++
		return nil
	}
	svc := NewNotificationService(repo, nil, nil)

	svc.Dispatch(context.Background(), DispatchInput{
		RecipientID: 7,
		ActorID:     7,
		Kind:        models.NotificationUpvote,
		Message:     "you upvoted yourself",
		QuestionID:  1,
	})
	assert.Zero(t, created, "self-action must not produce a notification")
}

func TestNotificationService_Dispatch_WriteFailureSwallowed(t *testing.T) {
	t.Parallel()

	repo := noopNotificationRepo()
	repo.createFn = func(_ context.Context, _ *models.Notification) error {
		return errors.New("disk full")
	}
	svc := NewNotificationService(repo, nil, nil)

	// Dispatch has no error return; the only contract is that it does not panic
	// and does not disturb the caller.
	svc.Dispatch(context.Background(), DispatchInput{
		RecipientID: 1,
		ActorID:     2,
		Kind:        models.NotificationAnswer,
		Message:     "someone answered",
		QuestionID:  1,
	})
}

func TestNotificationService_Dispatch_Persists(t *testing.T) {
	t.Parallel()

	svc, written := recordingDispatcher()
	answerID := uint(4)
	svc.Dispatch(context.Background(), DispatchInput{
		RecipientID: 1,
		ActorID:     2,
		Kind:        models.NotificationAnswer,
		Message:     "bob answered your question",
		QuestionID:  3,
		AnswerID:    &answerID,
	})

	require.Len(t, *written, 1)
	n := (*written)[0]
	assert.Equal(t, uint(1), n.RecipientID)
	assert.Equal(t, uint(2), n.ActorID)
	assert.Equal(t, models.NotificationAnswer, n.Kind)
	assert.Equal(t, uint(3), n.QuestionID)
	require.NotNil(t, n.AnswerID)
	assert.Equal(t, uint(4), *n.AnswerID)
	assert.False(t, n.IsRead)
}

func TestNotificationService_Dispatch_FlagGatedPublishWithNilNotifier(t *testing.T) {
	t.Parallel()

	// live_events on, but no notifier wired: dispatch must still persist.
	svc := NewNotificationService(noopNotificationRepo(), nil, featureflags.NewManager("live_events=on"))
	svc.Dispatch(context.Background(), DispatchInput{
		RecipientID: 1,
		ActorID:     2,
		Kind:        models.NotificationUpvote,
		Message:     "msg",
		QuestionID:  1,
	})
}

func TestNotificationService_ReadOperationsRequireAuth(t *testing.T) {
	t.Parallel()

	svc := NewNotificationService(noopNotificationRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.ListNotifications(ctx, ListNotificationsInput{UserID: 0})
	assertUnauthorizedError(t, err)

	_, err = svc.UnreadCount(ctx, 0)
	assertUnauthorizedError(t, err)

	err = svc.MarkRead(ctx, 0, 1)
	assertUnauthorizedError(t, err)

	_, err = svc.MarkAllRead(ctx, 0)
	assertUnauthorizedError(t, err)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	t.Parallel()

	repo := noopNotificationRepo()
	repo.markAllReadFn = func(_ context.Context, recipientID uint) (int64, error) {
		require.Equal(t, uint(9), recipientID)
		return 5, nil
	}
	svc := NewNotificationService(repo, nil, nil)

	count, err := svc.MarkAllRead(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}
