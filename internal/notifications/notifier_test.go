package notifications

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"quorum/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NilClientIsNoop(t *testing.T) {
	t.Parallel()
	n := NewNotifier(nil)
	err := n.PublishNotification(context.Background(), &models.Notification{RecipientID: 1})
	assert.NoError(t, err)
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), nil))
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "notifications:user:1", UserChannel(1))
	assert.Equal(t, "notifications:user:100", UserChannel(100))
}

func TestNotifier_PublishAndSubscribe(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var received int32
	payloads := make(chan string, 1)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, payload string) {
		atomic.AddInt32(&received, 1)
		payloads <- payload
	}))

	// PSubscribe setup races with the publish; give the subscriber a moment.
	time.Sleep(50 * time.Millisecond)

	answerID := uint(4)
	notification := &models.Notification{
		ID:          11,
		RecipientID: 9,
		Kind:        models.NotificationUpvote,
		Message:     "alice upvoted your answer",
		QuestionID:  3,
		AnswerID:    &answerID,
	}
	require.NoError(t, n.PublishNotification(context.Background(), notification))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&received) >= 1
	}, time.Second, 10*time.Millisecond)

	var event Event
	require.NoError(t, json.Unmarshal([]byte(<-payloads), &event))
	assert.Equal(t, uint(11), event.ID)
	assert.Equal(t, uint(9), event.RecipientID)
	assert.Equal(t, models.NotificationUpvote, event.Kind)
	require.NotNil(t, event.AnswerID)
	assert.Equal(t, uint(4), *event.AnswerID)
}
