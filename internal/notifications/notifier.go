// Package notifications publishes notification events to Redis channels so
// external consumers (pollers, future push layers) can react to them.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"

	"quorum/internal/models"

	"github.com/redis/go-redis/v9"
)

// Notifier provides helpers to publish notification events into Redis channels.
// Every publish is best-effort: a nil client is a no-op and callers are
// expected to discard errors.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Event is the wire payload published for one persisted notification.
type Event struct {
	ID          uint                    `json:"id"`
	RecipientID uint                    `json:"recipient_id"`
	Kind        models.NotificationKind `json:"kind"`
	Message     string                  `json:"message"`
	QuestionID  uint                    `json:"question_id"`
	AnswerID    *uint                   `json:"answer_id,omitempty"`
}

// PublishNotification sends a persisted notification to its recipient's channel.
func (n *Notifier) PublishNotification(ctx context.Context, notification *models.Notification) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(Event{
		ID:          notification.ID,
		RecipientID: notification.RecipientID,
		Kind:        notification.Kind,
		Message:     notification.Message,
		QuestionID:  notification.QuestionID,
		AnswerID:    notification.AnswerID,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return n.rdb.Publish(ctx, UserChannel(notification.RecipientID), payload).Err()
}

// StartPatternSubscriber subscribes to `notifications:user:*` and calls
// onMessage for each incoming message. onMessage receives channel and payload.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
