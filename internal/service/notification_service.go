// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"

	"quorum/internal/featureflags"
	"quorum/internal/middleware"
	"quorum/internal/models"
	"quorum/internal/notifications"
	"quorum/internal/repository"
)

// NotificationService persists notifications and serves the recipient-facing
// read operations. Delivery is best-effort: Dispatch never fails the caller.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	notifier         *notifications.Notifier
	flags            *featureflags.Manager
}

// DispatchInput describes one qualifying event to notify a recipient about.
type DispatchInput struct {
	RecipientID uint
	ActorID     uint
	Kind        models.NotificationKind
	Message     string
	QuestionID  uint
	AnswerID    *uint
}

// ListNotificationsInput holds parameters for listing a user's notifications.
type ListNotificationsInput struct {
	UserID uint
	Limit  int
	Offset int
}

// NewNotificationService creates a new NotificationService. notifier and
// flags may be nil (no eventing, all flags off).
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	notifier *notifications.Notifier,
	flags *featureflags.Manager,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		notifier:         notifier,
		flags:            flags,
	}
}

// Dispatch writes a notification for a qualifying event. Self-actions are
// suppressed before any record is constructed. Failures are logged and
// counted, never returned: a lost notification must not fail the vote or
// answer that triggered it.
func (s *NotificationService) Dispatch(ctx context.Context, in DispatchInput) {
	if in.RecipientID == in.ActorID {
		return
	}

	notification := &models.Notification{
		RecipientID: in.RecipientID,
		ActorID:     in.ActorID,
		Kind:        in.Kind,
		Message:     in.Message,
		QuestionID:  in.QuestionID,
		AnswerID:    in.AnswerID,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		middleware.NotificationsDropped.Inc()
		middleware.Logger.ErrorContext(ctx, "failed to write notification",
			"recipient_id", in.RecipientID,
			"kind", string(in.Kind),
			"error", err.Error(),
		)
		return
	}
	middleware.NotificationsEmitted.WithLabelValues(string(in.Kind)).Inc()

	if s.notifier != nil && s.flags.Enabled("live_events", in.RecipientID) {
		if err := s.notifier.PublishNotification(ctx, notification); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to publish notification event",
				"recipient_id", in.RecipientID,
				"error", err.Error(),
			)
		}
	}
}

// ListNotifications returns a page of the user's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, in ListNotificationsInput) ([]*models.Notification, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	return s.notificationRepo.ListByRecipient(ctx, in.UserID, in.Limit, in.Offset)
}

// UnreadCount returns how many unread notifications the user has.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, models.NewUnauthorizedError("Authentication required")
	}
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	if userID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	return s.notificationRepo.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead marks all of the user's notifications as read and returns how
// many were flipped.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, models.NewUnauthorizedError("Authentication required")
	}
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
