package models

import "time"

// NotificationKind identifies what event produced a notification.
type NotificationKind string

// Notification kinds.
const (
	NotificationAnswer NotificationKind = "answer"
	NotificationUpvote NotificationKind = "upvote"
)

// Notification records one qualifying event for its recipient. Rows are
// created once per event, flipped to read by the recipient, never deleted.
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RecipientID uint             `gorm:"not null;index" json:"recipient_id"`
	ActorID     uint             `gorm:"not null" json:"actor_id"`
	Actor       User             `gorm:"foreignKey:ActorID" json:"actor"`
	Kind        NotificationKind `gorm:"type:varchar(16);not null" json:"kind"`
	Message     string           `gorm:"not null" json:"message"`
	QuestionID  uint             `gorm:"not null" json:"question_id"`
	AnswerID    *uint            `json:"answer_id,omitempty"`
	IsRead      bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}
