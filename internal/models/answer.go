package models

import (
	"time"

	"gorm.io/gorm"
)

// Answer represents an answer posted to a question.
type Answer struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	Content    string   `gorm:"type:text;not null" json:"content"`
	QuestionID uint     `gorm:"not null;index" json:"question_id"`
	Question   Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	AuthorID   uint     `gorm:"not null;index" json:"author_id"`
	Author     User     `gorm:"foreignKey:AuthorID" json:"author"`
	// Upvotes and Downvotes are not persisted; computed at query time from votes.
	Upvotes   int64 `gorm:"->" json:"upvotes"`
	Downvotes int64 `gorm:"->" json:"downvotes"`
	// ViewerVote is the requesting user's vote on this answer (computed).
	ViewerVote int            `gorm:"->" json:"viewer_vote"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
