package models

import (
	"time"

	"gorm.io/gorm"
)

// Question represents a question asked on the platform.
type Question struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	AuthorID    uint           `gorm:"not null;index" json:"author_id"`
	Author      User           `gorm:"foreignKey:AuthorID" json:"author"`
	Tags        []QuestionTag  `gorm:"foreignKey:QuestionID" json:"-"`
	Answers     []Answer       `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
	// TagNames is the flattened tag list; populated from Tags after load.
	TagNames []string `gorm:"-" json:"tags"`
	// Upvotes and Downvotes are not persisted; computed at query time from votes.
	Upvotes   int64 `gorm:"->" json:"upvotes"`
	Downvotes int64 `gorm:"->" json:"downvotes"`
	// AnswersCount is not persisted; computed at query time.
	AnswersCount int64 `gorm:"->" json:"answers_count"`
	// ViewerVote is the requesting user's vote on this question (computed):
	// 1 upvoted, -1 downvoted, 0 none.
	ViewerVote int            `gorm:"->" json:"viewer_vote"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuestionTag is one tag attached to one question. A tag "exists" iff at
// least one row references its name; there is no standalone tag entity.
type QuestionTag struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;uniqueIndex:idx_question_tag" json:"question_id"`
	Name       string `gorm:"not null;uniqueIndex:idx_question_tag;index" json:"name"`
}

// TagCount is one row of the aggregated tag listing.
type TagCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
