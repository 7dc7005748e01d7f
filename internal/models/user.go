// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      string         `gorm:"not null;default:user" json:"role"`
	IsBanned  bool           `gorm:"not null;default:false" json:"is_banned"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// VoteIndex is the user-side view of vote history: which questions and
// answers this user has upvoted or downvoted. It is computed from the votes
// table, never stored, so it cannot drift from the per-target vote sets.
type VoteIndex struct {
	UpvotedQuestions   []uint `json:"upvoted_questions"`
	DownvotedQuestions []uint `json:"downvoted_questions"`
	UpvotedAnswers     []uint `json:"upvoted_answers"`
	DownvotedAnswers   []uint `json:"downvoted_answers"`
}

// UserStats summarizes a user's activity for the profile page.
type UserStats struct {
	QuestionsCount int64 `json:"questions_count"`
	AnswersCount   int64 `json:"answers_count"`
	UpvotedCount   int64 `json:"upvoted_count"`
	DownvotedCount int64 `json:"downvoted_count"`
}
