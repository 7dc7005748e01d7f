package models

import "time"

// TargetType identifies what kind of entity a vote points at.
type TargetType string

// Vote target types.
const (
	TargetQuestion TargetType = "question"
	TargetAnswer   TargetType = "answer"
)

// Valid reports whether t is a known target type.
func (t TargetType) Valid() bool {
	return t == TargetQuestion || t == TargetAnswer
}

// Vote direction values. Stored as +1/-1 so score is SUM(value).
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote is the single stored record of one user's vote on one target.
// The combination of UserID, TargetType and TargetID must be unique, so a
// voter is always in exactly one of {upvoted, downvoted, absent} for a
// target. Both the target's vote counts and the user's vote history are
// derived from this table by query.
type Vote struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_voter_target" json:"user_id"`
	TargetType TargetType `gorm:"type:varchar(16);not null;uniqueIndex:idx_voter_target" json:"target_type"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_voter_target" json:"target_id"`
	Value      int        `gorm:"not null" json:"value"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// VoteState is one of the three states a (voter, target) pair can be in.
type VoteState int

// Vote ledger states.
const (
	StateNone      VoteState = 0
	StateUpvoted   VoteState = 1
	StateDownvoted VoteState = -1
)

func (s VoteState) String() string {
	switch s {
	case StateUpvoted:
		return "upvoted"
	case StateDownvoted:
		return "downvoted"
	default:
		return "none"
	}
}

// VoteTransition describes the state change produced by applying a vote.
type VoteTransition struct {
	Before VoteState `json:"before"`
	After  VoteState `json:"after"`
}

// NewUpvote reports whether the transition entered the upvoted state, which
// is the only edge that produces a notification.
func (t VoteTransition) NewUpvote() bool {
	return t.After == StateUpvoted && t.Before != StateUpvoted
}
