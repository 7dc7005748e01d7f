// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"quorum/internal/models"

	"gorm.io/gorm"
)

// VoteRepository owns the vote ledger: the single stored edge per
// (voter, target) pair that both the per-target counts and the per-user
// vote history are derived from.
type VoteRepository interface {
	// Apply runs one vote state transition for (userID, targetType, targetID):
	// same-direction votes toggle off, opposite-direction votes swap, new
	// votes insert. The whole transition executes in one transaction.
	Apply(ctx context.Context, userID uint, targetType models.TargetType, targetID uint, value int) (models.VoteTransition, error)
	// State returns the current ledger state for a (voter, target) pair.
	State(ctx context.Context, userID uint, targetType models.TargetType, targetID uint) (models.VoteState, error)
	// TargetIDs lists ids of targets of the given type the user has voted on
	// with the given value. This is the user's reverse index, computed.
	TargetIDs(ctx context.Context, userID uint, targetType models.TargetType, value int) ([]uint, error)
	// CountByUser counts the user's votes with the given value across all
	// target types.
	CountByUser(ctx context.Context, userID uint, value int) (int64, error)
	// VoterIDs lists ids of users who voted on the target with the given
	// value. This is the target's forward vote set, computed.
	VoterIDs(ctx context.Context, targetType models.TargetType, targetID uint, value int) ([]uint, error)
	// DeleteByTarget removes all votes pointing at a target. Called when the
	// target itself is deleted.
	DeleteByTarget(ctx context.Context, targetType models.TargetType, targetID uint) error
	// DeleteByUser removes all votes cast by a user. Called on account deletion.
	DeleteByUser(ctx context.Context, userID uint) error
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func stateOf(value int) models.VoteState {
	switch value {
	case models.VoteUp:
		return models.StateUpvoted
	case models.VoteDown:
		return models.StateDownvoted
	default:
		return models.StateNone
	}
}

func (r *voteRepository) Apply(ctx context.Context, userID uint, targetType models.TargetType, targetID uint, value int) (models.VoteTransition, error) {
	var transition models.VoteTransition

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		err := tx.Where("user_id = ? AND target_type = ? AND target_id = ?",
			userID, targetType, targetID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			transition.Before = models.StateNone
			transition.After = stateOf(value)
			return tx.Create(&models.Vote{
				UserID:     userID,
				TargetType: targetType,
				TargetID:   targetID,
				Value:      value,
			}).Error

		case err != nil:
			return err

		case existing.Value == value:
			// Toggle off: voting the same direction twice removes the vote.
			transition.Before = stateOf(value)
			transition.After = models.StateNone
			return tx.Delete(&existing).Error

		default:
			// Swap: leaving the opposing set and entering this one is a
			// single row update, so the voter is never in both.
			transition.Before = stateOf(existing.Value)
			transition.After = stateOf(value)
			return tx.Model(&existing).Update("value", value).Error
		}
	})
	if err != nil {
		return models.VoteTransition{}, err
	}

	return transition, nil
}

func (r *voteRepository) State(ctx context.Context, userID uint, targetType models.TargetType, targetID uint) (models.VoteState, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StateNone, nil
	}
	if err != nil {
		return models.StateNone, err
	}
	return stateOf(vote.Value), nil
}

func (r *voteRepository) TargetIDs(ctx context.Context, userID uint, targetType models.TargetType, value int) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("user_id = ? AND target_type = ? AND value = ?", userID, targetType, value).
		Order("target_id").
		Pluck("target_id", &ids).Error
	return ids, err
}

func (r *voteRepository) CountByUser(ctx context.Context, userID uint, value int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("user_id = ? AND value = ?", userID, value).
		Count(&count).Error
	return count, err
}

func (r *voteRepository) VoterIDs(ctx context.Context, targetType models.TargetType, targetID uint, value int) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ? AND value = ?", targetType, targetID, value).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *voteRepository) DeleteByTarget(ctx context.Context, targetType models.TargetType, targetID uint) error {
	return r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Delete(&models.Vote{}).Error
}

func (r *voteRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Vote{}).Error
}
