package service

import (
	"context"

	"quorum/internal/models"
	"quorum/internal/repository"
)

// UserService implements business logic for user profiles and administration.
type UserService struct {
	userRepo     repository.UserRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	voteRepo     repository.VoteRepository
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	voteRepo repository.VoteRepository,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		voteRepo:     voteRepo,
	}
}

// GetUser returns a user's public profile.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetStats aggregates a user's activity counters. The vote counts come from
// the ledger, so they always match the per-target sets.
func (s *UserService) GetStats(ctx context.Context, userID uint) (*models.UserStats, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	stats := &models.UserStats{}
	var err error
	if stats.QuestionsCount, err = s.questionRepo.CountByAuthor(ctx, userID); err != nil {
		return nil, models.NewInternalError(err)
	}
	if stats.AnswersCount, err = s.answerRepo.CountByAuthor(ctx, userID); err != nil {
		return nil, models.NewInternalError(err)
	}
	if stats.UpvotedCount, err = s.voteRepo.CountByUser(ctx, userID, models.VoteUp); err != nil {
		return nil, models.NewInternalError(err)
	}
	if stats.DownvotedCount, err = s.voteRepo.CountByUser(ctx, userID, models.VoteDown); err != nil {
		return nil, models.NewInternalError(err)
	}
	return stats, nil
}

// ListUsers returns a page of accounts, newest first. Admin only.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// SetBanned flips a user's banned flag. Admins cannot ban themselves.
func (s *UserService) SetBanned(ctx context.Context, adminID, userID uint, banned bool) (*models.User, error) {
	if adminID == userID {
		return nil, models.NewValidationError("You cannot ban your own account")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.IsBanned = banned
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// DeleteUser removes an account and every vote it cast. The user's questions
// and answers stay; their vote counts drop because the ledger rows are gone.
func (s *UserService) DeleteUser(ctx context.Context, adminID, userID uint) error {
	if adminID == userID {
		return models.NewValidationError("You cannot delete your own account")
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.voteRepo.DeleteByUser(ctx, userID); err != nil {
		return models.NewInternalError(err)
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
