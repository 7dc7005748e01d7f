package service

import (
	"context"
	"fmt"
	"strings"

	"quorum/internal/cache"
	"quorum/internal/models"
	"quorum/internal/repository"
)

// AnswerService implements business logic for answers.
type AnswerService struct {
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
	voteRepo     repository.VoteRepository
	userRepo     repository.UserRepository
	dispatcher   *NotificationService
}

// CreateAnswerInput holds parameters for posting an answer.
type CreateAnswerInput struct {
	AuthorID   uint
	QuestionID uint
	Content    string
}

// UpdateAnswerInput holds parameters for editing an answer.
type UpdateAnswerInput struct {
	AnswerID uint
	UserID   uint
	Content  string
}

// NewAnswerService creates a new AnswerService.
func NewAnswerService(
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	voteRepo repository.VoteRepository,
	userRepo repository.UserRepository,
	dispatcher *NotificationService,
) *AnswerService {
	return &AnswerService{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		voteRepo:     voteRepo,
		userRepo:     userRepo,
		dispatcher:   dispatcher,
	}
}

// CreateAnswer posts an answer to a question and notifies the question's
// author. Self-answers are persisted but produce no notification.
func (s *AnswerService) CreateAnswer(ctx context.Context, in CreateAnswerInput) (*models.Answer, error) {
	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Answer content is required")
	}

	question, err := s.questionRepo.GetByID(ctx, in.QuestionID, 0)
	if err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	answer := &models.Answer{
		Content:    content,
		QuestionID: in.QuestionID,
		AuthorID:   in.AuthorID,
	}
	if err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateQuestion(ctx, in.QuestionID)

	answerID := answer.ID
	s.dispatcher.Dispatch(ctx, DispatchInput{
		RecipientID: question.AuthorID,
		ActorID:     in.AuthorID,
		Kind:        models.NotificationAnswer,
		Message:     fmt.Sprintf("%s answered your question: %q", author.Username, question.Title),
		QuestionID:  question.ID,
		AnswerID:    &answerID,
	})

	return s.answerRepo.GetByID(ctx, answer.ID, in.AuthorID)
}

// GetAnswer returns one answer with vote tallies for the viewer.
func (s *AnswerService) GetAnswer(ctx context.Context, answerID, viewerID uint) (*models.Answer, error) {
	return s.answerRepo.GetByID(ctx, answerID, viewerID)
}

// ListAnswers returns a question's answers, oldest first.
func (s *AnswerService) ListAnswers(ctx context.Context, questionID, viewerID uint) ([]*models.Answer, error) {
	if _, err := s.questionRepo.GetByID(ctx, questionID, 0); err != nil {
		return nil, err
	}
	answers, err := s.answerRepo.ListByQuestion(ctx, questionID, viewerID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return answers, nil
}

// UpdateAnswer edits an answer owned by the caller (or any answer, for admins).
func (s *AnswerService) UpdateAnswer(ctx context.Context, in UpdateAnswerInput) (*models.Answer, error) {
	answer, err := s.authorizeAnswer(ctx, in.AnswerID, in.UserID)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Answer content is required")
	}

	answer.Content = content
	if err := s.answerRepo.Update(ctx, answer); err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateQuestion(ctx, answer.QuestionID)
	return s.answerRepo.GetByID(ctx, answer.ID, in.UserID)
}

// DeleteAnswer removes an answer and every vote pointing at it.
func (s *AnswerService) DeleteAnswer(ctx context.Context, answerID, userID uint) error {
	answer, err := s.authorizeAnswer(ctx, answerID, userID)
	if err != nil {
		return err
	}

	if err := s.answerRepo.Delete(ctx, answerID); err != nil {
		return models.NewInternalError(err)
	}
	if err := s.voteRepo.DeleteByTarget(ctx, models.TargetAnswer, answerID); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateQuestion(ctx, answer.QuestionID)
	cache.InvalidateAnswer(ctx, answerID)
	return nil
}

func (s *AnswerService) authorizeAnswer(ctx context.Context, answerID, userID uint) (*models.Answer, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	answer, err := s.answerRepo.GetByID(ctx, answerID, 0)
	if err != nil {
		return nil, err
	}
	if answer.AuthorID != userID {
		user, uerr := s.userRepo.GetByID(ctx, userID)
		if uerr != nil {
			return nil, uerr
		}
		if !user.IsAdmin() {
			return nil, models.NewForbiddenError("You can only modify your own answers")
		}
	}
	return answer, nil
}
