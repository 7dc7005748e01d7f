package service

import (
	"context"
	"strings"

	"quorum/internal/models"
	"quorum/internal/repository"
	"quorum/internal/validation"
)

const maxTagsPerQuestion = 5

// QuestionService implements business logic for questions and their tags.
type QuestionService struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	voteRepo     repository.VoteRepository
	userRepo     repository.UserRepository
}

// CreateQuestionInput holds parameters for creating a question.
type CreateQuestionInput struct {
	AuthorID    uint
	Title       string
	Description string
	Tags        []string
}

// UpdateQuestionInput holds parameters for updating a question. Nil Tags
// leaves the existing tag set untouched.
type UpdateQuestionInput struct {
	QuestionID  uint
	UserID      uint
	Title       string
	Description string
	Tags        []string
}

// ListQuestionsInput holds parameters for listing questions.
type ListQuestionsInput struct {
	Limit    int
	Offset   int
	ViewerID uint
	Tag      string
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	voteRepo repository.VoteRepository,
	userRepo repository.UserRepository,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		voteRepo:     voteRepo,
		userRepo:     userRepo,
	}
}

func validateQuestionTags(tags []string) ([]string, error) {
	normalized := validation.NormalizeTags(tags)
	if len(normalized) > maxTagsPerQuestion {
		return nil, models.NewValidationError("A question can carry at most 5 tags")
	}
	for _, tag := range normalized {
		if err := validation.ValidateTag(tag); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	return normalized, nil
}

// CreateQuestion validates and persists a new question with its tags.
func (s *QuestionService) CreateQuestion(ctx context.Context, in CreateQuestionInput) (*models.Question, error) {
	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if len(title) < 10 || len(title) > 150 {
		return nil, models.NewValidationError("Title must be between 10 and 150 characters")
	}
	if description == "" {
		return nil, models.NewValidationError("Description is required")
	}

	tags, err := validateQuestionTags(in.Tags)
	if err != nil {
		return nil, err
	}

	question := &models.Question{
		Title:       title,
		Description: description,
		AuthorID:    in.AuthorID,
	}
	if err := s.questionRepo.Create(ctx, question, tags); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.questionRepo.GetByID(ctx, question.ID, in.AuthorID)
}

// GetQuestion returns a single question with answers and the viewer's vote state.
func (s *QuestionService) GetQuestion(ctx context.Context, id, viewerID uint) (*models.Question, error) {
	return s.questionRepo.GetByID(ctx, id, viewerID)
}

// ListQuestions returns a page of questions, optionally filtered by tag.
func (s *QuestionService) ListQuestions(ctx context.Context, in ListQuestionsInput) ([]*models.Question, error) {
	if in.Tag != "" {
		in.Tag = strings.ToLower(strings.TrimSpace(in.Tag))
		if err := validation.ValidateTag(in.Tag); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	questions, err := s.questionRepo.List(ctx, in.Limit, in.Offset, in.ViewerID, in.Tag)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

// ListQuestionsWithAnswers is the moderation listing: newest questions first,
// answers inlined.
func (s *QuestionService) ListQuestionsWithAnswers(ctx context.Context, limit, offset int) ([]*models.Question, error) {
	questions, err := s.questionRepo.ListWithAnswers(ctx, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

// UpdateQuestion updates a question owned by the caller (or any question, for
// admins).
func (s *QuestionService) UpdateQuestion(ctx context.Context, in UpdateQuestionInput) (*models.Question, error) {
	question, err := s.authorizeQuestion(ctx, in.QuestionID, in.UserID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if len(title) < 10 || len(title) > 150 {
		return nil, models.NewValidationError("Title must be between 10 and 150 characters")
	}
	if description == "" {
		return nil, models.NewValidationError("Description is required")
	}

	var tags []string
	if in.Tags != nil {
		tags, err = validateQuestionTags(in.Tags)
		if err != nil {
			return nil, err
		}
	}

	question.Title = title
	question.Description = description
	if err := s.questionRepo.Update(ctx, question, tags); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.questionRepo.GetByID(ctx, question.ID, in.UserID)
}

// DeleteQuestion removes a question together with its tags, answers and every
// vote pointing at it or its answers.
func (s *QuestionService) DeleteQuestion(ctx context.Context, questionID, userID uint) error {
	if _, err := s.authorizeQuestion(ctx, questionID, userID); err != nil {
		return err
	}

	// Collect answer ids before the cascade removes them; their votes have to
	// go too or the ledger would point at rows that no longer exist.
	answers, err := s.answerRepo.ListByQuestion(ctx, questionID, 0)
	if err != nil {
		return models.NewInternalError(err)
	}

	if err := s.questionRepo.Delete(ctx, questionID); err != nil {
		return models.NewInternalError(err)
	}

	if err := s.voteRepo.DeleteByTarget(ctx, models.TargetQuestion, questionID); err != nil {
		return models.NewInternalError(err)
	}
	for _, answer := range answers {
		if err := s.voteRepo.DeleteByTarget(ctx, models.TargetAnswer, answer.ID); err != nil {
			return models.NewInternalError(err)
		}
	}
	return nil
}

// authorizeQuestion loads a question and verifies the caller may modify it.
func (s *QuestionService) authorizeQuestion(ctx context.Context, questionID, userID uint) (*models.Question, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	question, err := s.questionRepo.GetByID(ctx, questionID, 0)
	if err != nil {
		return nil, err
	}
	if question.AuthorID != userID {
		user, uerr := s.userRepo.GetByID(ctx, userID)
		if uerr != nil {
			return nil, uerr
		}
		if !user.IsAdmin() {
			return nil, models.NewForbiddenError("You can only modify your own questions")
		}
	}
	return question, nil
}
