package repository

import (
	"context"
	"errors"

	"quorum/internal/models"

	"gorm.io/gorm"
)

// AnswerRepository defines persistence operations for answers.
type AnswerRepository interface {
	Create(ctx context.Context, answer *models.Answer) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Answer, error)
	ListByQuestion(ctx context.Context, questionID uint, viewerID uint) ([]*models.Answer, error)
	Update(ctx context.Context, answer *models.Answer) error
	Delete(ctx context.Context, id uint) error
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

type answerRepository struct {
	db *gorm.DB
}

// NewAnswerRepository returns a new AnswerRepository implementation.
func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

// answerVoteDetails adds the subqueries computing an answer's vote tallies and
// the viewer's vote state. Shared with the question repository so answers
// embedded in a question payload carry the same fields as a direct read.
func answerVoteDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "answers.*, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.target_type = 'answer' AND votes.target_id = answers.id AND votes.value = 1) as upvotes, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.target_type = 'answer' AND votes.target_id = answers.id AND votes.value = -1) as downvotes"

	if viewerID != 0 {
		return db.Select(selectQuery+
			", COALESCE((SELECT value FROM votes WHERE votes.target_type = 'answer' AND votes.target_id = answers.id AND votes.user_id = ?), 0) as viewer_vote",
			viewerID)
	}

	return db.Select(selectQuery + ", 0 as viewer_vote")
}

func (r *answerRepository) applyVoteDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	return answerVoteDetails(db, viewerID)
}

func (r *answerRepository) Create(ctx context.Context, answer *models.Answer) error {
	return r.db.WithContext(ctx).Create(answer).Error
}

func (r *answerRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Answer, error) {
	var answer models.Answer
	err := r.applyVoteDetails(r.db.WithContext(ctx), viewerID).
		Preload("Author").
		First(&answer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Answer", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &answer, nil
}

func (r *answerRepository) ListByQuestion(ctx context.Context, questionID uint, viewerID uint) ([]*models.Answer, error) {
	var answers []*models.Answer
	err := r.applyVoteDetails(r.db.WithContext(ctx), viewerID).
		Preload("Author").
		Where("question_id = ?", questionID).
		Order("created_at ASC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) Update(ctx context.Context, answer *models.Answer) error {
	return r.db.WithContext(ctx).
		Model(answer).
		Update("content", answer.Content).Error
}

func (r *answerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Answer{}, id).Error
}

func (r *answerRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}
