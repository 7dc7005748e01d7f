package repository

import (
	"context"
	"errors"

	"quorum/internal/cache"
	"quorum/internal/models"

	"gorm.io/gorm"
)

// QuestionRepository defines persistence operations for questions and their tags.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question, tags []string) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Question, error)
	List(ctx context.Context, limit, offset int, viewerID uint, tag string) ([]*models.Question, error)
	ListWithAnswers(ctx context.Context, limit, offset int) ([]*models.Question, error)
	Update(ctx context.Context, question *models.Question, tags []string) error
	Delete(ctx context.Context, id uint) error
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository returns a new QuestionRepository implementation.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

// applyVoteDetails adds subqueries to fetch vote counts, answer count and the
// viewer's vote state in a single query.
func (r *questionRepository) applyVoteDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "questions.*, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.target_type = 'question' AND votes.target_id = questions.id AND votes.value = 1) as upvotes, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.target_type = 'question' AND votes.target_id = questions.id AND votes.value = -1) as downvotes, " +
		"(SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id AND answers.deleted_at IS NULL) as answers_count"

	if viewerID != 0 {
		return db.Select(selectQuery+
			", COALESCE((SELECT value FROM votes WHERE votes.target_type = 'question' AND votes.target_id = questions.id AND votes.user_id = ?), 0) as viewer_vote",
			viewerID)
	}

	return db.Select(selectQuery + ", 0 as viewer_vote")
}

func flattenTags(questions ...*models.Question) {
	for _, q := range questions {
		names := make([]string, 0, len(q.Tags))
		for _, t := range q.Tags {
			names = append(names, t.Name)
		}
		q.TagNames = names
	}
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question, tags []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		for _, name := range tags {
			if err := tx.Create(&models.QuestionTag{QuestionID: question.ID, Name: name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	question.TagNames = tags
	cache.InvalidateTagList(ctx)
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Question, error) {
	var question models.Question

	fetch := func() error {
		err := r.applyVoteDetails(r.db.WithContext(ctx), viewerID).
			Preload("Author").
			Preload("Tags").
			Preload("Answers", func(db *gorm.DB) *gorm.DB {
				return answerVoteDetails(db, viewerID).Order("answers.created_at ASC")
			}).
			Preload("Answers.Author").
			First(&question, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Question", id)
		}
		if err != nil {
			return models.NewInternalError(err)
		}
		flattenTags(&question)
		return nil
	}

	// Anonymous reads carry no viewer-specific fields and are safe to cache.
	var err error
	if viewerID == 0 {
		err = cache.Aside(ctx, cache.QuestionKey(id), &question, cache.QuestionTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) List(ctx context.Context, limit, offset int, viewerID uint, tag string) ([]*models.Question, error) {
	var questions []*models.Question
	base := r.applyVoteDetails(r.db.WithContext(ctx), viewerID).
		Preload("Author").
		Preload("Tags")
	if tag != "" {
		base = base.Where(
			"questions.id IN (SELECT question_id FROM question_tags WHERE name = ?)", tag)
	}
	err := base.
		Order("questions.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	flattenTags(questions...)
	return questions, nil
}

// ListWithAnswers is the moderation view: questions newest first with their
// answers inlined. No viewer-specific fields.
func (r *questionRepository) ListWithAnswers(ctx context.Context, limit, offset int) ([]*models.Question, error) {
	var questions []*models.Question
	err := r.applyVoteDetails(r.db.WithContext(ctx), 0).
		Preload("Author").
		Preload("Tags").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return answerVoteDetails(db, 0).Order("answers.created_at ASC")
		}).
		Preload("Answers.Author").
		Order("questions.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	flattenTags(questions...)
	return questions, nil
}

func (r *questionRepository) Update(ctx context.Context, question *models.Question, tags []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(question).Updates(map[string]interface{}{
			"title":       question.Title,
			"description": question.Description,
		}).Error; err != nil {
			return err
		}
		if tags == nil {
			return nil
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.QuestionTag{}).Error; err != nil {
			return err
		}
		for _, name := range tags {
			if err := tx.Create(&models.QuestionTag{QuestionID: question.ID, Name: name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if tags != nil {
		question.TagNames = tags
	}
	cache.InvalidateQuestion(ctx, question.ID)
	cache.InvalidateTagList(ctx)
	return nil
}

func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidateQuestion(ctx, id)
	cache.InvalidateTagList(ctx)
	return nil
}

func (r *questionRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}
