package repository

import (
	"context"

	"quorum/internal/cache"
	"quorum/internal/models"

	"gorm.io/gorm"
)

// TagRepository exposes the derived tag view over question_tags. There is no
// tag entity to persist: a tag exists while at least one question carries it.
type TagRepository interface {
	// List aggregates tag usage across all questions, ordered by count
	// descending with name ascending as the tie-break.
	List(ctx context.Context) ([]models.TagCount, error)
	// Exists reports whether any question currently carries the tag.
	Exists(ctx context.Context, name string) (bool, error)
	// DeleteCascade removes the tag from every question referencing it and
	// returns how many questions were updated. Zero references is not an
	// error; the cascade just removes nothing.
	DeleteCascade(ctx context.Context, name string) (int64, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) List(ctx context.Context) ([]models.TagCount, error) {
	var tags []models.TagCount
	err := cache.Aside(ctx, cache.TagListKey, &tags, cache.TagListTTL, func() error {
		return r.db.WithContext(ctx).
			Model(&models.QuestionTag{}).
			Select("name, COUNT(*) as count").
			Group("name").
			Order("count DESC, name ASC").
			Scan(&tags).Error
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) Exists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.QuestionTag{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tagRepository) DeleteCascade(ctx context.Context, name string) (int64, error) {
	// One row per (question, tag) pair, so rows removed == questions updated.
	result := r.db.WithContext(ctx).
		Where("name = ?", name).
		Delete(&models.QuestionTag{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		cache.InvalidateTagList(ctx)
	}
	return result.RowsAffected, nil
}
