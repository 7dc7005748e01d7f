package service

import (
	"context"
	"strings"

	"quorum/internal/middleware"
	"quorum/internal/models"
	"quorum/internal/repository"
	"quorum/internal/validation"
)

// TagService implements business logic for the derived tag view.
type TagService struct {
	tagRepo repository.TagRepository
}

// DeleteTagOutput reports the blast radius of a tag deletion.
type DeleteTagOutput struct {
	Tag              string `json:"tag"`
	QuestionsUpdated int64  `json:"questions_updated"`
}

// AddTagOutput reports the result of checking a tag name in.
type AddTagOutput struct {
	Tag   string `json:"tag"`
	InUse bool   `json:"in_use"`
}

// NewTagService creates a new TagService.
func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// ListTags returns all tags with usage counts, most used first.
func (s *TagService) ListTags(ctx context.Context) ([]models.TagCount, error) {
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

// AddTag validates and normalizes a tag name. Nothing is materialized: a tag
// has no standalone storage and only comes into being when a question is saved
// carrying it, so this reports whether the name is already in use.
func (s *TagService) AddTag(ctx context.Context, name string) (*AddTagOutput, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if err := validation.ValidateTag(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	inUse, err := s.tagRepo.Exists(ctx, name)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AddTagOutput{Tag: name, InUse: inUse}, nil
}

// DeleteTag removes a tag from every question carrying it and returns how many
// questions were updated. Deleting a tag no question carries is not an error;
// the cascade simply reports zero.
func (s *TagService) DeleteTag(ctx context.Context, name string) (*DeleteTagOutput, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if err := validation.ValidateTag(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	updated, err := s.tagRepo.DeleteCascade(ctx, name)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if updated > 0 {
		middleware.Logger.InfoContext(ctx, "tag cascade delete",
			"tag", name,
			"questions_updated", updated,
		)
	}
	return &DeleteTagOutput{Tag: name, QuestionsUpdated: updated}, nil
}
