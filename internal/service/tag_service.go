package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "foodgram/internal/errors"
	"foodgram/internal/model"
	"foodgram/internal/repository"
)

// TagService exposes read-only tag operations.
type TagService interface {
	GetTag(ctx context.Context, id uint) (*model.Tag, error)
	ListTags(ctx context.Context) ([]model.Tag, error)
}

type tagService struct {
	repo repository.TagRepository
}

// NewTagService builds a TagService.
func NewTagService(repo repository.TagRepository) TagService {
	return &tagService{repo: repo}
}

func (s *tagService) GetTag(ctx context.Context, id uint) (*model.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) ListTags(ctx context.Context) ([]model.Tag, error) {
	return s.repo.List(ctx)
}
