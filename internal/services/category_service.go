package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dely/internal/caching"
	"dely/internal/config"
	"dely/internal/models"
	"dely/internal/repositories"
)

const categoryCacheTTL = 30 * time.Minute

type CategoryServiceInterface interface {
	ListActive(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	cache        caching.CacheService
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, cache caching.CacheService) CategoryServiceInterface {
	return &categoryService{categoryRepo: categoryRepo, cache: cache}
}

func (s *categoryService) ListActive(ctx context.Context) ([]*models.Category, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCategories(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCategories(ctx, categories, categoryCacheTTL); err != nil {
			config.GetLogger().WithError(err).Warn("category cache set failed")
		}
	}
	return categories, nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}
