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

const productCacheTTL = 10 * time.Minute

// ProductServiceInterface defines the interface for catalog read operations
type ProductServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetWithVariants(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Search(ctx context.Context, filter models.ProductSearchFilter) ([]*models.Product, int, error)
}

type productService struct {
	productRepo repositories.ProductRepository
	cache       caching.CacheService
}

// NewProductService creates a new product service instance
func NewProductService(productRepo repositories.ProductRepository, cache caching.CacheService) ProductServiceInterface {
	return &productService{
		productRepo: productRepo,
		cache:       cache,
	}
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetProduct(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil || product == nil {
		return product, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product, productCacheTTL); err != nil {
			config.GetLogger().WithError(err).Warn("product cache set failed")
		}
	}
	return product, nil
}

func (s *productService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.productRepo.GetBySlug(ctx, slug)
}

// GetWithVariants loads the product and attaches its variant rows.
func (s *productService) GetWithVariants(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil || product == nil {
		return product, err
	}

	variants, err := s.productRepo.GetVariants(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Variants = variants
	return product, nil
}

func (s *productService) Search(ctx context.Context, filter models.ProductSearchFilter) ([]*models.Product, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	products, err := s.productRepo.Search(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountSearch(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
