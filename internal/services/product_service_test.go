package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dely/internal/models"
)

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	args := m.Called(ctx, product, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockCacheService) GetCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCacheService) SetCategories(ctx context.Context, categories []*models.Category, ttl time.Duration) error {
	args := m.Called(ctx, categories, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteCategories(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) GetInvoiceJSON(ctx context.Context, orderID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheService) SetInvoiceJSON(ctx context.Context, orderID uuid.UUID, payload []byte, ttl time.Duration) error {
	args := m.Called(ctx, orderID, payload, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteInvoiceJSON(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestProductGetByID_CacheHitSkipsRepo(t *testing.T) {
	productRepo := new(MockProductRepository)
	cache := new(MockCacheService)
	svc := NewProductService(productRepo, cache)

	cached := testProduct("Kabuli Chana 1kg", 120, 140, 60)
	cache.On("GetProduct", mock.Anything, cached.ID).Return(cached, nil)

	got, err := svc.GetByID(context.Background(), cached.ID)
	assert.NoError(t, err)
	assert.Same(t, cached, got)
	productRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestProductGetByID_CacheMissFillsCache(t *testing.T) {
	productRepo := new(MockProductRepository)
	cache := new(MockCacheService)
	svc := NewProductService(productRepo, cache)

	product := testProduct("Poha 500g", 40, 45, 200)
	cache.On("GetProduct", mock.Anything, product.ID).Return(nil, nil)
	productRepo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	cache.On("SetProduct", mock.Anything, product, productCacheTTL).Return(nil)

	got, err := svc.GetByID(context.Background(), product.ID)
	assert.NoError(t, err)
	assert.Same(t, product, got)
	cache.AssertExpectations(t)
}

func TestProductGetByID_NotFoundIsNotCached(t *testing.T) {
	productRepo := new(MockProductRepository)
	cache := new(MockCacheService)
	svc := NewProductService(productRepo, cache)
	productID := uuid.New()

	cache.On("GetProduct", mock.Anything, productID).Return(nil, nil)
	productRepo.On("GetByID", mock.Anything, productID).Return(nil, nil)

	got, err := svc.GetByID(context.Background(), productID)
	assert.NoError(t, err)
	assert.Nil(t, got)
	cache.AssertNotCalled(t, "SetProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductGetWithVariants(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := NewProductService(productRepo, nil)

	product := testProduct("Sunflower Oil 1L", 160, 175, 80)
	weight := "1 L"
	productRepo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("GetVariants", mock.Anything, product.ID).
		Return([]*models.ProductVariant{{ID: uuid.New(), ProductID: product.ID, Weight: &weight}}, nil)

	got, err := svc.GetWithVariants(context.Background(), product.ID)
	assert.NoError(t, err)
	assert.Len(t, got.Variants, 1)
}

func TestProductSearch_ClampsLimit(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := NewProductService(productRepo, nil)

	expected := models.ProductSearchFilter{Query: "dal", Limit: 20}
	productRepo.On("Search", mock.Anything, expected).Return([]*models.Product{}, nil)
	productRepo.On("CountSearch", mock.Anything, expected).Return(0, nil)

	_, total, err := svc.Search(context.Background(), models.ProductSearchFilter{Query: "dal", Limit: 500})
	assert.NoError(t, err)
	assert.Zero(t, total)
	productRepo.AssertExpectations(t)
}
