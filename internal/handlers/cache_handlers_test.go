package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"dely/internal/models"
)

// fakeCacheService records which invalidation entry points were hit.
type fakeCacheService struct {
	invalidatedAll    bool
	deletedCategories bool
	deletedProduct    *uuid.UUID
}

func (f *fakeCacheService) GetProduct(context.Context, uuid.UUID) (*models.Product, error) {
	return nil, nil
}
func (f *fakeCacheService) SetProduct(context.Context, *models.Product, time.Duration) error {
	return nil
}

func (f *fakeCacheService) DeleteProduct(_ context.Context, productID uuid.UUID) error {
	f.deletedProduct = &productID
	return nil
}

func (f *fakeCacheService) GetCategories(context.Context) ([]*models.Category, error) {
	return nil, nil
}
func (f *fakeCacheService) SetCategories(context.Context, []*models.Category, time.Duration) error {
	return nil
}

func (f *fakeCacheService) DeleteCategories(context.Context) error {
	f.deletedCategories = true
	return nil
}

func (f *fakeCacheService) GetInvoiceJSON(context.Context, uuid.UUID) ([]byte, error) {
	return nil, nil
}
func (f *fakeCacheService) SetInvoiceJSON(context.Context, uuid.UUID, []byte, time.Duration) error {
	return nil
}
func (f *fakeCacheService) DeleteInvoiceJSON(context.Context, uuid.UUID) error { return nil }

func (f *fakeCacheService) InvalidateAll(context.Context) error {
	f.invalidatedAll = true
	return nil
}

func (f *fakeCacheService) Ping(context.Context) error { return nil }

func TestCacheInvalidate_DefaultScope(t *testing.T) {
	cache := &fakeCacheService{}
	h := NewCacheHandlers(cache)

	c, rec := newAuthedContext(t, http.MethodPost, "/admin/cache/invalidate", `{}`, uuid.New())
	assert.NoError(t, h.Invalidate(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, cache.invalidatedAll)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, "all", data["scope"])
}

func TestCacheInvalidate_CategoriesScope(t *testing.T) {
	cache := &fakeCacheService{}
	h := NewCacheHandlers(cache)

	c, rec := newAuthedContext(t, http.MethodPost, "/admin/cache/invalidate", `{"scope":"categories"}`, uuid.New())
	assert.NoError(t, h.Invalidate(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, cache.deletedCategories)
	assert.False(t, cache.invalidatedAll)
}

func TestCacheInvalidate_ProductScope(t *testing.T) {
	cache := &fakeCacheService{}
	h := NewCacheHandlers(cache)
	productID := uuid.New()

	c, rec := newAuthedContext(t, http.MethodPost, "/admin/cache/invalidate",
		`{"scope":"product","product_id":"`+productID.String()+`"}`, uuid.New())
	assert.NoError(t, h.Invalidate(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.NotNil(t, cache.deletedProduct) {
		assert.Equal(t, productID, *cache.deletedProduct)
	}
}

func TestCacheInvalidate_ProductScopeRequiresID(t *testing.T) {
	cache := &fakeCacheService{}
	h := NewCacheHandlers(cache)

	c, rec := newAuthedContext(t, http.MethodPost, "/admin/cache/invalidate", `{"scope":"product"}`, uuid.New())
	assert.NoError(t, h.Invalidate(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, cache.deletedProduct)
}

func TestCacheInvalidate_UnknownScope(t *testing.T) {
	cache := &fakeCacheService{}
	h := NewCacheHandlers(cache)

	c, rec := newAuthedContext(t, http.MethodPost, "/admin/cache/invalidate", `{"scope":"sessions"}`, uuid.New())
	assert.NoError(t, h.Invalidate(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, cache.invalidatedAll)
}
