package handlers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"dely/internal/caching"
	"dely/internal/common"
)

// CacheHandlers exposes cache invalidation to the back office, for the
// odd row edited directly in the database.
type CacheHandlers struct {
	cache caching.CacheService
}

func NewCacheHandlers(cache caching.CacheService) *CacheHandlers {
	return &CacheHandlers{cache: cache}
}

type cacheInvalidateRequest struct {
	Scope     string     `json:"scope"`
	ProductID *uuid.UUID `json:"product_id"`
}

// Invalidate handles POST /admin/cache/invalidate
func (h *CacheHandlers) Invalidate(c echo.Context) error {
	ctx := c.Request().Context()

	var req cacheInvalidateRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	scope := req.Scope
	if scope == "" {
		scope = "all"
	}

	var err error
	switch scope {
	case "all":
		err = h.cache.InvalidateAll(ctx)
	case "categories":
		err = h.cache.DeleteCategories(ctx)
	case "product":
		if req.ProductID == nil {
			return common.SendClientError(c, "product_id is required for product scope")
		}
		err = h.cache.DeleteProduct(ctx, *req.ProductID)
	default:
		return common.SendClientError(c, "scope must be one of: all, categories, product")
	}
	if err != nil {
		return common.SendServerError(c, "Cache invalidation failed")
	}

	return common.SendSuccess(c, map[string]string{"scope": scope}, "Cache invalidated")
}
