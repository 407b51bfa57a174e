package handlers

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"dely/internal/common"
	"dely/internal/models"
	"dely/internal/services"
)

// ProductHandlers handles HTTP requests for the product catalog
type ProductHandlers struct {
	productService services.ProductServiceInterface
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductServiceInterface) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

func parseSearchFilter(c echo.Context) (models.ProductSearchFilter, int) {
	filter := models.ProductSearchFilter{
		Query:     c.QueryParam("q"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}

	if raw := c.QueryParam("category_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.CategoryID = &id
		}
	}
	if raw := c.QueryParam("featured"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.Featured = &v
		}
	}
	if raw := c.QueryParam("available"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.Available = &v
		}
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.MaxPrice = &v
		}
	}

	page, limit, offset := common.ParsePagination(c)
	filter.Limit = limit
	filter.Offset = offset
	return filter, page
}

// List handles GET /api/v1/products
func (h *ProductHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()
	filter, page := parseSearchFilter(c)

	products, total, err := h.productService.Search(ctx, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to load products")
	}
	if products == nil {
		products = []*models.Product{}
	}

	return common.SendSuccess(c, map[string]any{
		"products":   products,
		"pagination": common.Paginate(page, filter.Limit, total),
	}, "")
}

// Search handles GET /api/v1/products/search. Same filters and payload
// as the listing route; kept as its own path for storefront clients
// that call search explicitly.
func (h *ProductHandlers) Search(c echo.Context) error {
	return h.List(c)
}

// Get handles GET /api/v1/products/:id, accepting a product id or slug.
func (h *ProductHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()
	identifier := c.Param("id")

	var product *models.Product
	var err error
	if id, parseErr := uuid.Parse(identifier); parseErr == nil {
		product, err = h.productService.GetWithVariants(ctx, id)
	} else {
		product, err = h.productService.GetBySlug(ctx, identifier)
	}
	if err != nil {
		return common.SendServerError(c, "Failed to load product")
	}
	if product == nil {
		return common.SendNotFound(c, "Product")
	}
	return common.SendSuccess(c, product, "")
}
