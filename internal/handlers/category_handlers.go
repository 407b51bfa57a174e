package handlers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"dely/internal/common"
	"dely/internal/models"
	"dely/internal/services"
)

type CategoryHandlers struct {
	categoryService services.CategoryServiceInterface
}

func NewCategoryHandlers(categoryService services.CategoryServiceInterface) *CategoryHandlers {
	return &CategoryHandlers{categoryService: categoryService}
}

// List handles GET /api/v1/categories
func (h *CategoryHandlers) List(c echo.Context) error {
	categories, err := h.categoryService.ListActive(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to load categories")
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return common.SendSuccess(c, categories, "")
}

// Get handles GET /api/v1/categories/:id
func (h *CategoryHandlers) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid category id")
	}

	category, err := h.categoryService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendServerError(c, "Failed to load category")
	}
	if category == nil {
		return common.SendNotFound(c, "Category")
	}
	return common.SendSuccess(c, category, "")
}
