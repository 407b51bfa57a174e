package handlers

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"dely/internal/common"
	"dely/internal/services"
)

type CartHandlers struct {
	cartService services.CartServiceInterface
}

func NewCartHandlers(cartService services.CartServiceInterface) *CartHandlers {
	return &CartHandlers{cartService: cartService}
}

type cartItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Get handles GET /api/v1/cart
func (h *CartHandlers) Get(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorized(c)
	}

	summary, err := h.cartService.GetCart(c.Request().Context(), userID)
	if err != nil {
		return common.SendServerError(c, "Failed to load cart")
	}
	return common.SendSuccess(c, summary, "")
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandlers) AddItem(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorized(c)
	}

	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if req.ProductID == uuid.Nil {
		return common.SendClientError(c, "product_id is required")
	}

	if err := h.cartService.AddItem(c.Request().Context(), userID, req.ProductID, req.Quantity); err != nil {
		if errors.Is(err, services.ErrProductUnavailable) {
			return common.SendNotFound(c, "Product")
		}
		return common.SendClientError(c, err.Error())
	}
	return common.SendCreated(c, nil, "Item added to cart")
}

// UpdateItem handles PUT /api/v1/cart/items/:product_id
func (h *CartHandlers) UpdateItem(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorized(c)
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return common.SendClientError(c, "Invalid product id")
	}

	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	if err := h.cartService.UpdateItem(c.Request().Context(), userID, productID, req.Quantity); err != nil {
		if errors.Is(err, services.ErrProductUnavailable) {
			return common.SendNotFound(c, "Product")
		}
		return common.SendClientError(c, err.Error())
	}
	return common.SendSuccess(c, nil, "Cart updated")
}

// RemoveItem handles DELETE /api/v1/cart/items/:product_id
func (h *CartHandlers) RemoveItem(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorized(c)
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return common.SendClientError(c, "Invalid product id")
	}

	if err := h.cartService.RemoveItem(c.Request().Context(), userID, productID); err != nil {
		return common.SendServerError(c, "Failed to remove item")
	}
	return common.SendSuccess(c, nil, "Item removed")
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandlers) Clear(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorized(c)
	}

	if err := h.cartService.ClearCart(c.Request().Context(), userID); err != nil {
		return common.SendServerError(c, "Failed to clear cart")
	}
	return common.SendSuccess(c, nil, "Cart cleared")
}
