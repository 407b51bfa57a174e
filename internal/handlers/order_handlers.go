package handlers

import (
	"encoding/json"
	"errors"

	"github.com/labstack/echo/v4"

	"dely/internal/common"
	"dely/internal/models"
	"dely/internal/services"
)

// OrderHandlers handles the customer-facing order endpoints.
type OrderHandlers struct {
	orderService   services.OrderServiceInterface
	invoiceService services.InvoiceServiceInterface
}

func NewOrderHandlers(orderService services.OrderServiceInterface, invoiceService services.InvoiceServiceInterface) *OrderHandlers {
	return &OrderHandlers{orderService: orderService, invoiceService: invoiceService}
}

// Create handles POST /api/v1/orders
func (h *OrderHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorized(c)
	}

	var input services.CreateOrderInput
	if err := c.Bind(&input); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	order, err := h.orderService.CreateOrder(ctx, userID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return common.SendClientError(c, "Cart is empty")
		case errors.Is(err, services.ErrMissingAddress):
			return common.SendClientError(c, "Delivery address is required")
		default:
			return common.SendClientError(c, err.Error())
		}
	}
	return common.SendCreated(c, order, "Order placed successfully")
}

// List handles GET /api/v1/orders
func (h *OrderHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorized(c)
	}

	var status *string
	if raw := c.QueryParam("status"); raw != "" {
		if err := common.ValidateOrderStatus(raw); err != nil {
			return common.SendClientError(c, err.Error())
		}
		status = &raw
	}

	page, limit, offset := common.ParsePagination(c)
	orders, total, err := h.orderService.ListOrdersForUser(ctx, userID, status, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to load orders")
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return common.SendSuccess(c, map[string]any{
		"orders":     orders,
		"pagination": common.Paginate(page, limit, total),
	}, "")
}

// Get handles GET /api/v1/orders/:order_id; the path segment accepts
// the order id or the order number.
func (h *OrderHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorized(c)
	}

	order, err := h.orderService.GetOrderForUser(ctx, userID, c.Param("order_id"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return common.SendNotFound(c, "Order")
		}
		return common.SendServerError(c, "Failed to load order")
	}
	return common.SendSuccess(c, order, "")
}

// Invoice handles GET /api/v1/orders/:order_id/invoice
func (h *OrderHandlers) Invoice(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorized(c)
	}

	payload, err := h.invoiceService.InvoiceJSON(ctx, c.Param("order_id"), &userID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return common.SendNotFound(c, "Order")
		}
		return common.SendServerError(c, "Failed to build invoice")
	}
	return common.SendSuccess(c, json.RawMessage(payload), "")
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /api/v1/orders/:order_id/cancel
func (h *OrderHandlers) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorized(c)
	}

	var req cancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	err := h.orderService.CancelOrder(ctx, userID, c.Param("order_id"), common.StringPtr(req.Reason))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return common.SendNotFound(c, "Order")
		case errors.Is(err, services.ErrOrderTerminal):
			return common.SendClientError(c, "Order can no longer be cancelled")
		default:
			return common.SendServerError(c, "Failed to cancel order")
		}
	}
	return common.SendSuccess(c, nil, "Order cancelled")
}

// Track handles GET /api/v1/orders/:order_id/track
func (h *OrderHandlers) Track(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorized(c)
	}

	info, err := h.orderService.TrackOrder(ctx, userID, c.Param("order_id"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return common.SendNotFound(c, "Order")
		}
		return common.SendServerError(c, "Failed to load tracking")
	}
	return common.SendSuccess(c, info, "")
}
