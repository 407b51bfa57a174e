package handlers

import (
	"encoding/json"
	"errors"

	"github.com/labstack/echo/v4"

	"dely/internal/common"
	"dely/internal/models"
	"dely/internal/services"
)

// AdminOrderHandlers handles the back-office order endpoints.
type AdminOrderHandlers struct {
	orderService   services.OrderServiceInterface
	invoiceService services.InvoiceServiceInterface
}

func NewAdminOrderHandlers(orderService services.OrderServiceInterface, invoiceService services.InvoiceServiceInterface) *AdminOrderHandlers {
	return &AdminOrderHandlers{orderService: orderService, invoiceService: invoiceService}
}

// List handles GET /admin/orders
func (h *AdminOrderHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	var status *string
	if raw := c.QueryParam("status"); raw != "" {
		if err := common.ValidateOrderStatus(raw); err != nil {
			return common.SendClientError(c, err.Error())
		}
		status = &raw
	}

	page, limit, offset := common.ParsePagination(c)
	orders, total, err := h.orderService.ListOrders(ctx, status, limit, offset)
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

// Get handles GET /admin/orders/:order_id
func (h *AdminOrderHandlers) Get(c echo.Context) error {
	order, err := h.orderService.GetOrder(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return common.SendNotFound(c, "Order")
		}
		return common.SendServerError(c, "Failed to load order")
	}
	return common.SendSuccess(c, order, "")
}

type updateStatusRequest struct {
	Status         string  `json:"status"`
	TrackingNumber *string `json:"tracking_number"`
}

// UpdateStatus handles PUT /admin/orders/:order_id/status
func (h *AdminOrderHandlers) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if err := common.ValidateOrderStatus(req.Status); err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), c.Param("order_id"), req.Status, req.TrackingNumber)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return common.SendNotFound(c, "Order")
		}
		return common.SendServerError(c, "Failed to update order status")
	}
	return common.SendSuccess(c, order, "Order status updated")
}

// Invoice handles GET /admin/orders/:order_id/invoice and its older
// alias GET /admin/orders/invoices/:order_id. Both return the same
// payload; the alias survives for deployed admin clients.
func (h *AdminOrderHandlers) Invoice(c echo.Context) error {
	payload, err := h.invoiceService.InvoiceJSON(c.Request().Context(), c.Param("order_id"), nil)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return common.SendNotFound(c, "Order")
		}
		return common.SendServerError(c, "Failed to build invoice")
	}
	return common.SendSuccess(c, json.RawMessage(payload), "")
}

// InvoicePDF handles POST /admin/invoices/:order_id/pdf, returning a
// presigned URL for the rendered document.
func (h *AdminOrderHandlers) InvoicePDF(c echo.Context) error {
	url, err := h.invoiceService.InvoicePDFURL(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return common.SendNotFound(c, "Order")
		}
		return common.SendServerError(c, "Failed to generate invoice PDF")
	}
	return common.SendSuccess(c, map[string]string{"url": url}, "")
}
