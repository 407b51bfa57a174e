package common

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

// ResponseModel is the envelope shared by every endpoint in the API:
// {"success": bool, "data": <payload>, "message": str}. Customer and
// admin clients both parse this shape.
type ResponseModel struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// SendSuccess sends a 200 envelope with payload and optional message.
func SendSuccess(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusOK, ResponseModel{Success: true, Data: data, Message: message})
}

// SendCreated sends a 201 envelope.
func SendCreated(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusCreated, ResponseModel{Success: true, Data: data, Message: message})
}

// SendError sends a failure envelope with the given HTTP status.
func SendError(c echo.Context, status int, message string) error {
	return c.JSON(status, ResponseModel{Success: false, Message: message})
}

// SendNotFound sends a 404 for a missing resource.
func SendNotFound(c echo.Context, resource string) error {
	return SendError(c, http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

// SendClientError sends a 400 failure envelope.
func SendClientError(c echo.Context, message string) error {
	return SendError(c, http.StatusBadRequest, message)
}

// SendServerError sends a 500 failure envelope.
func SendServerError(c echo.Context, message string) error {
	return SendError(c, http.StatusInternalServerError, message)
}

// SendUnauthorized sends a 401 failure envelope.
func SendUnauthorized(c echo.Context) error {
	return SendError(c, http.StatusUnauthorized, "Unauthorized access")
}

// GetUserIDFromContext extracts the authenticated user ID from the request context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUserRoleFromContext extracts the authenticated role from the request context.
func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}

// WithUserID returns a context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithUserRole returns a context carrying the authenticated role.
func WithUserRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, UserRoleKey, role)
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[0-9A-Z]{1}Z[0-9A-Z]{1}$`)

// ValidateGSTIN validates GSTIN format. Empty values pass; GSTIN is
// optional everywhere it appears.
func ValidateGSTIN(gstin, fieldName string) error {
	if strings.TrimSpace(gstin) == "" {
		return nil
	}
	if len(gstin) != 15 {
		return fmt.Errorf("%s must be exactly 15 characters", fieldName)
	}
	if !gstinPattern.MatchString(gstin) {
		return fmt.Errorf("%s has invalid GSTIN format", fieldName)
	}
	return nil
}

// ValidateOrderStatus validates order status values.
func ValidateOrderStatus(status string) error {
	validStatuses := map[string]bool{
		"pending": true, "confirmed": true, "processing": true,
		"shipped": true, "out_for_delivery": true, "delivered": true,
		"completed": true, "cancelled": true,
	}
	if !validStatuses[status] {
		return fmt.Errorf("order status must be one of: pending, confirmed, processing, shipped, out_for_delivery, delivered, completed, cancelled")
	}
	return nil
}

// ValidateRequiredString validates required string fields.
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ParsePagination reads page/limit query params with defaults and caps.
func ParsePagination(c echo.Context) (page, limit, offset int) {
	page = 1
	limit = 20
	if p := c.QueryParam("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := c.QueryParam("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}

// Pagination is the page block attached to list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate builds the pagination block for a list response.
func Paginate(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
