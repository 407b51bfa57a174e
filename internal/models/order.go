package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses, in lifecycle order. "completed" is a terminal state
// applied after a delivered order settles.
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusProcessing     = "processing"
	OrderStatusShipped        = "shipped"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCompleted      = "completed"
	OrderStatusCancelled      = "cancelled"
)

// Payment statuses stored on the order.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// DeliveryAddress is the JSON blob stored on each order. Older client
// generations wrote "address"/"landmark" instead of the line fields,
// so both spellings are kept and readers fall back between them.
type DeliveryAddress struct {
	Name         string `json:"name,omitempty"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	Address      string `json:"address,omitempty"`
	Landmark     string `json:"landmark,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Pincode      string `json:"pincode,omitempty"`
	GSTIN        string `json:"gstin,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Type         string `json:"type,omitempty"`
	IsDefault    bool   `json:"is_default,omitempty"`
}

// Line1 returns the first address line, preferring the canonical field.
func (a DeliveryAddress) Line1() string {
	if a.AddressLine1 != "" {
		return a.AddressLine1
	}
	return a.Address
}

// Line2 returns the second address line, preferring the canonical field.
func (a DeliveryAddress) Line2() string {
	if a.AddressLine2 != "" {
		return a.AddressLine2
	}
	return a.Landmark
}

type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	OrderNumber     string          `json:"order_number" db:"order_number"`
	UserID          *uuid.UUID      `json:"user_id" db:"user_id"`
	Status          string          `json:"status" db:"status"`
	PaymentMethod   *string         `json:"payment_method" db:"payment_method"`
	PaymentStatus   string          `json:"payment_status" db:"payment_status"`
	DeliveryAddress DeliveryAddress `json:"delivery_address" db:"delivery_address"`
	PaymentDetails  map[string]any  `json:"payment_details" db:"payment_details"`
	Subtotal        decimal.Decimal `json:"subtotal" db:"subtotal"`
	Discount        decimal.Decimal `json:"discount" db:"discount"`
	DeliveryCharge  decimal.Decimal `json:"delivery_charge" db:"delivery_charge"`
	Tax             decimal.Decimal `json:"tax" db:"tax"`
	Total           decimal.Decimal `json:"total" db:"total"`
	TrackingNumber  *string         `json:"tracking_number" db:"tracking_number"`
	Notes           *string         `json:"notes" db:"notes"`
	CancelledAt     *time.Time      `json:"cancelled_at" db:"cancelled_at"`
	CancelledReason *string         `json:"cancelled_reason" db:"cancelled_reason"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether the order can no longer be cancelled.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered ||
		o.Status == OrderStatusCompleted ||
		o.Status == OrderStatusCancelled
}
