package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one purchased line. Price is a snapshot of the product's
// selling price at purchase time; it never tracks the live product
// price. ProductID is nulled when the product row is later deleted, so
// invoice rendering falls back to the ProductName snapshot.
type OrderItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID   *uuid.UUID      `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
