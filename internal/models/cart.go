package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined product fields for cart listings.
	Product *Product `json:"product,omitempty" db:"-"`
}

// LineTotal returns selling price * quantity for a cart line whose
// product is loaded; zero otherwise.
func (ci *CartItem) LineTotal() decimal.Decimal {
	if ci.Product == nil {
		return decimal.Zero
	}
	return ci.Product.SellingPrice.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}
