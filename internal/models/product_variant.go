package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant carries packaging metadata (set pieces, weight) and a
// variant-level HSN code that takes precedence over the product's own.
type ProductVariant struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	ProductID    uuid.UUID        `json:"product_id" db:"product_id"`
	HSNCode      *string          `json:"hsn_code" db:"hsn_code"`
	SetPcs       *string          `json:"set_pcs" db:"set_pcs"`
	Weight       *string          `json:"weight" db:"weight"`
	MRP          *decimal.Decimal `json:"mrp" db:"mrp"`
	SpecialPrice *decimal.Decimal `json:"special_price" db:"special_price"`
	FreeItem     *string          `json:"free_item" db:"free_item"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}
