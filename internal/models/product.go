package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSearchFilter holds search and filter criteria for catalog queries
type ProductSearchFilter struct {
	Query      string           `json:"query,omitempty"`       // Full-text search across name, description, slug
	CategoryID *uuid.UUID       `json:"category_id,omitempty"` // Filter by category
	Featured   *bool            `json:"featured,omitempty"`    // Featured products only
	Available  *bool            `json:"available,omitempty"`   // Availability filter
	MinPrice   *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice   *decimal.Decimal `json:"max_price,omitempty"`
	SortBy     string           `json:"sort_by,omitempty"`    // Sort field: name, created_at, selling_price
	SortOrder  string           `json:"sort_order,omitempty"` // Sort order: asc, desc
	Limit      int              `json:"limit,omitempty"`
	Offset     int              `json:"offset,omitempty"`
}

type Product struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	CategoryID       *uuid.UUID      `json:"category_id" db:"category_id"`
	Name             string          `json:"name" db:"name"`
	Slug             string          `json:"slug" db:"slug"`
	Description      *string         `json:"description" db:"description"`
	MRP              decimal.Decimal `json:"mrp" db:"mrp"`
	SellingPrice     decimal.Decimal `json:"selling_price" db:"selling_price"`
	StockQuantity    int             `json:"stock_quantity" db:"stock_quantity"`
	MinOrderQuantity int             `json:"min_order_quantity" db:"min_order_quantity"`
	Unit             string          `json:"unit" db:"unit"`
	PiecesPerSet     int             `json:"pieces_per_set" db:"pieces_per_set"`
	HSNCode          *string         `json:"hsn_code" db:"hsn_code"`
	IsFeatured       bool            `json:"is_featured" db:"is_featured"`
	IsAvailable      bool            `json:"is_available" db:"is_available"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`

	// Variants are loaded on demand, not by every product query.
	Variants []*ProductVariant `json:"variants,omitempty" db:"-"`
}
