package repositories

import (
	"context"

	"github.com/google/uuid"

	"dely/internal/models"
)

type CartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.CartItem, error)
	Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	Delete(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartRepo struct {
	db DB
}

func NewCartRepo(db DB) CartRepository {
	return &cartRepo{db: db}
}

// ListByUser returns the cart with each line's product joined in, so
// totals and availability checks need no second round trip.
func (r *cartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.CartItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
		       p.id, p.category_id, p.name, p.slug, p.description, p.mrp, p.selling_price,
		       p.stock_quantity, p.min_order_quantity, p.unit, p.pieces_per_set, p.hsn_code,
		       p.is_featured, p.is_available, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.CartItem
	for rows.Next() {
		item := &models.CartItem{Product: &models.Product{}}
		p := item.Product
		err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description, &p.MRP, &p.SellingPrice,
			&p.StockQuantity, &p.MinOrderQuantity, &p.Unit, &p.PiecesPerSet, &p.HSNCode,
			&p.IsFeatured, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *cartRepo) Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
	`, uuid.New(), userID, productID, quantity)
	return err
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE cart_items SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3
	`, quantity, userID, productID)
	return err
}

func (r *cartRepo) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	return err
}

func (r *cartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
