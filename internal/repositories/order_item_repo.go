package repositories

import (
	"context"

	"github.com/google/uuid"

	"dely/internal/models"
)

type OrderItemRepository interface {
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
}

type orderItemRepo struct {
	db DB
}

func NewOrderItemRepo(db DB) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, price, subtotal, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price, &item.Subtotal, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
