package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"dely/internal/models"
)

const orderColumns = `id, order_number, user_id, status, payment_method, payment_status, delivery_address, payment_details, subtotal, discount, delivery_charge, tax, total, tracking_number, notes, cancelled_at, cancelled_reason, created_at, updated_at`

type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *models.Order, items []*models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *string, limit, offset int) ([]*models.Order, error)
	CountByUser(ctx context.Context, userID uuid.UUID, status *string) (int, error)
	List(ctx context.Context, status *string, limit, offset int) ([]*models.Order, error)
	Count(ctx context.Context, status *string) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber string) error
	MarkCancelled(ctx context.Context, id uuid.UUID, reason *string) error
	CompleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

// CreateWithItems inserts the order, its line items, the stock
// decrements, and the cart clear in one transaction. A partial order
// with missing lines or unadjusted stock is never visible.
func (r *orderRepo) CreateWithItems(ctx context.Context, order *models.Order, items []*models.OrderItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, user_id, status, payment_method, payment_status, delivery_address, payment_details, subtotal, discount, delivery_charge, tax, total, tracking_number, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`, order.ID, order.OrderNumber, order.UserID, order.Status, order.PaymentMethod, order.PaymentStatus, order.DeliveryAddress, order.PaymentDetails, order.Subtotal, order.Discount, order.DeliveryCharge, order.Tax, order.Total, order.TrackingNumber, order.Notes)
	if err != nil {
		return err
	}

	for _, item := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity, price, subtotal, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		`, item.ID, item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.Price, item.Subtotal)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE products SET stock_quantity = stock_quantity - $1, updated_at = NOW()
			WHERE id = $2
		`, item.Quantity, item.ProductID)
		if err != nil {
			return err
		}
	}

	if order.UserID != nil {
		if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, *order.UserID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepo) scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.OrderNumber, &order.UserID, &order.Status, &order.PaymentMethod, &order.PaymentStatus, &order.DeliveryAddress, &order.PaymentDetails, &order.Subtotal, &order.Discount, &order.DeliveryCharge, &order.Tax, &order.Total, &order.TrackingNumber, &order.Notes, &order.CancelledAt, &order.CancelledReason, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	return r.scanOrder(r.db.QueryRow(ctx, query, id))
}

func (r *orderRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE order_number = $1`, orderColumns)
	return r.scanOrder(r.db.QueryRow(ctx, query, orderNumber))
}

// GetByIdentifier accepts either the primary key or the human-readable
// order number, trying the key first and falling back to the number.
func (r *orderRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.Order, error) {
	if id, err := uuid.Parse(identifier); err == nil {
		order, err := r.GetByID(ctx, id)
		if err != nil || order != nil {
			return order, err
		}
	}
	return r.GetByOrderNumber(ctx, identifier)
}

func (r *orderRepo) listWhere(ctx context.Context, where string, args []any, limit, offset int) ([]*models.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, orderColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.OrderNumber, &order.UserID, &order.Status, &order.PaymentMethod, &order.PaymentStatus, &order.DeliveryAddress, &order.PaymentDetails, &order.Subtotal, &order.Discount, &order.DeliveryCharge, &order.Tax, &order.Total, &order.TrackingNumber, &order.Notes, &order.CancelledAt, &order.CancelledReason, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID, status *string, limit, offset int) ([]*models.Order, error) {
	where := `WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		where += ` AND status = $2`
		args = append(args, *status)
	}
	return r.listWhere(ctx, where, args, limit, offset)
}

func (r *orderRepo) CountByUser(ctx context.Context, userID uuid.UUID, status *string) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *orderRepo) List(ctx context.Context, status *string, limit, offset int) ([]*models.Order, error) {
	where := ""
	args := []any{}
	if status != nil {
		where = `WHERE status = $1`
		args = append(args, *status)
	}
	return r.listWhere(ctx, where, args, limit, offset)
}

func (r *orderRepo) Count(ctx context.Context, status *string) (int, error) {
	query := `SELECT COUNT(*) FROM orders`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	return err
}

func (r *orderRepo) UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber string) error {
	_, err := r.db.Exec(ctx, `UPDATE orders SET tracking_number = $1, updated_at = NOW() WHERE id = $2`, trackingNumber, id)
	return err
}

// MarkCancelled flips the order to cancelled and restores the stock of
// every line whose product still exists, in one transaction.
func (r *orderRepo) MarkCancelled(ctx context.Context, id uuid.UUID, reason *string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE orders SET status = $1, cancelled_at = NOW(), cancelled_reason = $2, updated_at = NOW()
		WHERE id = $3
	`, models.OrderStatusCancelled, reason, id)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE products p SET stock_quantity = p.stock_quantity + oi.quantity, updated_at = NOW()
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.product_id = p.id
	`, id)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CompleteDeliveredBefore settles delivered orders older than the
// cutoff into the completed state. Used by the background scheduler.
func (r *orderRepo) CompleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE status = $2 AND updated_at < $3
	`, models.OrderStatusCompleted, models.OrderStatusDelivered, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
