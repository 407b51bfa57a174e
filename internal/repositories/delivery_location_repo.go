package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"dely/internal/models"
)

type DeliveryLocationRepository interface {
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.DeliveryLocation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.DeliveryLocation, error)
}

type deliveryLocationRepo struct {
	db DB
}

func NewDeliveryLocationRepo(db DB) DeliveryLocationRepository {
	return &deliveryLocationRepo{db: db}
}

func (r *deliveryLocationRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.DeliveryLocation, error) {
	l := &models.DeliveryLocation{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, address, landmark, city, state, pincode, type, is_default, created_at, updated_at
		FROM delivery_locations
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&l.ID, &l.UserID, &l.Address, &l.Landmark, &l.City, &l.State, &l.Pincode, &l.Type, &l.IsDefault, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

func (r *deliveryLocationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.DeliveryLocation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, address, landmark, city, state, pincode, type, is_default, created_at, updated_at
		FROM delivery_locations
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*models.DeliveryLocation
	for rows.Next() {
		l := &models.DeliveryLocation{}
		if err := rows.Scan(&l.ID, &l.UserID, &l.Address, &l.Landmark, &l.City, &l.State, &l.Pincode, &l.Type, &l.IsDefault, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}
