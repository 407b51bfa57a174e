package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryLocation is a saved address a user can order against instead
// of sending a full address blob with every order.
type DeliveryLocation struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Address   string    `json:"address" db:"address"`
	Landmark  *string   `json:"landmark" db:"landmark"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	Pincode   string    `json:"pincode" db:"pincode"`
	Type      string    `json:"type" db:"type"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ToDeliveryAddress converts a saved location into the order address blob.
func (l *DeliveryLocation) ToDeliveryAddress() DeliveryAddress {
	landmark := ""
	if l.Landmark != nil {
		landmark = *l.Landmark
	}
	return DeliveryAddress{
		AddressLine1: l.Address,
		AddressLine2: landmark,
		City:         l.City,
		State:        l.State,
		Pincode:      l.Pincode,
		Type:         l.Type,
		IsDefault:    l.IsDefault,
	}
}
