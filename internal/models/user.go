package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Back-office roles gate the /admin surface.
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Phone        *string   `json:"phone" db:"phone"`
	GSTNumber    *string   `json:"gst_number" db:"gst_number"`
	Role         string    `json:"role" db:"role"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
