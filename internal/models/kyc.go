package models

import (
	"time"

	"github.com/google/uuid"
)

// KYC verification statuses.
const (
	KYCStatusNotVerified = "not_verified"
	KYCStatusPending     = "pending"
	KYCStatusVerified    = "verified"
	KYCStatusRejected    = "rejected"
)

// KYCRecord is one business-verification submission. Document fields
// hold object-storage keys, not URLs; presigned URLs are minted on read.
type KYCRecord struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	UserID            uuid.UUID  `json:"user_id" db:"user_id"`
	BusinessName      string     `json:"business_name" db:"business_name"`
	GSTIN             *string    `json:"gstin" db:"gstin"`
	PAN               *string    `json:"pan" db:"pan"`
	FSSAI             *string    `json:"fssai" db:"fssai"`
	GSTCertificateKey *string    `json:"gst_certificate_key" db:"gst_certificate_key"`
	PANCardKey        *string    `json:"pan_card_key" db:"pan_card_key"`
	Status            string     `json:"status" db:"status"`
	RejectReason      *string    `json:"reject_reason" db:"reject_reason"`
	ReviewedBy        *uuid.UUID `json:"reviewed_by" db:"reviewed_by"`
	ReviewedAt        *time.Time `json:"reviewed_at" db:"reviewed_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}
