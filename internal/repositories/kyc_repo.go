package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"dely/internal/models"
)

const kycColumns = `id, user_id, business_name, gstin, pan, fssai, gst_certificate_key, pan_card_key, status, reject_reason, reviewed_by, reviewed_at, created_at, updated_at`

type KYCRepository interface {
	Create(ctx context.Context, record *models.KYCRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.KYCRecord, error)
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*models.KYCRecord, error)
	List(ctx context.Context, status *string, limit, offset int) ([]*models.KYCRecord, error)
	Count(ctx context.Context, status *string) (int, error)
	Review(ctx context.Context, id uuid.UUID, status string, reason *string, reviewerID uuid.UUID) error
}

type kycRepo struct {
	db DB
}

func NewKYCRepo(db DB) KYCRepository {
	return &kycRepo{db: db}
}

func (r *kycRepo) Create(ctx context.Context, record *models.KYCRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO kyc_records (id, user_id, business_name, gstin, pan, fssai, gst_certificate_key, pan_card_key, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`, record.ID, record.UserID, record.BusinessName, record.GSTIN, record.PAN, record.FSSAI, record.GSTCertificateKey, record.PANCardKey, record.Status)
	return err
}

func scanKYC(row pgx.Row) (*models.KYCRecord, error) {
	rec := &models.KYCRecord{}
	err := row.Scan(&rec.ID, &rec.UserID, &rec.BusinessName, &rec.GSTIN, &rec.PAN, &rec.FSSAI, &rec.GSTCertificateKey, &rec.PANCardKey, &rec.Status, &rec.RejectReason, &rec.ReviewedBy, &rec.ReviewedAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (r *kycRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.KYCRecord, error) {
	return scanKYC(r.db.QueryRow(ctx, `SELECT `+kycColumns+` FROM kyc_records WHERE id = $1`, id))
}

func (r *kycRepo) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*models.KYCRecord, error) {
	return scanKYC(r.db.QueryRow(ctx, `
		SELECT `+kycColumns+` FROM kyc_records
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID))
}

func (r *kycRepo) List(ctx context.Context, status *string, limit, offset int) ([]*models.KYCRecord, error) {
	query := `SELECT ` + kycColumns + ` FROM kyc_records`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.KYCRecord
	for rows.Next() {
		rec := &models.KYCRecord{}
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.BusinessName, &rec.GSTIN, &rec.PAN, &rec.FSSAI, &rec.GSTCertificateKey, &rec.PANCardKey, &rec.Status, &rec.RejectReason, &rec.ReviewedBy, &rec.ReviewedAt, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *kycRepo) Count(ctx context.Context, status *string) (int, error) {
	query := `SELECT COUNT(*) FROM kyc_records`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *kycRepo) Review(ctx context.Context, id uuid.UUID, status string, reason *string, reviewerID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE kyc_records
		SET status = $1, reject_reason = $2, reviewed_by = $3, reviewed_at = NOW(), updated_at = NOW()
		WHERE id = $4
	`, status, reason, reviewerID, id)
	return err
}
