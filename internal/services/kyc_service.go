package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"dely/internal/common"
	"dely/internal/config"
	"dely/internal/models"
	"dely/internal/repositories"
)

var (
	ErrKYCPending  = errors.New("a verification request is already pending")
	ErrKYCVerified = errors.New("business is already verified")
	ErrKYCNotFound = errors.New("verification record not found")
)

const kycBucket = "kyc-documents"
const kycDocExpiry = time.Hour

// KYCDocument is an uploaded verification document.
type KYCDocument struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// KYCSubmission is the business-verification request payload. The
// document fields only arrive via multipart submissions.
type KYCSubmission struct {
	BusinessName string  `json:"business_name"`
	GSTIN        *string `json:"gstin"`
	PAN          *string `json:"pan"`
	FSSAI        *string `json:"fssai"`

	GSTCertificate *KYCDocument `json:"-"`
	PANCard        *KYCDocument `json:"-"`
}

// KYCView is a record plus presigned document URLs, minted on read.
type KYCView struct {
	*models.KYCRecord
	GSTCertificateURL *string `json:"gst_certificate_url,omitempty"`
	PANCardURL        *string `json:"pan_card_url,omitempty"`
}

type KYCServiceInterface interface {
	Submit(ctx context.Context, userID uuid.UUID, submission KYCSubmission) (*models.KYCRecord, error)
	StatusForUser(ctx context.Context, userID uuid.UUID) (*KYCView, error)

	// Admin operations.
	List(ctx context.Context, status *string, limit, offset int) ([]*models.KYCRecord, int, error)
	Get(ctx context.Context, id uuid.UUID) (*KYCView, error)
	Review(ctx context.Context, id uuid.UUID, approve bool, reason *string, reviewerID uuid.UUID) (*models.KYCRecord, error)
}

type kycService struct {
	kycRepo      repositories.KYCRepository
	minioService MinioService
}

func NewKYCService(kycRepo repositories.KYCRepository, minioService MinioService) KYCServiceInterface {
	return &kycService{kycRepo: kycRepo, minioService: minioService}
}

func (s *kycService) Submit(ctx context.Context, userID uuid.UUID, submission KYCSubmission) (*models.KYCRecord, error) {
	if err := common.ValidateRequiredString(submission.BusinessName, "business name"); err != nil {
		return nil, err
	}
	if submission.GSTIN != nil {
		if err := common.ValidateGSTIN(*submission.GSTIN, "GSTIN"); err != nil {
			return nil, err
		}
	}

	existing, err := s.kycRepo.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.KYCStatusPending:
			return nil, ErrKYCPending
		case models.KYCStatusVerified:
			return nil, ErrKYCVerified
		}
	}

	record := &models.KYCRecord{
		ID:           uuid.New(),
		UserID:       userID,
		BusinessName: submission.BusinessName,
		GSTIN:        submission.GSTIN,
		PAN:          submission.PAN,
		FSSAI:        submission.FSSAI,
		Status:       models.KYCStatusPending,
	}

	var stored []string
	if submission.GSTCertificate != nil || submission.PANCard != nil {
		if err := s.minioService.EnsureBucketExists(ctx, kycBucket); err != nil {
			return nil, fmt.Errorf("prepare document bucket: %w", err)
		}
	}
	if submission.GSTCertificate != nil {
		key, err := s.storeDocument(ctx, record, "gst-certificate", submission.GSTCertificate)
		if err != nil {
			return nil, err
		}
		record.GSTCertificateKey = &key
		stored = append(stored, key)
	}
	if submission.PANCard != nil {
		key, err := s.storeDocument(ctx, record, "pan-card", submission.PANCard)
		if err != nil {
			s.removeDocuments(ctx, stored)
			return nil, err
		}
		record.PANCardKey = &key
		stored = append(stored, key)
	}

	if err := s.kycRepo.Create(ctx, record); err != nil {
		s.removeDocuments(ctx, stored)
		return nil, err
	}

	config.GetLogger().WithField("user_id", userID).WithField("documents", len(stored)).Info("kyc submitted")
	return record, nil
}

// storeDocument writes one verification document under
// {userID}/{recordID}/{kind}{ext} and returns the object key.
func (s *kycService) storeDocument(ctx context.Context, record *models.KYCRecord, kind string, doc *KYCDocument) (string, error) {
	ext := strings.ToLower(filepath.Ext(doc.Filename))
	key := fmt.Sprintf("%s/%s/%s%s", record.UserID, record.ID, kind, ext)

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.minioService.UploadObject(ctx, kycBucket, key, contentType, doc.Reader, doc.Size); err != nil {
		return "", fmt.Errorf("store %s: %w", kind, err)
	}
	return key, nil
}

// removeDocuments deletes objects written earlier in a submission that
// did not go through.
func (s *kycService) removeDocuments(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.minioService.DeleteObject(ctx, kycBucket, key); err != nil {
			config.GetLogger().WithError(err).WithField("object", key).Warn("kyc document cleanup failed")
		}
	}
}

func (s *kycService) view(ctx context.Context, record *models.KYCRecord) *KYCView {
	view := &KYCView{KYCRecord: record}
	if s.minioService == nil {
		return view
	}
	if record.GSTCertificateKey != nil {
		if url, err := s.minioService.GetPresignedURL(ctx, kycBucket, *record.GSTCertificateKey, kycDocExpiry); err == nil {
			view.GSTCertificateURL = &url
		}
	}
	if record.PANCardKey != nil {
		if url, err := s.minioService.GetPresignedURL(ctx, kycBucket, *record.PANCardKey, kycDocExpiry); err == nil {
			view.PANCardURL = &url
		}
	}
	return view
}

func (s *kycService) StatusForUser(ctx context.Context, userID uuid.UUID) (*KYCView, error) {
	record, err := s.kycRepo.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		// Users with no submission read as not verified rather than 404.
		return &KYCView{KYCRecord: &models.KYCRecord{UserID: userID, Status: models.KYCStatusNotVerified}}, nil
	}
	return s.view(ctx, record), nil
}

func (s *kycService) List(ctx context.Context, status *string, limit, offset int) ([]*models.KYCRecord, int, error) {
	records, err := s.kycRepo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.kycRepo.Count(ctx, status)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *kycService) Get(ctx context.Context, id uuid.UUID) (*KYCView, error) {
	record, err := s.kycRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrKYCNotFound
	}
	return s.view(ctx, record), nil
}

func (s *kycService) Review(ctx context.Context, id uuid.UUID, approve bool, reason *string, reviewerID uuid.UUID) (*models.KYCRecord, error) {
	record, err := s.kycRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrKYCNotFound
	}

	status := models.KYCStatusVerified
	if !approve {
		status = models.KYCStatusRejected
		if reason == nil || *reason == "" {
			return nil, errors.New("a reject reason is required")
		}
	} else {
		reason = nil
	}

	if err := s.kycRepo.Review(ctx, id, status, reason, reviewerID); err != nil {
		return nil, err
	}
	record.Status = status
	record.RejectReason = reason
	record.ReviewedBy = &reviewerID

	return record, nil
}
