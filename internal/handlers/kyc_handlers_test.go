package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dely/internal/common"
	"dely/internal/models"
	"dely/internal/services"
)

type MockKYCService struct {
	mock.Mock
}

func (m *MockKYCService) Submit(ctx context.Context, userID uuid.UUID, submission services.KYCSubmission) (*models.KYCRecord, error) {
	args := m.Called(ctx, userID, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCRecord), args.Error(1)
}

func (m *MockKYCService) StatusForUser(ctx context.Context, userID uuid.UUID) (*services.KYCView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.KYCView), args.Error(1)
}

func (m *MockKYCService) List(ctx context.Context, status *string, limit, offset int) ([]*models.KYCRecord, int, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.KYCRecord), args.Int(1), args.Error(2)
}

func (m *MockKYCService) Get(ctx context.Context, id uuid.UUID) (*services.KYCView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.KYCView), args.Error(1)
}

func (m *MockKYCService) Review(ctx context.Context, id uuid.UUID, approve bool, reason *string, reviewerID uuid.UUID) (*models.KYCRecord, error) {
	args := m.Called(ctx, id, approve, reason, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCRecord), args.Error(1)
}

func newMultipartKYCContext(t *testing.T, userID uuid.UUID, fields map[string]string, files map[string][]byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for name, payload := range files {
		part, err := w.CreateFormFile(name, name+".pdf")
		require.NoError(t, err)
		_, err = part.Write(payload)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/kyc", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req = req.WithContext(common.WithUserID(req.Context(), userID))

	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestKYCSubmit_MultipartCarriesDocuments(t *testing.T) {
	svc := new(MockKYCService)
	h := NewKYCHandlers(svc)
	userID := uuid.New()

	// The document reader is only open for the duration of the request,
	// so drain it inside the service call.
	var submitted services.KYCSubmission
	var payload []byte
	svc.On("Submit", mock.Anything, userID, mock.Anything).
		Run(func(args mock.Arguments) {
			submitted = args.Get(2).(services.KYCSubmission)
			if submitted.GSTCertificate != nil {
				var err error
				payload, err = io.ReadAll(submitted.GSTCertificate.Reader)
				assert.NoError(t, err)
			}
		}).
		Return(&models.KYCRecord{ID: uuid.New(), UserID: userID, Status: models.KYCStatusPending}, nil)

	c, rec := newMultipartKYCContext(t, userID,
		map[string]string{
			"business_name": "Sharma Kirana Store",
			"gstin":         "09AAHCG7552R1ZP",
		},
		map[string][]byte{"gst_certificate": []byte("%PDF-1.4 gst")},
	)
	assert.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "Sharma Kirana Store", submitted.BusinessName)
	if assert.NotNil(t, submitted.GSTIN) {
		assert.Equal(t, "09AAHCG7552R1ZP", *submitted.GSTIN)
	}
	if assert.NotNil(t, submitted.GSTCertificate) {
		assert.Equal(t, "gst_certificate.pdf", submitted.GSTCertificate.Filename)
		assert.EqualValues(t, len("%PDF-1.4 gst"), submitted.GSTCertificate.Size)
		assert.Equal(t, "%PDF-1.4 gst", string(payload))
	}
	assert.Nil(t, submitted.PANCard)
}

func TestKYCSubmit_JSONWithoutDocuments(t *testing.T) {
	svc := new(MockKYCService)
	h := NewKYCHandlers(svc)
	userID := uuid.New()

	var submitted services.KYCSubmission
	svc.On("Submit", mock.Anything, userID, mock.Anything).
		Run(func(args mock.Arguments) {
			submitted = args.Get(2).(services.KYCSubmission)
		}).
		Return(&models.KYCRecord{ID: uuid.New(), UserID: userID, Status: models.KYCStatusPending}, nil)

	c, rec := newAuthedContext(t, http.MethodPost, "/api/v1/kyc", `{"business_name":"Gupta Traders"}`, userID)
	assert.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Gupta Traders", submitted.BusinessName)
	assert.Nil(t, submitted.GSTCertificate)
	assert.Nil(t, submitted.PANCard)
}
