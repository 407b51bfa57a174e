package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"dely/internal/common"
	"dely/internal/models"
	"dely/internal/services"
)

// KYCHandlers handles business-verification endpoints for customers
// and the back office.
type KYCHandlers struct {
	kycService services.KYCServiceInterface
}

func NewKYCHandlers(kycService services.KYCServiceInterface) *KYCHandlers {
	return &KYCHandlers{kycService: kycService}
}

// Submit handles POST /api/v1/kyc. Multipart submissions carry the GST
// certificate and PAN card files alongside the form fields; plain JSON
// submissions register the business without documents.
func (h *KYCHandlers) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorized(c)
	}

	var submission services.KYCSubmission
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		submission = services.KYCSubmission{
			BusinessName: c.FormValue("business_name"),
			GSTIN:        common.StringPtr(c.FormValue("gstin")),
			PAN:          common.StringPtr(c.FormValue("pan")),
			FSSAI:        common.StringPtr(c.FormValue("fssai")),
		}

		gstDoc, closeGST, err := formDocument(c, "gst_certificate")
		if err != nil {
			return common.SendClientError(c, "Invalid GST certificate upload")
		}
		defer closeGST()
		submission.GSTCertificate = gstDoc

		panDoc, closePAN, err := formDocument(c, "pan_card")
		if err != nil {
			return common.SendClientError(c, "Invalid PAN card upload")
		}
		defer closePAN()
		submission.PANCard = panDoc
	} else if err := c.Bind(&submission); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	record, err := h.kycService.Submit(ctx, userID, submission)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return common.SendCreated(c, record, "Verification request submitted")
}

// formDocument opens an optional multipart file field. A missing field
// is not an error; the returned closer is always safe to defer.
func formDocument(c echo.Context, field string) (*services.KYCDocument, func(), error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, func() {}, err
	}
	doc := &services.KYCDocument{
		Filename:    file.Filename,
		ContentType: file.Header.Get(echo.HeaderContentType),
		Size:        file.Size,
		Reader:      src,
	}
	return doc, func() { src.Close() }, nil
}

// Status handles GET /api/v1/kyc
func (h *KYCHandlers) Status(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorized(c)
	}

	view, err := h.kycService.StatusForUser(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to load verification status")
	}
	return common.SendSuccess(c, view, "")
}

// AdminList handles GET /admin/kyc
func (h *KYCHandlers) AdminList(c echo.Context) error {
	ctx := c.Request().Context()

	var status *string
	if raw := c.QueryParam("status"); raw != "" {
		status = &raw
	}

	page, limit, offset := common.ParsePagination(c)
	records, total, err := h.kycService.List(ctx, status, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to load verification requests")
	}
	if records == nil {
		records = []*models.KYCRecord{}
	}
	return common.SendSuccess(c, map[string]any{
		"records":    records,
		"pagination": common.Paginate(page, limit, total),
	}, "")
}

// AdminGet handles GET /admin/kyc/:id
func (h *KYCHandlers) AdminGet(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid verification id")
	}

	view, err := h.kycService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrKYCNotFound) {
			return common.SendNotFound(c, "Verification record")
		}
		return common.SendServerError(c, "Failed to load verification record")
	}
	return common.SendSuccess(c, view, "")
}

type kycReviewRequest struct {
	Approve bool    `json:"approve"`
	Reason  *string `json:"reason"`
}

// AdminReview handles PUT /admin/kyc/:id/review
func (h *KYCHandlers) AdminReview(c echo.Context) error {
	ctx := c.Request().Context()
	reviewerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid verification id")
	}

	var req kycReviewRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	record, err := h.kycService.Review(ctx, id, req.Approve, req.Reason, reviewerID)
	if err != nil {
		if errors.Is(err, services.ErrKYCNotFound) {
			return common.SendNotFound(c, "Verification record")
		}
		return common.SendClientError(c, err.Error())
	}
	return common.SendSuccess(c, record, "Verification reviewed")
}
