package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"dely/internal/caching"
	"dely/internal/config"
	"dely/internal/invoice"
	"dely/internal/models"
	"dely/internal/repositories"
)

const (
	invoiceCacheTTL    = 15 * time.Minute
	invoicePDFExpiry   = 24 * time.Hour
	invoiceBucket      = "invoices"
	invoiceContentType = "application/pdf"
)

type InvoiceServiceInterface interface {
	// BuildInvoice computes the invoice for an order. When userID is
	// non-nil the order must belong to that user.
	BuildInvoice(ctx context.Context, identifier string, userID *uuid.UUID) (*invoice.Invoice, error)
	// InvoiceJSON returns the serialized invoice, from cache when warm.
	InvoiceJSON(ctx context.Context, identifier string, userID *uuid.UUID) ([]byte, error)
	// InvoicePDFURL renders the invoice to PDF, stores it, and returns
	// a presigned download URL.
	InvoicePDFURL(ctx context.Context, identifier string) (string, error)
}

type invoiceService struct {
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	productRepo   repositories.ProductRepository
	userRepo      repositories.UserRepository
	assembler     *invoice.Assembler
	cache         caching.CacheService
	minioService  MinioService
	log           *logrus.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	assembler *invoice.Assembler,
	cache caching.CacheService,
	minioService MinioService,
) InvoiceServiceInterface {
	return &invoiceService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		assembler:     assembler,
		cache:         cache,
		minioService:  minioService,
		log:           config.GetLogger(),
	}
}

// ResolveProduct loads the product with its variants attached, or
// (nil, nil) when the row is gone and only the order-item snapshot
// survives.
func (s *invoiceService) ResolveProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil || product == nil {
		return product, err
	}
	variants, err := s.productRepo.GetVariants(ctx, productID)
	if err != nil {
		return nil, err
	}
	product.Variants = variants
	return product, nil
}

func (s *invoiceService) BuildInvoice(ctx context.Context, identifier string, userID *uuid.UUID) (*invoice.Invoice, error) {
	order, err := s.orderRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if userID != nil && (order.UserID == nil || *order.UserID != *userID) {
		return nil, ErrOrderNotFound
	}

	var user *models.User
	if order.UserID != nil {
		user, err = s.userRepo.GetByID(ctx, *order.UserID)
		if err != nil {
			return nil, err
		}
	}

	items, err := s.orderItemRepo.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	inv, err := s.assembler.Build(ctx, order, user, items, s)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"invoice_number": inv.Number,
		"order_number":   inv.OrderNumber,
		"supply_type":    inv.SupplyType,
	}).Debug("invoice assembled")

	return inv, nil
}

func (s *invoiceService) InvoiceJSON(ctx context.Context, identifier string, userID *uuid.UUID) ([]byte, error) {
	// Cache only admin builds keyed by order id; a user-scoped miss
	// must not serve another user's cached copy.
	order, err := s.orderRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if userID == nil && s.cache != nil {
		if cached, err := s.cache.GetInvoiceJSON(ctx, order.ID); err == nil && cached != nil {
			return cached, nil
		}
	}

	inv, err := s.BuildInvoice(ctx, order.ID.String(), userID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(inv)
	if err != nil {
		return nil, err
	}

	if userID == nil && s.cache != nil {
		if err := s.cache.SetInvoiceJSON(ctx, order.ID, payload, invoiceCacheTTL); err != nil {
			s.log.WithError(err).Warn("invoice cache set failed")
		}
	}
	return payload, nil
}

func (s *invoiceService) InvoicePDFURL(ctx context.Context, identifier string) (string, error) {
	inv, err := s.BuildInvoice(ctx, identifier, nil)
	if err != nil {
		return "", err
	}

	pdfBytes, err := renderInvoicePDF(inv)
	if err != nil {
		return "", fmt.Errorf("render invoice pdf: %w", err)
	}

	objectName := fmt.Sprintf("%s/%s.pdf", inv.Date.Format("2006"), inv.Number)
	if err := s.minioService.EnsureBucketExists(ctx, invoiceBucket); err != nil {
		return "", err
	}
	if err := s.minioService.UploadObject(ctx, invoiceBucket, objectName, invoiceContentType, bytes.NewReader(pdfBytes), int64(len(pdfBytes))); err != nil {
		return "", fmt.Errorf("store invoice pdf: %w", err)
	}

	return s.minioService.GetPresignedURL(ctx, invoiceBucket, objectName, invoicePDFExpiry)
}

func rupees(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// renderInvoicePDF lays out a single-page A4 tax invoice.
func renderInvoicePDF(inv *invoice.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 15.0
	marginY := 15.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.Cell(0, 10, "TAX INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, inv.Seller.Name)
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 5, inv.Seller.AddressLine1)
	pdf.Ln(5)
	if inv.Seller.AddressLine2 != "" {
		pdf.Cell(0, 5, inv.Seller.AddressLine2)
		pdf.Ln(5)
	}
	pdf.Cell(0, 5, fmt.Sprintf("%s, %s - %s", inv.Seller.City, inv.Seller.State, inv.Seller.Pincode))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("GSTIN: %s  PAN: %s", inv.Seller.GSTIN, inv.Seller.PAN))
	pdf.Ln(5)
	if inv.Seller.FSSAI != "" {
		pdf.Cell(0, 5, fmt.Sprintf("FSSAI: %s", inv.Seller.FSSAI))
		pdf.Ln(5)
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("Invoice No: %s", inv.Number))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Invoice Date: %s", inv.Date.Format("02-Jan-2006")))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Order No: %s", inv.OrderNumber))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Place of Supply: %s (%s)", inv.PlaceOfSupply, inv.SupplyType))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "BILL TO:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	buyerName := inv.Buyer.Name
	if buyerName == "" {
		buyerName = "Customer"
	}
	pdf.Cell(0, 5, buyerName)
	pdf.Ln(5)
	if inv.Buyer.AddressLine1 != "" {
		pdf.Cell(0, 5, inv.Buyer.AddressLine1)
		pdf.Ln(5)
	}
	if inv.Buyer.GSTIN != "" {
		pdf.Cell(0, 5, fmt.Sprintf("GSTIN: %s", inv.Buyer.GSTIN))
		pdf.Ln(5)
	}
	pdf.Ln(3)

	headers := []string{"Item", "HSN", "Qty", "Rate", "Taxable", "Tax", "Total"}
	colWidths := []float64{60, 18, 12, 22, 24, 20, 24}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 7, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(7)

	pdf.SetFont("Arial", "", 8)
	pdf.SetFillColor(255, 255, 255)
	for _, line := range inv.Items {
		pdf.CellFormat(colWidths[0], 6, line.Product.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 6, line.Product.HSN, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 6, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 6, rupees(line.SellingPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 6, rupees(line.TaxableAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[5], 6, rupees(line.Tax.Total()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[6], 6, rupees(line.Total), "1", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.Cell(0, 6, "TAX SUMMARY")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 8)
	for _, row := range inv.TaxSummary {
		pdf.Cell(0, 5, fmt.Sprintf("%s @ %s%% on %s = %s",
			row.TaxType, row.Rate.String(), rupees(row.TaxableAmount), rupees(row.TaxAmount)))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 9)
	totals := []struct {
		label string
		value decimal.Decimal
	}{
		{"Subtotal", inv.Subtotal},
		{"Delivery Charge", inv.DeliveryCharge},
		{"Total Tax", inv.TotalTax},
		{"Round Off", inv.RoundOff},
	}
	for _, t := range totals {
		pdf.Cell(120, 5, "")
		pdf.Cell(30, 5, t.label)
		pdf.CellFormat(30, 5, rupees(t.value), "", 0, "R", false, 0, "")
		pdf.Ln(5)
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(120, 6, "")
	pdf.Cell(30, 6, "Grand Total")
	pdf.CellFormat(30, 6, rupees(inv.GrandTotal), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "I", 7)
	pdf.MultiCell(0, 4, inv.Terms, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
