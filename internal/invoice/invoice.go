package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dely/internal/taxation"
)

// Fallbacks applied when an order line's product row no longer exists.
const (
	DefaultHSNCode     = "07139090"
	DefaultVariantName = "EACH (Set of 1)"
)

// Terms printed on every invoice.
const DefaultTerms = "This transaction/sales is subject to TDS U/s 194-O hence TDS U/s 194Q is not applicable. This is a computer-generated invoice. For any issues, please contact Customer Care team."

// DefaultNotes used when the order carries none.
const DefaultNotes = "Thanks for doing business with us!"

// Party is one side of the invoice. Seller-only fields (PAN, FSSAI,
// Email) stay blank on the buyer block.
type Party struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Pincode      string
	GSTIN        string
	Phone        string
	PAN          string
	FSSAI        string
	FSSAILink    string
	Email        string
}

// LineProduct describes what was sold on a line. ID is nil when the
// product row was deleted after purchase and only the order-item
// snapshot survives.
type LineProduct struct {
	ID      *uuid.UUID
	Name    string
	HSN     string
	Variant string
}

// LineItem is one invoice line. Totals on the line are exact:
// Total == TaxableAmount + Tax.SGST + Tax.CGST + Tax.IGST with no
// line-level rounding; only the invoice grand total rounds.
type LineItem struct {
	ID            uuid.UUID
	Product       LineProduct
	Quantity      int
	MRP           decimal.Decimal
	MRPEstimated  bool
	UnitDiscount  decimal.Decimal
	Discount      decimal.Decimal
	SellingPrice  decimal.Decimal
	TaxableAmount decimal.Decimal
	Rate          decimal.Decimal
	Tax           taxation.LineTax
	Total         decimal.Decimal
}

// TaxSummaryRow is one row of the invoice's tax breakdown table. Lines
// sharing a tax type and rate collapse into a single row.
type TaxSummaryRow struct {
	TaxType       string
	TaxableAmount decimal.Decimal
	Rate          decimal.Decimal
	TaxAmount     decimal.Decimal
}

// Invoice is the computed, non-persisted invoice record. It is rebuilt
// on every request; identity derives from the order number and dates.
type Invoice struct {
	Number         string
	OrderID        uuid.UUID
	OrderNumber    string
	ShipmentNumber string
	Date           time.Time
	PlaceOfSupply  string
	SupplyType     taxation.SupplyType
	Seller         Party
	Buyer          Party
	Items          []LineItem
	TaxSummary     []TaxSummaryRow
	Subtotal       decimal.Decimal
	DeliveryCharge decimal.Decimal
	TotalTax       decimal.Decimal
	RoundOff       decimal.Decimal
	GrandTotal     decimal.Decimal
	PaidAmount     decimal.Decimal
	Balance        decimal.Decimal
	Savings        decimal.Decimal
	Terms          string
	Notes          string
}
