package invoice

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dely/internal/config"
	"dely/internal/models"
	"dely/internal/taxation"
)

// mrpEstimateFactor synthesizes an MRP from the selling price when the
// product row (and its real MRP) is gone. The derived value is marked
// estimated on the line item instead of being presented as real data.
var mrpEstimateFactor = decimal.RequireFromString("1.2")

// ProductResolver loads the product (with variants) behind an order
// line. A (nil, nil) return means the product was deleted; the
// assembler then falls back to the order-item snapshot.
type ProductResolver interface {
	ResolveProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

// Assembler turns an order and its line items into an invoice. It is
// stateless and safe for concurrent use; repeated calls over the same
// inputs produce identical output.
type Assembler struct {
	seller config.Seller
	rates  *taxation.RateTable
}

func NewAssembler(seller config.Seller, rates *taxation.RateTable) *Assembler {
	return &Assembler{seller: seller, rates: rates}
}

type taxBucketKey struct {
	taxType string
	rate    string
}

// Build assembles the invoice for an order. The user may be nil for
// guest or legacy orders, and any line's product may have been deleted;
// missing data is defaulted, never an error. The only error path is a
// failed product lookup.
func (a *Assembler) Build(ctx context.Context, order *models.Order, user *models.User, items []*models.OrderItem, resolver ProductResolver) (*Invoice, error) {
	seller := Party{
		Name:         a.seller.Name,
		AddressLine1: a.seller.AddressLine1,
		AddressLine2: a.seller.AddressLine2,
		City:         a.seller.City,
		State:        a.seller.State,
		Pincode:      a.seller.Pincode,
		GSTIN:        a.seller.GSTIN,
		Phone:        a.seller.Phone,
		PAN:          a.seller.PAN,
		FSSAI:        a.seller.FSSAI,
		FSSAILink:    a.seller.FSSAILink,
		Email:        a.seller.Email,
	}
	buyer := buildBuyer(order.DeliveryAddress, user)

	supplyType := taxation.ClassifySupply(seller.State, buyer.State)
	placeOfSupply := strings.ToUpper(buyer.State)
	if placeOfSupply == "" {
		placeOfSupply = strings.ToUpper(seller.State)
	}

	inv := &Invoice{
		Number:         generateInvoiceNumber(order),
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		ShipmentNumber: shipmentNumber(order),
		Date:           order.CreatedAt,
		PlaceOfSupply:  placeOfSupply,
		SupplyType:     supplyType,
		Seller:         seller,
		Buyer:          buyer,
		Subtotal:       decimal.Zero,
		TotalTax:       decimal.Zero,
		Savings:        decimal.Zero,
		Terms:          DefaultTerms,
		Notes:          DefaultNotes,
	}
	if order.Notes != nil && *order.Notes != "" {
		inv.Notes = *order.Notes
	}

	buckets := map[taxBucketKey]*TaxSummaryRow{}

	for _, item := range items {
		var product *models.Product
		if item.ProductID != nil {
			p, err := resolver.ResolveProduct(ctx, *item.ProductID)
			if err != nil {
				return nil, fmt.Errorf("resolve product for order item %s: %w", item.ID, err)
			}
			product = p
		}

		line := a.buildLine(item, product, supplyType)
		inv.Items = append(inv.Items, line)

		inv.Subtotal = inv.Subtotal.Add(line.TaxableAmount)
		inv.TotalTax = inv.TotalTax.Add(line.Tax.Total())
		inv.Savings = inv.Savings.Add(line.Discount)

		accumulateBuckets(buckets, line, supplyType)
	}

	inv.TaxSummary = sortedBuckets(buckets)

	inv.DeliveryCharge = order.DeliveryCharge
	grandRaw := inv.Subtotal.Add(inv.TotalTax).Add(inv.DeliveryCharge)
	// Banker's rounding to the whole rupee; round_off is signed.
	inv.GrandTotal = grandRaw.RoundBank(0)
	inv.RoundOff = inv.GrandTotal.Sub(grandRaw)

	if order.PaymentStatus == models.PaymentStatusPaid {
		inv.PaidAmount = inv.GrandTotal
		inv.Balance = decimal.Zero
	} else {
		inv.PaidAmount = decimal.Zero
		inv.Balance = inv.GrandTotal
	}

	return inv, nil
}

func (a *Assembler) buildLine(item *models.OrderItem, product *models.Product, supplyType taxation.SupplyType) LineItem {
	qty := decimal.NewFromInt(int64(item.Quantity))

	sellingPrice := item.Price
	if sellingPrice.IsZero() && product != nil {
		sellingPrice = product.SellingPrice
	}

	mrp := decimal.Zero
	mrpEstimated := false
	if product != nil && product.MRP.IsPositive() {
		mrp = product.MRP
	} else {
		mrp = sellingPrice.Mul(mrpEstimateFactor)
		mrpEstimated = true
	}

	unitDiscount := mrp.Sub(sellingPrice)
	if unitDiscount.IsNegative() {
		unitDiscount = decimal.Zero
	}
	discount := unitDiscount.Mul(qty)
	taxableAmount := sellingPrice.Mul(qty)

	lp := lineProduct(item, product)
	rate := a.rates.Resolve(lp.HSN)
	tax := taxation.SplitTax(taxableAmount, rate, supplyType)

	return LineItem{
		ID:            item.ID,
		Product:       lp,
		Quantity:      item.Quantity,
		MRP:           mrp,
		MRPEstimated:  mrpEstimated,
		UnitDiscount:  unitDiscount,
		Discount:      discount,
		SellingPrice:  sellingPrice,
		TaxableAmount: taxableAmount,
		Rate:          rate,
		Tax:           tax,
		Total:         taxableAmount.Add(tax.Total()),
	}
}

// lineProduct resolves the product block for a line, falling back to
// the order-item snapshot, the default HSN code, and the default unit
// description when the product row is gone.
func lineProduct(item *models.OrderItem, product *models.Product) LineProduct {
	if product == nil {
		name := item.ProductName
		if name == "" {
			name = "Product"
		}
		return LineProduct{Name: name, HSN: DefaultHSNCode, Variant: DefaultVariantName}
	}

	hsn := ""
	variant := ""
	if len(product.Variants) > 0 {
		first := product.Variants[0]
		if first.HSNCode != nil && *first.HSNCode != "" {
			hsn = *first.HSNCode
		}
		setPcs := ""
		if first.SetPcs != nil {
			setPcs = *first.SetPcs
		}
		weight := ""
		if first.Weight != nil {
			weight = *first.Weight
		}
		if setPcs != "" || weight != "" {
			if setPcs == "" {
				setPcs = product.Unit
			}
			if weight == "" {
				weight = "Set of 1"
			}
			variant = fmt.Sprintf("%s (%s)", setPcs, weight)
		}
	}
	if hsn == "" && product.HSNCode != nil && *product.HSNCode != "" {
		hsn = *product.HSNCode
	}
	if hsn == "" {
		hsn = DefaultHSNCode
	}
	if variant == "" {
		variant = product.Unit
		if variant == "" {
			variant = DefaultVariantName
		}
	}

	id := product.ID
	return LineProduct{ID: &id, Name: product.Name, HSN: hsn, Variant: variant}
}

func buildBuyer(addr models.DeliveryAddress, user *models.User) Party {
	buyer := Party{
		Name:         addr.Name,
		AddressLine1: addr.Line1(),
		AddressLine2: addr.Line2(),
		City:         addr.City,
		State:        addr.State,
		Pincode:      addr.Pincode,
		GSTIN:        addr.GSTIN,
		Phone:        addr.Phone,
	}
	if user != nil {
		if buyer.Name == "" {
			buyer.Name = user.Name
		}
		if buyer.GSTIN == "" && user.GSTNumber != nil {
			buyer.GSTIN = *user.GSTNumber
		}
		if buyer.Phone == "" && user.Phone != nil {
			buyer.Phone = *user.Phone
		}
	}
	return buyer
}

func accumulateBuckets(buckets map[taxBucketKey]*TaxSummaryRow, line LineItem, supplyType taxation.SupplyType) {
	add := func(taxType string, amount decimal.Decimal) {
		if !amount.IsPositive() {
			return
		}
		key := taxBucketKey{taxType: taxType, rate: line.Rate.String()}
		row, ok := buckets[key]
		if !ok {
			row = &TaxSummaryRow{TaxType: taxType, Rate: line.Rate}
			buckets[key] = row
		}
		row.TaxableAmount = row.TaxableAmount.Add(line.TaxableAmount)
		row.TaxAmount = row.TaxAmount.Add(amount)
	}

	if supplyType == taxation.SupplyIntrastate {
		add("SGST", line.Tax.SGST)
		add("CGST", line.Tax.CGST)
	} else {
		add("IGST", line.Tax.IGST)
	}
}

func sortedBuckets(buckets map[taxBucketKey]*TaxSummaryRow) []TaxSummaryRow {
	rows := make([]TaxSummaryRow, 0, len(buckets))
	for _, row := range buckets {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TaxType != rows[j].TaxType {
			return rows[i].TaxType < rows[j].TaxType
		}
		return rows[i].Rate.LessThan(rows[j].Rate)
	})
	return rows
}

// shipmentNumber is the order's tracking number when assigned, blank
// otherwise. No value is ever synthesized here so the invoice stays
// byte-identical across repeated requests.
func shipmentNumber(order *models.Order) string {
	if order.TrackingNumber != nil {
		return *order.TrackingNumber
	}
	return ""
}

// generateInvoiceNumber derives the human-readable invoice number from
// the order: the year of the order date plus either the tail of a
// hyphenated order number or the first 8 characters of the order id.
func generateInvoiceNumber(order *models.Order) string {
	suffix := ""
	if strings.Contains(order.OrderNumber, "-") {
		parts := strings.Split(order.OrderNumber, "-")
		suffix = parts[len(parts)-1]
	} else {
		suffix = strings.ToUpper(order.ID.String()[:8])
	}
	return fmt.Sprintf("INV-%d-%s", order.CreatedAt.Year(), suffix)
}
