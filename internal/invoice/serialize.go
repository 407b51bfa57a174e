package invoice

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// The wire format below duplicates every multiword field in snake_case
// and camelCase. Two client generations parse this payload with
// different naming conventions; the duplication lives here, at the
// serialization boundary, and nowhere in the domain types.

func num(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func (p Party) toJSON(seller bool) map[string]any {
	m := map[string]any{
		"name":          p.Name,
		"address_line1": p.AddressLine1,
		"address_line2": p.AddressLine2,
		"address":       joinAddress(p.AddressLine1, p.AddressLine2),
		"city":          p.City,
		"state":         p.State,
		"pincode":       p.Pincode,
		"gstin":         p.GSTIN,
		"gst_number":    p.GSTIN,
		"phone":         p.Phone,
	}
	if seller {
		m["company_name"] = p.Name
		m["pan"] = p.PAN
		m["fssai"] = p.FSSAI
		m["fssai_link"] = p.FSSAILink
		m["email"] = p.Email
	}
	return m
}

func joinAddress(line1, line2 string) string {
	if line1 == "" {
		return line2
	}
	if line2 == "" {
		return line1
	}
	return line1 + ", " + line2
}

// MarshalJSON emits the line item with legacy aliases for every
// monetary field.
func (li LineItem) MarshalJSON() ([]byte, error) {
	product := map[string]any{
		"id":       nil,
		"name":     li.Product.Name,
		"hsn":      li.Product.HSN,
		"hsn_code": li.Product.HSN,
		"hsnCode":  li.Product.HSN,
		"variant":  li.Product.Variant,
	}
	if li.Product.ID != nil {
		product["id"] = li.Product.ID.String()
	}

	m := map[string]any{
		"id":       li.ID.String(),
		"product":  product,
		"quantity": li.Quantity,
		"qty":      li.Quantity,

		"original_rate":  num(li.MRP),
		"original_price": num(li.MRP),
		"originalPrice":  num(li.MRP),
		"mrp":            num(li.MRP),
		"mrp_estimated":  li.MRPEstimated,
		"mrpEstimated":   li.MRPEstimated,

		"unit_discount": num(li.UnitDiscount),
		"unitDiscount":  num(li.UnitDiscount),
		"discount":      num(li.Discount),

		"rate":           num(li.SellingPrice),
		"selling_price":  num(li.SellingPrice),
		"sellingPrice":   num(li.SellingPrice),
		"price":          num(li.SellingPrice),
		"taxable_amount": num(li.TaxableAmount),
		"taxableAmount":  num(li.TaxableAmount),

		"sgst": num(li.Tax.SGST),
		"cgst": num(li.Tax.CGST),
		"tax_details": map[string]any{
			"sgst": num(li.Tax.SGST),
			"cgst": num(li.Tax.CGST),
			"igst": num(li.Tax.IGST),
			"rate": num(li.Rate),
		},
		"total_amount": num(li.Total),
		"totalAmount":  num(li.Total),
	}
	return json.Marshal(m)
}

// MarshalJSON emits the tax summary row.
func (r TaxSummaryRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"tax_type":       r.TaxType,
		"name":           r.TaxType,
		"taxable_amount": num(r.TaxableAmount),
		"taxableAmount":  num(r.TaxableAmount),
		"rate":           num(r.Rate),
		"tax_amount":     num(r.TaxAmount),
		"taxAmount":      num(r.TaxAmount),
	})
}

// MarshalJSON emits the full invoice payload served identically to the
// customer app and the admin panel.
func (inv *Invoice) MarshalJSON() ([]byte, error) {
	items := inv.Items
	if items == nil {
		items = []LineItem{}
	}
	taxSummary := inv.TaxSummary
	if taxSummary == nil {
		taxSummary = []TaxSummaryRow{}
	}

	date := inv.Date.UTC().Format(time.RFC3339)
	m := map[string]any{
		"invoice_number":   inv.Number,
		"invoiceNumber":    inv.Number,
		"reference_number": inv.Number,
		"referenceNumber":  inv.Number,
		"order_id":         inv.OrderID.String(),
		"orderId":          inv.OrderID.String(),
		"order_number":     inv.OrderNumber,
		"orderNumber":      inv.OrderNumber,
		"shipment_number":  inv.ShipmentNumber,
		"shipmentNumber":   inv.ShipmentNumber,
		"invoice_date":     date,
		"invoiceDate":      date,
		"created_at":       date,
		"createdAt":        date,
		"time":             inv.Date.Format("03:04 PM"),
		"place_of_supply":  inv.PlaceOfSupply,
		"placeOfSupply":    inv.PlaceOfSupply,
		"supply_type":      string(inv.SupplyType),
		"supplyType":       string(inv.SupplyType),
		"page_number":      "1/1",

		"seller": inv.Seller.toJSON(true),
		"buyer":  inv.Buyer.toJSON(false),
		"items":  items,

		"tax_details": taxSummary,

		"subtotal":        num(inv.Subtotal),
		"taxable_amount":  num(inv.Subtotal),
		"delivery_charge": num(inv.DeliveryCharge),
		"deliveryCharge":  num(inv.DeliveryCharge),
		"total_tax":       num(inv.TotalTax),
		"totalTax":        num(inv.TotalTax),
		"round_off":       num(inv.RoundOff),
		"roundOff":        num(inv.RoundOff),
		"total":           num(inv.GrandTotal),
		"grand_total":     num(inv.GrandTotal),
		"grandTotal":      num(inv.GrandTotal),
		"paid_amount":     num(inv.PaidAmount),
		"paidAmount":      num(inv.PaidAmount),
		"balance":         num(inv.Balance),
		"savings":         num(inv.Savings),

		"tax_payable_reverse_charge": false,
		"terms":                      inv.Terms,
		"notes":                      inv.Notes,
	}
	return json.Marshal(m)
}
