package taxation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifySupply(t *testing.T) {
	tests := []struct {
		name        string
		sellerState string
		buyerState  string
		want        SupplyType
	}{
		{"same state", "Uttar Pradesh", "Uttar Pradesh", SupplyIntrastate},
		{"case insensitive", "Uttar Pradesh", "uttar pradesh", SupplyIntrastate},
		{"surrounding whitespace", "Uttar Pradesh", "  Uttar Pradesh  ", SupplyIntrastate},
		{"different state", "Uttar Pradesh", "Maharashtra", SupplyInterstate},
		{"blank buyer state", "Uttar Pradesh", "", SupplyInterstate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySupply(tt.sellerState, tt.buyerState))
		})
	}
}

func TestRateTableResolve(t *testing.T) {
	table := DefaultRateTable()

	tests := []struct {
		name string
		hsn  string
		want int64
	}{
		{"food chapter lower bound", "07139090", 5},
		{"food chapter upper bound", "15179090", 5},
		{"below food range", "06031900", 18},
		{"above food range", "16010000", 18},
		{"general goods", "85171290", 18},
		{"two digit code", "09", 5},
		{"empty code", "", 18},
		{"single digit code", "7", 18},
		{"non numeric prefix", "AB123456", 18},
		{"whitespace only", "   ", 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Resolve(tt.hsn)
			assert.True(t, decimal.NewFromInt(tt.want).Equal(got), "Resolve(%q) = %s, want %d", tt.hsn, got, tt.want)
		})
	}
}

func TestRateTableCustomBands(t *testing.T) {
	table := NewRateTable([]RateBand{
		{From: 1, To: 5, Rate: decimal.NewFromInt(0)},
		{From: 50, To: 63, Rate: decimal.NewFromInt(12)},
	}, decimal.NewFromInt(28))

	assert.True(t, decimal.NewFromInt(0).Equal(table.Resolve("0201")))
	assert.True(t, decimal.NewFromInt(12).Equal(table.Resolve("520100")))
	assert.True(t, decimal.NewFromInt(28).Equal(table.Resolve("870300")))
	assert.True(t, decimal.NewFromInt(28).Equal(table.DefaultRate()))
}

func TestSplitTaxIntrastate(t *testing.T) {
	taxable := decimal.NewFromInt(200)
	rate := decimal.NewFromInt(5)

	tax := SplitTax(taxable, rate, SupplyIntrastate)

	assert.True(t, decimal.NewFromInt(5).Equal(tax.SGST), "SGST = %s", tax.SGST)
	assert.True(t, decimal.NewFromInt(5).Equal(tax.CGST), "CGST = %s", tax.CGST)
	assert.True(t, tax.IGST.IsZero())
	assert.True(t, tax.SGST.Equal(tax.CGST), "halves must be equal")
	assert.True(t, decimal.NewFromInt(10).Equal(tax.Total()))
}

func TestSplitTaxInterstate(t *testing.T) {
	taxable := decimal.NewFromInt(200)
	rate := decimal.NewFromInt(18)

	tax := SplitTax(taxable, rate, SupplyInterstate)

	assert.True(t, tax.SGST.IsZero())
	assert.True(t, tax.CGST.IsZero())
	assert.True(t, decimal.NewFromInt(36).Equal(tax.IGST), "IGST = %s", tax.IGST)
	assert.True(t, decimal.NewFromInt(36).Equal(tax.Total()))
}

func TestSplitTaxExactHalving(t *testing.T) {
	// An odd tax amount must still halve without losing a paisa.
	taxable := decimal.NewFromInt(100)
	rate := decimal.NewFromInt(5)

	tax := SplitTax(taxable, rate, SupplyIntrastate)

	assert.True(t, decimal.RequireFromString("2.5").Equal(tax.SGST))
	assert.True(t, decimal.RequireFromString("2.5").Equal(tax.CGST))
	assert.True(t, decimal.NewFromInt(5).Equal(tax.Total()))
}

func TestSplitTaxZeroAmount(t *testing.T) {
	tax := SplitTax(decimal.Zero, decimal.NewFromInt(18), SupplyInterstate)
	assert.True(t, tax.Total().IsZero())
}
