package taxation

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SupplyType classifies a sale under GST as intrastate or interstate.
type SupplyType string

const (
	SupplyIntrastate SupplyType = "INTRASTATE"
	SupplyInterstate SupplyType = "INTERSTATE"
)

// ClassifySupply compares seller and buyer states case-insensitively.
// A blank buyer state never equals the seller state and therefore
// classifies as interstate; callers relying on a different fallback
// must handle the blank case themselves.
func ClassifySupply(sellerState, buyerState string) SupplyType {
	if strings.EqualFold(strings.TrimSpace(sellerState), strings.TrimSpace(buyerState)) {
		return SupplyIntrastate
	}
	return SupplyInterstate
}

// RateBand maps a range of two-digit HSN chapter prefixes (inclusive)
// to a GST rate percentage.
type RateBand struct {
	From int             `mapstructure:"from" json:"from"`
	To   int             `mapstructure:"to" json:"to"`
	Rate decimal.Decimal `mapstructure:"rate" json:"rate"`
}

// RateTable resolves GST rates from HSN codes. The schedule is data,
// not code, so deployments can swap in a new rate schedule without a
// release.
type RateTable struct {
	bands       []RateBand
	defaultRate decimal.Decimal
}

// NewRateTable builds a rate table from explicit bands and a default
// rate applied when no band matches or the HSN code is unusable.
func NewRateTable(bands []RateBand, defaultRate decimal.Decimal) *RateTable {
	return &RateTable{bands: bands, defaultRate: defaultRate}
}

// DefaultRateTable returns the stock GST schedule: HSN chapters 07-15
// (food items) at 5%, everything else at the general 18% rate.
func DefaultRateTable() *RateTable {
	return NewRateTable(
		[]RateBand{
			{From: 7, To: 15, Rate: decimal.NewFromInt(5)},
		},
		decimal.NewFromInt(18),
	)
}

// DefaultRate returns the rate used when no band matches.
func (t *RateTable) DefaultRate() decimal.Decimal {
	return t.defaultRate
}

// Resolve returns the GST rate percentage for an HSN code. A missing,
// short, or non-numeric prefix falls back to the default rate.
func (t *RateTable) Resolve(hsnCode string) decimal.Decimal {
	hsnCode = strings.TrimSpace(hsnCode)
	if len(hsnCode) < 2 {
		return t.defaultRate
	}
	prefix, err := strconv.Atoi(hsnCode[:2])
	if err != nil {
		return t.defaultRate
	}
	for _, band := range t.bands {
		if prefix >= band.From && prefix <= band.To {
			return band.Rate
		}
	}
	return t.defaultRate
}

// LineTax is the per-line GST split. Exactly one of SGST+CGST or IGST
// carries the tax depending on supply type; the other components are
// zero so callers can sum all three unconditionally.
type LineTax struct {
	SGST decimal.Decimal
	CGST decimal.Decimal
	IGST decimal.Decimal
}

// Total returns SGST + CGST + IGST.
func (lt LineTax) Total() decimal.Decimal {
	return lt.SGST.Add(lt.CGST).Add(lt.IGST)
}

var hundred = decimal.NewFromInt(100)

// SplitTax computes tax on a taxable amount at the given rate and
// splits it per the supply type: intrastate halves the tax into SGST
// and CGST, interstate assigns the full amount to IGST.
func SplitTax(taxableAmount, rate decimal.Decimal, supplyType SupplyType) LineTax {
	taxAmount := taxableAmount.Mul(rate).Div(hundred)

	if supplyType == SupplyIntrastate {
		half := taxAmount.Div(decimal.NewFromInt(2))
		return LineTax{SGST: half, CGST: half, IGST: decimal.Zero}
	}
	return LineTax{SGST: decimal.Zero, CGST: decimal.Zero, IGST: taxAmount}
}
