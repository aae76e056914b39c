package economics

import (
	"math"
	"testing"

	vatdomain "github.com/luxfolio/dealdesk/internal/vat/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubResolver struct {
	rate    float64
	known   bool
	mapping vatdomain.Mapping
}

func (s stubResolver) Resolve(theme string) (vatdomain.Resolution, bool) {
	if !s.known {
		return vatdomain.Resolution{}, false
	}
	return vatdomain.Resolution{Rate: s.rate, Mapping: s.mapping}, true
}

func (s stubResolver) Validate(theme string, exVAT, incVAT float64) vatdomain.ValidationResult {
	return vatdomain.ValidationResult{}
}

func (s stubResolver) Mappings() []vatdomain.Mapping { return nil }

func TestCompute_StandardRate(t *testing.T) {
	calc := NewCalculator(stubResolver{rate: 20, known: true}, zap.NewNop())

	out := calc.Compute(Inputs{
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
		BrandingTheme:    "standard-vat",
	})

	assert.InDelta(t, 1000.00, out.SaleAmountExVAT, 0.001)
	assert.InDelta(t, 200.00, out.VATAmount, 0.001)
	assert.InDelta(t, 500.00, out.GrossMargin, 0.001)
	assert.InDelta(t, 500.00, out.CommissionableMargin, 0.001)
	assert.InDelta(t, 50.00, out.GrossMarginPercent, 0.001)
	assert.False(t, out.VATAssumed)
	assert.Empty(t, out.Warnings)
}

func TestCompute_ZeroRatedExport(t *testing.T) {
	calc := NewCalculator(stubResolver{rate: 0, known: true}, zap.NewNop())

	out := calc.Compute(Inputs{
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
		BrandingTheme:    "export-zero",
	})

	// Zero-rated: ex-VAT equals the headline price and no VAT is carved out.
	assert.InDelta(t, 1200.00, out.SaleAmountExVAT, 0.001)
	assert.InDelta(t, 0.00, out.VATAmount, 0.001)
	assert.InDelta(t, 700.00, out.GrossMargin, 0.001)
}

func TestCompute_GrossMarginExcludesCosts(t *testing.T) {
	calc := NewCalculator(stubResolver{rate: 20, known: true}, zap.NewNop())

	out := calc.Compute(Inputs{
		SaleAmountIncVAT:     1200,
		BuyPrice:             500,
		ShippingCost:         30,
		CardFees:             20,
		DirectCosts:          10,
		IntroducerCommission: 40,
	})

	// Gross margin is ex-VAT minus buy price only; the deductions land in
	// the commissionable margin.
	assert.InDelta(t, 500.00, out.GrossMargin, 0.001)
	assert.InDelta(t, 400.00, out.CommissionableMargin, 0.001)
}

func TestCompute_UnknownThemeAssumes20AndFlags(t *testing.T) {
	calc := NewCalculator(stubResolver{known: false}, zap.NewNop())

	out := calc.Compute(Inputs{
		SaleAmountIncVAT: 1200,
		BuyPrice:         500,
		BrandingTheme:    "mystery",
	})

	assert.True(t, out.VATAssumed)
	assert.NotEmpty(t, out.Warnings)
	assert.InDelta(t, 1000.00, out.SaleAmountExVAT, 0.001)
}

func TestCompute_RoundsEachStep(t *testing.T) {
	calc := NewCalculator(stubResolver{rate: 20, known: true}, zap.NewNop())

	out := calc.Compute(Inputs{
		SaleAmountIncVAT: 999.99,
		BuyPrice:         333.33,
	})

	// 999.99 / 1.2 = 833.325 -> 833.33 (rounded before the next step)
	assert.InDelta(t, 833.33, out.SaleAmountExVAT, 0.001)
	assert.InDelta(t, 166.66, out.VATAmount, 0.001)
	assert.InDelta(t, 500.00, out.GrossMargin, 0.001)
}

func TestCompute_InvalidInputsReturnZeros(t *testing.T) {
	calc := NewCalculator(stubResolver{rate: 20, known: true}, zap.NewNop())

	for _, in := range []Inputs{
		{SaleAmountIncVAT: -1},
		{SaleAmountIncVAT: math.NaN()},
		{SaleAmountIncVAT: math.Inf(1)},
		{SaleAmountIncVAT: 100, BuyPrice: -5},
		{SaleAmountIncVAT: 100, CardFees: -1},
	} {
		out := calc.Compute(in)
		assert.Zero(t, out.SaleAmountExVAT)
		assert.Zero(t, out.GrossMargin)
		assert.NotEmpty(t, out.Warnings)
	}
}

func TestCompute_ZeroSaleAmountPercentages(t *testing.T) {
	calc := NewCalculator(stubResolver{rate: 20, known: true}, zap.NewNop())

	out := calc.Compute(Inputs{SaleAmountIncVAT: 0, BuyPrice: 0})
	assert.Zero(t, out.GrossMarginPercent)
	assert.Zero(t, out.CommissionableMarginPercent)
}
