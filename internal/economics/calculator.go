package economics

import (
	"fmt"
	"math"

	vatdomain "github.com/luxfolio/dealdesk/internal/vat/domain"
	"github.com/luxfolio/dealdesk/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Inputs are the raw sale figures after the HTTP layer has parsed them.
// They are not guaranteed sane; that is this package's job.
type Inputs struct {
	SaleAmountIncVAT     float64
	BuyPrice             float64
	CardFees             float64
	ShippingCost         float64
	DirectCosts          float64
	IntroducerCommission float64
	BrandingTheme        string
}

// SaleEconomics is the derived snapshot persisted onto the sale row.
type SaleEconomics struct {
	SaleAmountExVAT             float64  `json:"sale_amount_ex_vat"`
	VATAmount                   float64  `json:"vat_amount"`
	GrossMargin                 float64  `json:"gross_margin"`
	CommissionableMargin        float64  `json:"commissionable_margin"`
	GrossMarginPercent          float64  `json:"gross_margin_percent"`
	CommissionableMarginPercent float64  `json:"commissionable_margin_percent"`
	VATRate                     float64  `json:"vat_rate"`
	VATAssumed                  bool     `json:"vat_assumed"`
	Warnings                    []string `json:"warnings,omitempty"`
}

// Calculator derives sale economics from raw inputs. Compute never
// fails: bad inputs produce a zeroed snapshot with warnings so the
// surrounding request can still complete.
type Calculator struct {
	resolver vatdomain.Resolver
	log      *zap.Logger
}

func NewCalculator(resolver vatdomain.Resolver, log *zap.Logger) *Calculator {
	return &Calculator{
		resolver: resolver,
		log:      log.Named("economics"),
	}
}

// Compute runs the margin derivation in a fixed step order, rounding to
// 2dp after every step so results match the historical figures the
// brokerage reconciles against.
func (c *Calculator) Compute(in Inputs) SaleEconomics {
	if warnings := validateInputs(in); len(warnings) > 0 {
		return SaleEconomics{Warnings: warnings}
	}

	out := SaleEconomics{}

	// Step 1: resolve the VAT rate. An unknown theme falls back to 20%
	// for compatibility with historical rows, but the assumption is
	// labeled on the result and logged; it is never treated as a fact.
	rate := decimal.NewFromInt(20)
	if res, ok := c.resolver.Resolve(in.BrandingTheme); ok {
		rate = money.FromFloat(res.Rate)
	} else {
		out.VATAssumed = true
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("branding theme %q unresolved; assumed 20%% VAT", in.BrandingTheme))
		c.log.Warn("vat_rate_assumed",
			zap.String("theme", in.BrandingTheme),
			zap.Float64("assumed_rate", 20),
		)
	}
	out.VATRate = money.ToFloat(rate)

	incVAT := money.Round2(money.FromFloat(in.SaleAmountIncVAT))

	// Step 2: ex-VAT amount. Zero-rated sales keep the headline price.
	exVAT := incVAT
	if !rate.IsZero() {
		divisor := decimal.NewFromInt(1).Add(rate.Div(decimal.NewFromInt(100)))
		exVAT = money.Round2(incVAT.Div(divisor))
	}

	// Step 3: VAT amount.
	vatAmount := money.Round2(incVAT.Sub(exVAT))

	// Step 4: gross margin is ex-VAT minus buy price ONLY. Shipping,
	// card fees and direct costs belong to the commissionable margin,
	// not here.
	grossMargin := money.Round2(exVAT.Sub(money.FromFloat(in.BuyPrice)))

	// Step 5: commissionable margin.
	deductions := money.Round2(
		money.FromFloat(in.ShippingCost).
			Add(money.FromFloat(in.CardFees)).
			Add(money.FromFloat(in.DirectCosts)).
			Add(money.FromFloat(in.IntroducerCommission)))
	commissionable := money.Round2(grossMargin.Sub(deductions))

	// Step 6: percentages over the ex-VAT amount.
	out.SaleAmountExVAT = money.ToFloat(exVAT)
	out.VATAmount = money.ToFloat(vatAmount)
	out.GrossMargin = money.ToFloat(grossMargin)
	out.CommissionableMargin = money.ToFloat(commissionable)
	out.GrossMarginPercent = marginPercent(grossMargin, exVAT)
	out.CommissionableMarginPercent = marginPercent(commissionable, exVAT)

	return out
}

func marginPercent(margin, exVAT decimal.Decimal) float64 {
	if exVAT.IsZero() {
		return 0
	}
	return money.ToFloat(money.Round2(margin.Div(exVAT).Mul(decimal.NewFromInt(100))))
}

func validateInputs(in Inputs) []string {
	var warnings []string

	check := func(name string, v float64, allowNegative bool) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			warnings = append(warnings, fmt.Sprintf("%s is not a finite number", name))
			return
		}
		if !allowNegative && v < 0 {
			warnings = append(warnings, fmt.Sprintf("%s cannot be negative", name))
		}
	}

	check("sale_amount_inc_vat", in.SaleAmountIncVAT, false)
	check("buy_price", in.BuyPrice, false)
	check("card_fees", in.CardFees, false)
	check("shipping_cost", in.ShippingCost, false)
	check("direct_costs", in.DirectCosts, false)
	check("introducer_commission", in.IntroducerCommission, false)

	return warnings
}
