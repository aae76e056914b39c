package commission

import (
	"fmt"
	"math"

	"github.com/luxfolio/dealdesk/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateSource records which rule supplied the commission percentage.
type RateSource string

const (
	RateSourceOverride RateSource = "override"
	RateSourceBand     RateSource = "band"
	RateSourceNone     RateSource = "none"
)

// Input is one commission calculation. Percentages are optional; the
// engine applies them in strict priority order: admin override first,
// then the commission band.
type Input struct {
	CommissionableMargin float64
	OverridePercent      *float64
	BandPercent          *float64
	IntroducerPercent    *float64
}

// Result is the split written back onto the sale. Errors are collected,
// never raised; the caller decides whether to block persistence.
type Result struct {
	CommissionAmount       float64    `json:"commission_amount"`
	IntroducerSplit        float64    `json:"introducer_split"`
	ShopperSplit           float64    `json:"shopper_split"`
	IntroducerSharePercent float64    `json:"introducer_share_percent"`
	RateSource             RateSource `json:"rate_source"`
	Flags                  []string   `json:"flags,omitempty"`
	Errors                 []string   `json:"errors,omitempty"`
}

// Engine splits commissionable margin between introducer and shopper.
type Engine struct {
	log *zap.Logger
}

func NewEngine(log *zap.Logger) *Engine {
	return &Engine{log: log.Named("commission")}
}

// Calculate never fails; invalid input yields a zeroed result with the
// reason in Errors.
func (e *Engine) Calculate(in Input) Result {
	out := Result{RateSource: RateSourceNone}

	if !isFinite(in.CommissionableMargin) {
		out.Errors = append(out.Errors, "commissionable margin is not a finite number")
		return out
	}
	if in.CommissionableMargin < 0 {
		out.Errors = append(out.Errors, "commissionable margin cannot be negative")
		return out
	}

	// Overrides may be any finite value, but decimal conversion panics
	// on NaN/Inf, so every supplied percent gets the same finiteness
	// guard as the margin.
	if in.OverridePercent != nil && !isFinite(*in.OverridePercent) {
		out.Errors = append(out.Errors, "override percent is not a finite number")
		return out
	}
	if in.BandPercent != nil && !isFinite(*in.BandPercent) {
		out.Errors = append(out.Errors, "band percent is not a finite number")
		return out
	}
	if in.IntroducerPercent != nil && !isFinite(*in.IntroducerPercent) {
		out.Errors = append(out.Errors, "introducer percent is not a finite number")
		return out
	}

	var rate decimal.Decimal
	switch {
	case in.OverridePercent != nil:
		// Overrides are intentional: accept any value, but flag the
		// unusual ones for review instead of blocking them.
		rate = money.FromFloat(*in.OverridePercent)
		out.RateSource = RateSourceOverride
		if *in.OverridePercent < 0 || *in.OverridePercent > 100 {
			out.Flags = append(out.Flags,
				fmt.Sprintf("override percent %.2f is outside the normal 0-100 range", *in.OverridePercent))
			e.log.Warn("commission_override_out_of_range",
				zap.Float64("override_percent", *in.OverridePercent))
		}
	case in.BandPercent != nil:
		rate = money.FromFloat(*in.BandPercent)
		out.RateSource = RateSourceBand
	default:
		out.Errors = append(out.Errors, "no commission percentage available")
		return out
	}

	margin := money.FromFloat(in.CommissionableMargin)
	amount := money.Percent(margin, rate)

	// The shopper split is the remainder of the rounded total, not an
	// independently rounded figure, so the two splits always sum to the
	// commission amount.
	introducerSplit := decimal.Zero
	if in.IntroducerPercent != nil {
		sharePct := money.FromFloat(*in.IntroducerPercent)
		introducerSplit = money.Percent(amount, sharePct)
		out.IntroducerSharePercent = money.ToFloat(sharePct)
	}
	shopperSplit := amount.Sub(introducerSplit)

	out.CommissionAmount = money.ToFloat(amount)
	out.IntroducerSplit = money.ToFloat(introducerSplit)
	out.ShopperSplit = money.ToFloat(shopperSplit)
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
