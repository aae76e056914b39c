package service

import (
	"fmt"
	"strings"

	"github.com/luxfolio/dealdesk/internal/config"
	"github.com/luxfolio/dealdesk/internal/vat/domain"
	"github.com/luxfolio/dealdesk/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type resolver struct {
	themes *config.ThemeConfigHolder
	log    *zap.Logger
}

// NewResolver builds a theme resolver on top of the hot-reloadable
// theme table.
func NewResolver(themes *config.ThemeConfigHolder, log *zap.Logger) domain.Resolver {
	return &resolver{
		themes: themes,
		log:    log.Named("vat.resolver"),
	}
}

func (r *resolver) Resolve(theme string) (domain.Resolution, bool) {
	needle := strings.ToLower(strings.TrimSpace(theme))
	if needle == "" {
		return domain.Resolution{}, false
	}

	for _, entry := range r.themes.Get().Themes {
		for _, id := range entry.Identifiers {
			if strings.ToLower(strings.TrimSpace(id)) == needle {
				return domain.Resolution{
					Rate:    entry.VATPercent,
					Mapping: toMapping(entry),
				}, true
			}
		}
		if strings.ToLower(strings.TrimSpace(entry.DisplayName)) == needle {
			return domain.Resolution{
				Rate:    entry.VATPercent,
				Mapping: toMapping(entry),
			}, true
		}
	}

	return domain.Resolution{}, false
}

// Validate compares the sale's actual VAT amount against what the theme's
// rate implies. Anything past the 0.01 tolerance is flagged, not fatal;
// operators reconcile these by hand.
func (r *resolver) Validate(theme string, saleAmountExVAT, saleAmountIncVAT float64) domain.ValidationResult {
	res, ok := r.Resolve(theme)
	if !ok {
		return domain.ValidationResult{
			IsValid:    false,
			Unresolved: true,
			Message:    fmt.Sprintf("branding theme %q is not in the mapping table", strings.TrimSpace(theme)),
		}
	}

	incVAT := money.FromFloat(saleAmountIncVAT)
	exVAT := money.FromFloat(saleAmountExVAT)
	actual := money.Round2(incVAT.Sub(exVAT))

	var expected decimal.Decimal
	if res.Rate == 0 {
		expected = decimal.Zero
	} else {
		rate := money.FromFloat(res.Rate)
		divisor := decimal.NewFromInt(1).Add(rate.Div(decimal.NewFromInt(100)))
		expectedEx := money.Round2(incVAT.Div(divisor))
		expected = money.Round2(incVAT.Sub(expectedEx))
	}

	discrepancy := actual.Sub(expected).Abs()
	result := domain.ValidationResult{
		IsValid:        money.WithinTolerance(actual, expected),
		ExpectedRate:   res.Rate,
		ActualAmount:   money.ToFloat(actual),
		ExpectedAmount: money.ToFloat(expected),
		Discrepancy:    money.ToFloat(discrepancy),
	}
	if !result.IsValid {
		result.Message = fmt.Sprintf(
			"VAT of %s does not match the %s%% expected for %s (expected %s, off by %s)",
			actual.StringFixed(2),
			decimal.NewFromFloat(res.Rate).String(),
			res.Mapping.DisplayName,
			expected.StringFixed(2),
			discrepancy.StringFixed(2),
		)
		r.log.Warn("vat_mismatch",
			zap.String("theme", res.Mapping.DisplayName),
			zap.Float64("expected_rate", res.Rate),
			zap.String("actual_vat", actual.StringFixed(2)),
			zap.String("expected_vat", expected.StringFixed(2)),
		)
	}
	return result
}

func (r *resolver) Mappings() []domain.Mapping {
	entries := r.themes.Get().Themes
	out := make([]domain.Mapping, 0, len(entries))
	for _, e := range entries {
		out = append(out, toMapping(e))
	}
	return out
}

func toMapping(e config.ThemeEntry) domain.Mapping {
	return domain.Mapping{
		Identifiers: e.Identifiers,
		DisplayName: e.DisplayName,
		Treatment:   e.Treatment,
		AccountCode: e.AccountCode,
		VATPercent:  e.VATPercent,
		Explanation: e.Explanation,
	}
}
