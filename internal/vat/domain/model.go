package domain

// Branding themes come from the accounting platform, where an invoice
// template implicitly carries the sale's VAT treatment. The resolver maps
// either the platform GUID or the friendly name onto one mapping.

// Treatment labels for the known themes.
const (
	TreatmentStandardRated = "standard_rated"
	TreatmentMarginScheme  = "margin_scheme"
	TreatmentZeroRated     = "zero_rated_export"
)

// Mapping is one branding theme's tax treatment.
type Mapping struct {
	Identifiers []string `json:"identifiers"`
	DisplayName string   `json:"display_name"`
	Treatment   string   `json:"treatment"`
	AccountCode string   `json:"account_code"`
	VATPercent  float64  `json:"vat_percent"` // 0 or 20
	Explanation string   `json:"explanation"`
}

// Resolution is a successful theme lookup.
type Resolution struct {
	Rate    float64 `json:"rate"`
	Mapping Mapping `json:"mapping"`
}

// ValidationResult reports whether a sale's VAT amounts are consistent
// with the theme's expected rate. A mismatch is flagged for operator
// review, never raised as a fatal error.
type ValidationResult struct {
	IsValid        bool    `json:"is_valid"`
	Unresolved     bool    `json:"unresolved"`
	ExpectedRate   float64 `json:"expected_rate"`
	ActualAmount   float64 `json:"actual_amount"`
	ExpectedAmount float64 `json:"expected_amount"`
	Discrepancy    float64 `json:"discrepancy"`
	Message        string  `json:"message"`
}

// Resolver resolves a branding theme to its VAT treatment.
// The second return value is false when the theme is unknown; callers
// must surface that, never assume a rate.
type Resolver interface {
	Resolve(theme string) (Resolution, bool)
	Validate(theme string, saleAmountExVAT, saleAmountIncVAT float64) ValidationResult
	Mappings() []Mapping
}
