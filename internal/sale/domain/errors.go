package domain

import "errors"

var (
	ErrInvalidID          = errors.New("invalid_sale_id")
	ErrSaleNotFound       = errors.New("sale_not_found")
	ErrInvalidAmount      = errors.New("invalid_sale_amount")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidTransition  = errors.New("invalid_transition")
	ErrCommissionLocked   = errors.New("commission_locked")
	ErrInvalidParty       = errors.New("invalid_party")
	ErrMissingBuyer       = errors.New("missing_buyer_contact")
	ErrInvalidOverride    = errors.New("invalid_override_percent")
	ErrUnknownTheme       = errors.New("unknown_branding_theme")
	ErrMissingInvoiceLink = errors.New("missing_invoice_link")
)
