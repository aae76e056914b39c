package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, sale *Sale) error
	FindByID(ctx context.Context, id snowflake.ID) (*Sale, error)
	List(ctx context.Context, req ListRequest) ([]Sale, error)
	Save(ctx context.Context, sale *Sale) error
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, id snowflake.ID) error
}

type CreateRequest struct {
	ItemDescription string `json:"item_description"`
	BrandingTheme   string `json:"branding_theme"`

	BuyerContactID    string `json:"buyer_contact_id"`
	SupplierContactID string `json:"supplier_contact_id"`

	ShopperID    *string `json:"shopper_id,omitempty"`
	IntroducerID *string `json:"introducer_id,omitempty"`

	SaleAmountIncVAT     float64 `json:"sale_amount_inc_vat"`
	BuyPrice             float64 `json:"buy_price"`
	CardFees             float64 `json:"card_fees"`
	ShippingCost         float64 `json:"shipping_cost"`
	DirectCosts          float64 `json:"direct_costs"`
	IntroducerCommission float64 `json:"introducer_commission"`

	CommissionOverridePercent *float64 `json:"commission_override_percent,omitempty"`
}

type UpdateRequest struct {
	ID string `json:"id"`

	ItemDescription *string `json:"item_description,omitempty"`
	BrandingTheme   *string `json:"branding_theme,omitempty"`

	BuyerContactID    *string `json:"buyer_contact_id,omitempty"`
	SupplierContactID *string `json:"supplier_contact_id,omitempty"`

	ShopperID    *string `json:"shopper_id,omitempty"`
	IntroducerID *string `json:"introducer_id,omitempty"`

	SaleAmountIncVAT     *float64 `json:"sale_amount_inc_vat,omitempty"`
	BuyPrice             *float64 `json:"buy_price,omitempty"`
	CardFees             *float64 `json:"card_fees,omitempty"`
	ShippingCost         *float64 `json:"shipping_cost,omitempty"`
	DirectCosts          *float64 `json:"direct_costs,omitempty"`
	IntroducerCommission *float64 `json:"introducer_commission,omitempty"`

	CommissionOverridePercent *float64 `json:"commission_override_percent,omitempty"`
}

type ListRequest struct {
	Status    DealStatus
	ErrorOnly bool
	Limit     int
	Offset    int
}

// TransitionOptions carries caller-supplied side-effect values. A
// payment date from the bank feed beats the wall clock.
type TransitionOptions struct {
	PaymentDate *time.Time `json:"payment_date,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Sale, error)
	GetByID(ctx context.Context, id string) (*Sale, error)
	List(ctx context.Context, req ListRequest) ([]Sale, error)
	Update(ctx context.Context, req UpdateRequest) (*Sale, error)
	Delete(ctx context.Context, id string) error

	// Transition moves the sale along the lifecycle. An invalid pair
	// flags the sale, records an error entry and returns
	// ErrInvalidTransition; accepted transitions apply all of their
	// side-effect fields in one update.
	Transition(ctx context.Context, id string, next DealStatus, opts TransitionOptions) (*Sale, error)

	// FixVAT recomputes the sale's economics under an explicit branding
	// theme, for deals entered before the theme mapping existed.
	FixVAT(ctx context.Context, id string, brandingTheme string) (*Sale, error)

	// Allocate sets an admin commission override and recomputes splits.
	Allocate(ctx context.Context, id string, overridePercent float64) (*Sale, error)

	// LinkExternalInvoice attaches the accounting platform's invoice
	// reference to the sale.
	LinkExternalInvoice(ctx context.Context, id string, invoiceID, invoiceNumber string) (*Sale, error)
}
