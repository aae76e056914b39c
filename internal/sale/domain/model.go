package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Sale is one brokered deal. The economics and commission columns are a
// denormalized snapshot taken at the last recompute; reads never
// recalculate. Sales are soft-deleted only.
type Sale struct {
	ID snowflake.ID `gorm:"primaryKey" json:"id"`

	ItemDescription string `gorm:"type:text;not null" json:"item_description"`
	BrandingTheme   string `gorm:"type:text" json:"branding_theme"`

	// Accounting-platform contact references. The platform owns these
	// records; we only hold their IDs.
	BuyerContactID    string `gorm:"type:text" json:"buyer_contact_id,omitempty"`
	SupplierContactID string `gorm:"type:text" json:"supplier_contact_id,omitempty"`

	ShopperID        *snowflake.ID `gorm:"column:shopper_id;index" json:"shopper_id,omitempty"`
	IntroducerID     *snowflake.ID `gorm:"column:introducer_id;index" json:"introducer_id,omitempty"`
	CommissionBandID *snowflake.ID `gorm:"column:commission_band_id" json:"commission_band_id,omitempty"`

	// Calculation inputs.
	SaleAmountIncVAT     float64 `gorm:"column:sale_amount_inc_vat;not null" json:"sale_amount_inc_vat"`
	BuyPrice             float64 `gorm:"column:buy_price;not null" json:"buy_price"`
	CardFees             float64 `gorm:"column:card_fees" json:"card_fees"`
	ShippingCost         float64 `gorm:"column:shipping_cost" json:"shipping_cost"`
	DirectCosts          float64 `gorm:"column:direct_costs" json:"direct_costs"`
	IntroducerCommission float64 `gorm:"column:introducer_commission" json:"introducer_commission"`

	// Economics snapshot.
	SaleAmountExVAT             float64 `gorm:"column:sale_amount_ex_vat" json:"sale_amount_ex_vat"`
	VATAmount                   float64 `gorm:"column:vat_amount" json:"vat_amount"`
	VATRate                     float64 `gorm:"column:vat_rate" json:"vat_rate"`
	VATAssumed                  bool    `gorm:"column:vat_assumed" json:"vat_assumed"`
	GrossMargin                 float64 `gorm:"column:gross_margin" json:"gross_margin"`
	CommissionableMargin        float64 `gorm:"column:commissionable_margin" json:"commissionable_margin"`
	GrossMarginPercent          float64 `gorm:"column:gross_margin_percent" json:"gross_margin_percent"`
	CommissionableMarginPercent float64 `gorm:"column:commissionable_margin_percent" json:"commissionable_margin_percent"`

	// Commission snapshot.
	CommissionOverridePercent *float64 `gorm:"column:commission_override_percent" json:"commission_override_percent,omitempty"`
	CommissionRateSource      string   `gorm:"column:commission_rate_source" json:"commission_rate_source,omitempty"`
	CommissionAmount          float64  `gorm:"column:commission_amount" json:"commission_amount"`
	IntroducerSplit           float64  `gorm:"column:introducer_split" json:"introducer_split"`
	ShopperSplit              float64  `gorm:"column:shopper_split" json:"shopper_split"`

	Status DealStatus `gorm:"type:text;not null;index" json:"status"`

	PaymentDate        *time.Time `gorm:"column:payment_date" json:"payment_date,omitempty"`
	CommissionLocked   bool       `gorm:"column:commission_locked;not null;default:false" json:"commission_locked"`
	CommissionLockedAt *time.Time `gorm:"column:commission_locked_at" json:"commission_locked_at,omitempty"`
	CommissionPaid     bool       `gorm:"column:commission_paid;not null;default:false" json:"commission_paid"`
	CommissionPaidAt   *time.Time `gorm:"column:commission_paid_at" json:"commission_paid_at,omitempty"`

	ErrorFlag    bool   `gorm:"column:error_flag;not null;default:false" json:"error_flag"`
	ErrorMessage string `gorm:"column:error_message;type:text" json:"error_message,omitempty"`

	// Invoice created on the accounting platform, when linked.
	ExternalInvoiceID     string `gorm:"column:external_invoice_id;type:text" json:"external_invoice_id,omitempty"`
	ExternalInvoiceNumber string `gorm:"column:external_invoice_number;type:text" json:"external_invoice_number,omitempty"`

	Metadata datatypes.JSONMap `gorm:"not null;default:'{}'" json:"metadata,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Sale) TableName() string { return "sales" }
