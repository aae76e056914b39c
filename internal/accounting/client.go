// Package accounting is the port to the external accounting platform.
// Dealdesk only reads contacts from it and pushes invoices at it,
// best-effort; the platform remains the system of record for both.
package accounting

import "context"

// ContactPerson is an individual attached to a platform contact.
type ContactPerson struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Contact is the platform's raw contact record.
type Contact struct {
	ID            string `json:"contact_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	AccountNumber string `json:"account_number"`
	Reference     string `json:"reference"`

	IsCustomerFlag bool `json:"is_customer"`
	IsSupplierFlag bool `json:"is_supplier"`

	DefaultSalesAccountCode    string `json:"default_sales_account_code"`
	DefaultPurchaseAccountCode string `json:"default_purchase_account_code"`

	ContactPersons []ContactPerson `json:"contact_persons"`
}

// Invoice is the minimal payload pushed when a sale is invoiced.
type Invoice struct {
	SaleID        string  `json:"sale_id"`
	ContactID     string  `json:"contact_id"`
	BrandingTheme string  `json:"branding_theme"`
	AccountCode   string  `json:"account_code"`
	AmountIncVAT  float64 `json:"amount_inc_vat"`
	AmountExVAT   float64 `json:"amount_ex_vat"`
	VATAmount     float64 `json:"vat_amount"`
	Reference     string  `json:"reference"`
}

// InvoiceRef identifies the invoice created on the platform.
type InvoiceRef struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
}

// Client is the platform port. Push failures are recorded and retried by
// operators; nothing transactional spans the two systems.
type Client interface {
	ListContacts(ctx context.Context) ([]Contact, error)
	PushInvoice(ctx context.Context, inv Invoice) (InvoiceRef, error)
}
