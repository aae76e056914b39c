package accounting

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// FakeClient is an in-memory stand-in for local development and tests.
type FakeClient struct {
	mu       sync.Mutex
	contacts []Contact
	invoices []Invoice
}

func NewFakeClient(contacts ...Contact) *FakeClient {
	return &FakeClient{contacts: contacts}
}

func (f *FakeClient) ListContacts(ctx context.Context) ([]Contact, error) {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Contact, len(f.contacts))
	copy(out, f.contacts)
	return out, nil
}

func (f *FakeClient) PushInvoice(ctx context.Context, inv Invoice) (InvoiceRef, error) {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoices = append(f.invoices, inv)
	return InvoiceRef{
		InvoiceID:     uuid.NewString(),
		InvoiceNumber: "INV-" + uuid.NewString()[:8],
	}, nil
}

// PushedInvoices returns everything pushed so far, for assertions.
func (f *FakeClient) PushedInvoices() []Invoice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Invoice, len(f.invoices))
	copy(out, f.invoices)
	return out
}

// SetContacts replaces the contact list.
func (f *FakeClient) SetContacts(contacts []Contact) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = contacts
}
