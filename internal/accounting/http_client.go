package accounting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPClient talks to the accounting platform's REST API.
type HTTPClient struct {
	baseURL string
	tenant  string
	http    *http.Client
}

func NewHTTPClient(baseURL, tenant string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		tenant:  tenant,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) ListContacts(ctx context.Context) ([]Contact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/contacts", nil)
	if err != nil {
		return nil, err
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list contacts: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Contacts []Contact `json:"contacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("list contacts: decode: %w", err)
	}
	return payload.Contacts, nil
}

func (c *HTTPClient) PushInvoice(ctx context.Context, inv Invoice) (InvoiceRef, error) {
	body, err := json.Marshal(inv)
	if err != nil {
		return InvoiceRef{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invoices", bytes.NewReader(body))
	if err != nil {
		return InvoiceRef{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return InvoiceRef{}, fmt.Errorf("push invoice: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return InvoiceRef{}, fmt.Errorf("push invoice: unexpected status %d", resp.StatusCode)
	}

	var ref InvoiceRef
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return InvoiceRef{}, fmt.Errorf("push invoice: decode: %w", err)
	}
	return ref, nil
}

func (c *HTTPClient) decorate(req *http.Request) {
	if c.tenant != "" {
		req.Header.Set("X-Tenant-Id", c.tenant)
	}
	req.Header.Set("Accept", "application/json")
}
