package domain

import "context"

// ContactPerson mirrors the platform's contact person with a
// precomputed full name for matching.
type ContactPerson struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
}

// ExtendedContact is the cached view of an accounting-platform contact.
// IsBuyer/IsSupplier are classified once when the cache fills, from the
// platform's raw flags plus the default-account-code heuristic; search
// never re-derives them.
type ExtendedContact struct {
	ContactID     string `json:"contact_id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Reference     string `json:"reference,omitempty"`

	IsBuyer    bool `json:"is_buyer"`
	IsSupplier bool `json:"is_supplier"`

	ContactPersons []ContactPerson `json:"contact_persons,omitempty"`
}

// ScoredResult is one search hit.
type ScoredResult struct {
	Contact      ExtendedContact `json:"contact"`
	Score        int             `json:"score"`
	MatchedField string          `json:"matched_field"`
}

// Service is the buyer/supplier search surface used by the UI's
// type-ahead pickers.
type Service interface {
	SearchBuyers(ctx context.Context, query string, limit int) ([]ScoredResult, error)
	SearchSuppliers(ctx context.Context, query string, limit int) ([]ScoredResult, error)
	Refresh(ctx context.Context) error
}
