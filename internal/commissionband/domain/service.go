package domain

import "context"

type CreateRequest struct {
	Name      string   `json:"name"`
	MinMargin float64  `json:"min_margin"`
	MaxMargin *float64 `json:"max_margin"`
	Percent   float64  `json:"percent"`
}

type UpdateRequest struct {
	ID        string   `json:"id"`
	Name      *string  `json:"name,omitempty"`
	MinMargin *float64 `json:"min_margin,omitempty"`
	MaxMargin *float64 `json:"max_margin,omitempty"`
	Percent   *float64 `json:"percent,omitempty"`
	IsEnabled *bool    `json:"is_enabled,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*CommissionBand, error)
	List(ctx context.Context) ([]CommissionBand, error)
	Update(ctx context.Context, req UpdateRequest) (*CommissionBand, error)

	// ResolveForMargin returns the enabled band covering the margin, or
	// nil when no band applies. The commission engine treats nil as "no
	// band percent available".
	ResolveForMargin(ctx context.Context, margin float64) (*CommissionBand, error)
}
