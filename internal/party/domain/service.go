package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, party *Party) error
	FindByID(ctx context.Context, id snowflake.ID) (*Party, error)
	List(ctx context.Context, partyType PartyType) ([]Party, error)
	Update(ctx context.Context, party *Party) error
}

type CreateRequest struct {
	Type              PartyType `json:"type"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	CommissionPercent *float64  `json:"commission_percent"`
}

type UpdateRequest struct {
	ID                string   `json:"id"`
	Name              *string  `json:"name,omitempty"`
	Email             *string  `json:"email,omitempty"`
	CommissionPercent *float64 `json:"commission_percent,omitempty"`
	IsActive          *bool    `json:"is_active,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Party, error)
	GetByID(ctx context.Context, id string) (*Party, error)
	List(ctx context.Context, partyType PartyType) ([]Party, error)
	Update(ctx context.Context, req UpdateRequest) (*Party, error)
}
