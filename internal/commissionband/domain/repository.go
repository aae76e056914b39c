package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, band *CommissionBand) error
	FindByID(ctx context.Context, id snowflake.ID) (*CommissionBand, error)
	List(ctx context.Context, onlyEnabled bool) ([]CommissionBand, error)
	Update(ctx context.Context, band *CommissionBand) error
}
