package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// CommissionBand is a margin-range-keyed default commission percentage.
// Bands supply the rate when a sale carries no admin override.
type CommissionBand struct {
	ID snowflake.ID `gorm:"primaryKey" json:"id"`

	Name      string   `gorm:"type:text;not null" json:"name"`
	MinMargin float64  `gorm:"column:min_margin;not null" json:"min_margin"`
	MaxMargin *float64 `gorm:"column:max_margin" json:"max_margin,omitempty"` // nil = open-ended
	Percent   float64  `gorm:"not null" json:"percent"`

	IsEnabled bool `gorm:"column:is_enabled;not null;default:true" json:"is_enabled"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CommissionBand) TableName() string { return "commission_bands" }

func (b *CommissionBand) Validate() error {
	if b.Name == "" {
		return ErrInvalidName
	}
	if b.Percent < 0 || b.Percent > 100 {
		return ErrInvalidPercent
	}
	if b.MinMargin < 0 {
		return ErrInvalidRange
	}
	if b.MaxMargin != nil && *b.MaxMargin <= b.MinMargin {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether margin falls inside this band's range.
// Ranges are [min, max): an open-ended band has no upper bound.
func (b *CommissionBand) Contains(margin float64) bool {
	if margin < b.MinMargin {
		return false
	}
	if b.MaxMargin != nil && margin >= *b.MaxMargin {
		return false
	}
	return true
}
