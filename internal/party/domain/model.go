package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidType    = errors.New("invalid_type")
	ErrInvalidPercent = errors.New("invalid_percent")
	ErrNotFound       = errors.New("not_found")
)

// PartyType distinguishes the two internal participants of a deal. The
// buyer and supplier are accounting-platform contacts, not parties.
type PartyType string

const (
	TypeShopper    PartyType = "shopper"
	TypeIntroducer PartyType = "introducer"
)

// Party is a shopper or introducer attached to sales. An introducer's
// CommissionPercent is its configured share of the sale commission.
type Party struct {
	ID snowflake.ID `gorm:"primaryKey" json:"id"`

	Type  PartyType `gorm:"type:text;not null;index" json:"type"`
	Name  string    `gorm:"type:text;not null" json:"name"`
	Email string    `gorm:"type:text" json:"email,omitempty"`

	CommissionPercent *float64 `gorm:"column:commission_percent" json:"commission_percent,omitempty"`

	IsActive bool `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Party) TableName() string { return "parties" }

func (p *Party) Validate() error {
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.Type != TypeShopper && p.Type != TypeIntroducer {
		return ErrInvalidType
	}
	if p.CommissionPercent != nil && (*p.CommissionPercent < 0 || *p.CommissionPercent > 100) {
		return ErrInvalidPercent
	}
	return nil
}
