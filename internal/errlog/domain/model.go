package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

var ErrInvalidSource = errors.New("invalid_source")

// Severity grades an error entry for operator triage.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// ErrorEntry is a persisted, non-fatal problem report: a failed VAT
// check, a rejected lifecycle transition, a commission calculation that
// came back with errors. Operators review these; nothing in the request
// path ever aborts because of one.
type ErrorEntry struct {
	ID snowflake.ID `gorm:"primaryKey" json:"id"`

	Severity Severity                     `gorm:"type:text;not null;index" json:"severity"`
	Source   string                       `gorm:"type:text;not null;index" json:"source"`
	Messages datatypes.JSONSlice[string]  `gorm:"not null" json:"messages"`
	SaleID   *snowflake.ID                `gorm:"column:sale_id;index" json:"sale_id,omitempty"`
	Metadata datatypes.JSONMap            `gorm:"not null;default:'{}'" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (ErrorEntry) TableName() string { return "error_entries" }

type ListRequest struct {
	Severity Severity
	Source   string
	SaleID   *snowflake.ID
	Limit    int
}

type Service interface {
	// Append records an entry. Appending must never fail the caller's
	// request; implementations swallow storage errors after logging them.
	Append(ctx context.Context, severity Severity, source string, messages []string, saleID *snowflake.ID, metadata map[string]any)

	List(ctx context.Context, req ListRequest) ([]ErrorEntry, error)

	// DeleteOlderThan removes entries past the retention window and
	// returns how many were dropped.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
