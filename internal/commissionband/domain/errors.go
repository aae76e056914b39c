package domain

import "errors"

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidPercent = errors.New("invalid_percent")
	ErrInvalidRange   = errors.New("invalid_range")
	ErrNotFound       = errors.New("not_found")
)
