package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	banddomain "github.com/luxfolio/dealdesk/internal/commissionband/domain"
	partydomain "github.com/luxfolio/dealdesk/internal/party/domain"
	saledomain "github.com/luxfolio/dealdesk/internal/sale/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware turns the last gin error into a JSON body.
// Handlers call AbortWithError and never write error bodies themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

var badRequestErrors = []error{
	saledomain.ErrInvalidID,
	saledomain.ErrInvalidAmount,
	saledomain.ErrInvalidStatus,
	saledomain.ErrInvalidParty,
	saledomain.ErrMissingBuyer,
	saledomain.ErrInvalidOverride,
	saledomain.ErrUnknownTheme,
	saledomain.ErrMissingInvoiceLink,
	banddomain.ErrInvalidID,
	banddomain.ErrInvalidName,
	banddomain.ErrInvalidPercent,
	banddomain.ErrInvalidRange,
	partydomain.ErrInvalidID,
	partydomain.ErrInvalidName,
	partydomain.ErrInvalidType,
	partydomain.ErrInvalidPercent,
}

var notFoundErrors = []error{
	saledomain.ErrSaleNotFound,
	banddomain.ErrNotFound,
	partydomain.ErrNotFound,
	gorm.ErrRecordNotFound,
}

var conflictErrors = []error{
	saledomain.ErrInvalidTransition,
	saledomain.ErrCommissionLocked,
	gorm.ErrDuplicatedKey,
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErrs *ValidationErrors
	if errors.As(err, &vErrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErrs.Errors,
		}
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, errorPayload{
				Type:    "validation_error",
				Message: target.Error(),
			}
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound, errorPayload{
				Type:    "not_found",
				Message: target.Error(),
			}
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return http.StatusConflict, errorPayload{
				Type:    "conflict",
				Message: target.Error(),
			}
		}
	}

	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}

// classifyErrorForLog keeps request logs from yelling about errors the
// client caused.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error", payload.Type
	case status >= http.StatusBadRequest:
		return "client_error", payload.Type
	default:
		return "ok", payload.Type
	}
}
