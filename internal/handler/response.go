package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrorCodeValidation = "validation_error"
	ErrorCodeNotFound   = "not_found"
	ErrorCodeConflict   = "conflict"
	ErrorCodeInternal   = "internal_error"
)

// UpdatedResponse reports whether an update found its record
type UpdatedResponse struct {
	Updated bool `json:"updated"`
}

// DeletedResponse reports whether a delete found its record
type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorCodeValidation, Message: message})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: ErrorCodeNotFound, Message: message})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, ErrorResponse{Error: ErrorCodeConflict, Message: message})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorCodeInternal, Message: message})
}

// validationMessages maps domain validation errors to client messages
var validationMessages = []struct {
	err     error
	message string
}{
	{domain.ErrInvalidAmount, "Amount must be positive"},
	{domain.ErrNegativeAmount, "Amounts must be zero or positive"},
	{domain.ErrInvalidDate, "Date is required"},
	{domain.ErrInvalidCategory, "Invalid category or type"},
	{domain.ErrNameRequired, "Name is required"},
	{domain.ErrNameTooLong, "Text exceeds maximum length"},
	{domain.ErrInvalidPriority, "Priority must be between 0 and 10"},
	{domain.ErrInvalidMonth, "Month must be YYYY-MM or a label like \"January 2024\""},
	{domain.ErrInvalidInput, "Invalid input"},
}

// NewDomainError maps a domain error to its HTTP response. Unknown errors are logged and
// reported as 500 with fallback as the message.
func NewDomainError(c echo.Context, err error, fallback string) error {
	for _, v := range validationMessages {
		if errors.Is(err, v.err) {
			return NewValidationError(c, v.message)
		}
	}
	switch {
	case errors.Is(err, domain.ErrMonthExists):
		return NewConflictError(c, "Month already exists")
	case errors.Is(err, domain.ErrMonthNotFound):
		return NewNotFoundError(c, "Month not found")
	case errors.Is(err, domain.ErrKeyNotFound), errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, "Not found")
	}
	log.Error().Err(err).Str("path", c.Path()).Msg(fallback)
	return NewInternalError(c, fallback)
}

// parseDate accepts YYYY-MM-DD or an RFC 3339 timestamp
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, domain.ErrInvalidDate
	}
	t, err := util.ParseISODate(s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return t, nil
}

// parseOptionalDate returns the zero time for an empty string
func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return parseDate(s)
}

// monthParam reads a month id path parameter, accepting YYYY-MM or a month label
func monthParam(c echo.Context, name string) (string, error) {
	raw := c.Param(name)
	if util.IsValidMonthID(raw) {
		return raw, nil
	}
	return util.ParseMonthLabel(raw)
}

// orZero treats a missing decimal as zero
func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
