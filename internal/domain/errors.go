package domain

import "errors"

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternalError      = errors.New("internal error")
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrNegativeAmount     = errors.New("amount must be zero or positive")
	ErrInvalidDate        = errors.New("date is required")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidPriority    = errors.New("priority must be between 0 and 10")
	ErrInvalidMonth       = errors.New("invalid month identifier")
	ErrMonthExists        = errors.New("month already exists")
	ErrMonthNotFound      = errors.New("month not found")
	ErrKeyNotFound        = errors.New("key not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Validation constants
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
	MaxPriority          = 10
)
