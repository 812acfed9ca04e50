package models

import (
	"errors"
	"fmt"
)

// ErrValidation represents a validation error with field and message.
type ErrValidation struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ErrValidation) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Common validation errors for models.
var (
	// ErrURIRequired indicates a media item without a location.
	ErrURIRequired = errors.New("uri is required")

	// ErrTitleRequired indicates a required title field is empty.
	ErrTitleRequired = errors.New("title is required")

	// ErrInvalidDuration indicates a duration below the "unknown" marker.
	ErrInvalidDuration = errors.New("duration must be -1 (unknown) or non-negative")
)
