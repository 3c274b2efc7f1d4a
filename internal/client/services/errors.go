package services

import (
	"errors"
	"fmt"
)

// ErrNoProfile is returned by ProfileService.Mine for users who have not
// created a wiki yet.
var ErrNoProfile = errors.New("user has no wiki")

// ValidationError is a field-level input problem caught before any request
// is made. Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
