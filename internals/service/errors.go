package service

import (
	"errors"
	"fmt"
)

// Failure taxonomy surfaced by the service layer. Controllers translate
// these into HTTP status codes and the uniform response envelope.
var (
	ErrNotFound            = errors.New("record not found")
	ErrConflict            = errors.New("already exists")
	ErrRateLimited         = errors.New("too many requests")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrConcurrencyConflict = errors.New("conflicting concurrent update")
	ErrTransient           = errors.New("transient failure, retry later")
)

// NotEligibleError carries the human-readable reason a borrow was rejected.
type NotEligibleError struct {
	Reason string
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("not eligible to borrow: %s", e.Reason)
}

// IsNotEligible reports whether err is an eligibility rejection.
func IsNotEligible(err error) (*NotEligibleError, bool) {
	var ne *NotEligibleError
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}
