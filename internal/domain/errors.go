package domain

import (
	"errors"
	"fmt"
)

// Eligibility codes surfaced to the booking form.
const (
	CodeSelfBooking   = "driver_booking"
	CodeNoSeats       = "no_seats"
	CodeAlreadyBooked = "already_booked"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// EligibilityError is a business-rule rejection of a booking attempt. Code is
// one of the Code* constants and doubles as the redirect error code.
type EligibilityError struct {
	Code string
	Msg  string
}

func (e EligibilityError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Code
}

// UpstreamError wraps a geocoding/routing provider failure. It is logged and
// degraded, never shown to the end user as-is.
type UpstreamError struct {
	Service string
	Err     error
}

func (e UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s unavailable", e.Service)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e UpstreamError) Unwrap() error { return e.Err }

// StoreError wraps a persistence failure. Detail stays in the server log; the
// caller sees a generic message.
type StoreError struct {
	Op  string
	Err error
}

func (e StoreError) Error() string {
	if e.Op == "" {
		return "store error"
	}
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e StoreError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsEligibility(err error) bool {
	var target EligibilityError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target UpstreamError
	return errors.As(err, &target)
}

func IsStore(err error) bool {
	var target StoreError
	return errors.As(err, &target)
}

// EligibilityCode extracts the rejection code, or "" for other errors.
func EligibilityCode(err error) string {
	var target EligibilityError
	if errors.As(err, &target) {
		return target.Code
	}
	return ""
}
