package event

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every specific error below wraps exactly one of these.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("venue is already booked for an overlapping time window")
)

var (
	ErrEventNotFound = fmt.Errorf("event %w", ErrNotFound)

	ErrNameRequired        = fmt.Errorf("%w: name must not be empty", ErrValidation)
	ErrDescriptionRequired = fmt.Errorf("%w: description must not be empty", ErrValidation)
	ErrCategoryRequired    = fmt.Errorf("%w: category must not be empty", ErrValidation)
	ErrVenueRequired       = fmt.Errorf("%w: venue id is required", ErrValidation)
	ErrInvalidBookingTime  = fmt.Errorf("%w: booking start date must be before booking end date", ErrValidation)
	ErrBookingStartInPast  = fmt.Errorf("%w: booking start date must not be in the past", ErrValidation)
	ErrRejectionReason     = fmt.Errorf("%w: rejection reason must be at least %d characters", ErrValidation, MinRejectionReasonLength)

	ErrNotOwner  = fmt.Errorf("%w: only the event owner or an admin may perform this operation", ErrUnauthorized)
	ErrAdminOnly = fmt.Errorf("%w: admin role required", ErrUnauthorized)
)

// TransitionError reports an operation that is not legal from the current status.
type TransitionError struct {
	Op   Operation
	From Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s an event in status %s", e.Op, e.From)
}

// Unwrap ties the error to ErrInvalidState.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidState
}
