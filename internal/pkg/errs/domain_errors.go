package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Facility errors
	ErrFacilityNotFound = errors.New("facility not found")
	ErrFacilityDisabled = errors.New("facility disabled")

	// Booking errors
	ErrBookingNotFound       = errors.New("booking not found")
	ErrBookingConflict       = errors.New("booking conflict")
	ErrInvalidTimeSlot       = errors.New("invalid time slot")
	ErrOutsideOperatingHours = errors.New("outside operating hours")
	ErrNotBookingOwner       = errors.New("not booking owner")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrArrivalWindowClosed   = errors.New("arrival confirmation window closed")
	ErrCapacityExceeded      = errors.New("participant count exceeds capacity")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserBanned   = errors.New("user banned")

	// Alert errors
	ErrAlertNotFound = errors.New("alert not found")

	// Validation errors
	ErrDomainValidationFailed = errors.New("domain validation failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
