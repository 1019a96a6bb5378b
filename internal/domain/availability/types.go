package availability

import (
	"time"

	"campus-booking/internal/domain/booking"

	"github.com/google/uuid"
)

// FacilityStatus is the single status a dashboard shows for one facility at
// one instant.
type FacilityStatus string

const (
	StatusUnavailable FacilityStatus = "unavailable" // admin disabled, overrides everything
	StatusBooked      FacilityStatus = "booked"      // an approved booking is in progress
	StatusClosed      FacilityStatus = "closed"      // outside operating hours
	StatusScheduled   FacilityStatus = "scheduled"   // free now, upcoming booking exists
	StatusAvailable   FacilityStatus = "available"
)

func (s FacilityStatus) Label() string {
	switch s {
	case StatusUnavailable:
		return "Unavailable"
	case StatusBooked:
		return "In Use"
	case StatusClosed:
		return "Closed"
	case StatusScheduled:
		return "Scheduled"
	case StatusAvailable:
		return "Available"
	default:
		return "Unknown"
	}
}

// BookingRef is the minimal projection of a booking the derivation engine
// needs. Keeping it flat lets the same code run over repository read models
// and over feed entries decoded by the client SDK.
type BookingRef struct {
	ID         uuid.UUID
	FacilityID uuid.UUID
	Status     booking.Status
	Start      time.Time
	End        time.Time
	Mine       bool
}

// Valid filters out refs with malformed time ranges. Feed entries that fail
// timestamp parsing arrive as zero times and must be excluded from
// derivation rather than poisoning it.
func (r BookingRef) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && r.Start.Before(r.End)
}

// Derivation is the result of deriving one facility's status: the status
// itself, its display label, and whichever booking justified it (the current
// one for booked, the nearest upcoming one for scheduled).
type Derivation struct {
	Status  FacilityStatus
	Label   string
	Booking *BookingRef
}
