// Package availability derives dashboard state from booking feeds: a single
// status per facility, and 30-minute slot grids for the daily view. All
// functions are pure; the caller supplies the current instant.
package availability

import (
	"sort"
	"time"

	"campus-booking/internal/domain/booking"
	"campus-booking/internal/domain/facility"

	"github.com/google/uuid"
)

// Merge combines the public approved feed with the caller's own feed,
// deduplicating by booking ID. The owner's copy wins: the private feed
// carries equipment and prep fields the public feed omits.
func Merge(all, mine []BookingRef) []BookingRef {
	merged := make([]BookingRef, 0, len(all)+len(mine))
	seen := make(map[uuid.UUID]struct{}, len(mine))

	for _, m := range mine {
		m.Mine = true
		merged = append(merged, m)
		seen[m.ID] = struct{}{}
	}
	for _, b := range all {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		merged = append(merged, b)
	}
	return merged
}

// DeriveStatus computes the status of one facility at one instant. The rule
// order is a correctness contract:
//
//  1. disabled facility        -> unavailable
//  2. approved booking running -> booked
//  3. outside operating hours  -> closed
//  4. upcoming booking exists  -> scheduled (earliest start wins)
//  5. otherwise                -> available
func DeriveStatus(
	refs []BookingRef,
	facilityID uuid.UUID,
	active bool,
	now time.Time,
	hours facility.OperatingHours,
) Derivation {
	if !active {
		return Derivation{Status: StatusUnavailable, Label: StatusUnavailable.Label()}
	}

	relevant := relevantBookings(refs, facilityID, now)

	for i := range relevant {
		b := relevant[i]
		if b.Status == booking.StatusApproved && !now.Before(b.Start) && !now.After(b.End) {
			return Derivation{Status: StatusBooked, Label: StatusBooked.Label(), Booking: &relevant[i]}
		}
	}

	if !hours.Contains(now) {
		return Derivation{Status: StatusClosed, Label: StatusClosed.Label()}
	}

	if next := earliestUpcoming(relevant, now); next != nil {
		return Derivation{Status: StatusScheduled, Label: StatusScheduled.Label(), Booking: next}
	}

	return Derivation{Status: StatusAvailable, Label: StatusAvailable.Label()}
}

// relevantBookings keeps valid approved/pending bookings for the facility
// whose end is still ahead of now.
func relevantBookings(refs []BookingRef, facilityID uuid.UUID, now time.Time) []BookingRef {
	out := make([]BookingRef, 0, len(refs))
	for _, b := range refs {
		if !b.Valid() {
			continue
		}
		if b.FacilityID != facilityID {
			continue
		}
		if !b.Status.Occupies() {
			continue
		}
		if !b.End.After(now) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// earliestUpcoming picks the minimum start among strictly future bookings.
// The sort is deliberate: feed order is not guaranteed.
func earliestUpcoming(refs []BookingRef, now time.Time) *BookingRef {
	upcoming := make([]BookingRef, 0, len(refs))
	for _, b := range refs {
		if b.Start.After(now) {
			upcoming = append(upcoming, b)
		}
	}
	if len(upcoming) == 0 {
		return nil
	}
	sort.Slice(upcoming, func(i, j int) bool {
		if upcoming[i].Start.Equal(upcoming[j].Start) {
			return upcoming[i].ID.String() < upcoming[j].ID.String()
		}
		return upcoming[i].Start.Before(upcoming[j].Start)
	})
	return &upcoming[0]
}
