package availability

import (
	"time"

	"campus-booking/internal/domain/facility"

	"github.com/google/uuid"
)

// SlotWidth is the grid granularity used by every availability view.
const SlotWidth = 30 * time.Minute

// Slot is one fixed-width cell of the daily grid. Scheduled slots carry the
// IDs of every booking overlapping them.
type Slot struct {
	Start      time.Time
	End        time.Time
	Scheduled  bool
	BookingIDs []uuid.UUID
}

// Range is a run of adjacent slots sharing the same tag, produced by Coalesce.
type Range struct {
	Start     time.Time
	End       time.Time
	Scheduled bool
}

func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// BuildGrid produces the slot sequence spanning the operating-hours window on
// the given date for one facility. A slot is scheduled when any valid
// approved/pending booking overlaps it (booking.Start < slot.End and
// booking.End > slot.Start). An empty booking feed yields an all-available
// grid; no placeholder occupancy is ever synthesized.
func BuildGrid(refs []BookingRef, facilityID uuid.UUID, date time.Time, hours facility.OperatingHours) []Slot {
	open, close := hours.WindowOn(date)

	occupying := make([]BookingRef, 0, len(refs))
	for _, b := range refs {
		if !b.Valid() || b.FacilityID != facilityID || !b.Status.Occupies() {
			continue
		}
		occupying = append(occupying, b)
	}

	var slots []Slot
	for cur := open; cur.Before(close); cur = cur.Add(SlotWidth) {
		slot := Slot{Start: cur, End: cur.Add(SlotWidth)}
		if slot.End.After(close) {
			slot.End = close
		}
		for _, b := range occupying {
			if b.Start.Before(slot.End) && b.End.After(slot.Start) {
				slot.Scheduled = true
				slot.BookingIDs = append(slot.BookingIDs, b.ID)
			}
		}
		slots = append(slots, slot)
	}
	return slots
}

// Coalesce merges adjacent slots with the same tag into ranges, preserving
// time order. N consecutive available slots collapse to one range; a single
// scheduled slot in the middle splits it in two.
func Coalesce(slots []Slot) []Range {
	var ranges []Range
	for _, s := range slots {
		last := len(ranges) - 1
		if last >= 0 && ranges[last].Scheduled == s.Scheduled && ranges[last].End.Equal(s.Start) {
			ranges[last].End = s.End
			continue
		}
		ranges = append(ranges, Range{Start: s.Start, End: s.End, Scheduled: s.Scheduled})
	}
	return ranges
}

// NextAvailable scans coalesced ranges in time order and returns the first
// available one that has not already begun: its end must be strictly after
// now and its start at or after now, with at least minDuration of room.
// It returns nil when no range qualifies.
func NextAvailable(ranges []Range, now time.Time, minDuration time.Duration) *Range {
	for i := range ranges {
		r := ranges[i]
		if r.Scheduled {
			continue
		}
		if !r.End.After(now) || r.Start.Before(now) {
			continue
		}
		if minDuration > 0 && r.Duration() < minDuration {
			continue
		}
		return &ranges[i]
	}
	return nil
}
