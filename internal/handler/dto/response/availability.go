package response

import (
	"time"

	"campus-booking/internal/domain/availability"
	"campus-booking/internal/usecase"

	"github.com/google/uuid"
)

// DashboardEntryResponse is one facility tile: the derived status, its
// display label, and the booking that justified it.
type DashboardEntryResponse struct {
	Facility *FacilityResponse  `json:"facility"`
	Status   string             `json:"status"`
	Label    string             `json:"label"`
	Booking  *FeedEntryResponse `json:"booking,omitempty"`
}

func FromFacilityAvailability(fa usecase.FacilityAvailability) DashboardEntryResponse {
	entry := DashboardEntryResponse{
		Facility: FromFacilityRM(fa.Facility),
		Status:   string(fa.Derivation.Status),
		Label:    fa.Derivation.Label,
	}
	if fa.Derivation.Booking != nil {
		ref := FromBookingRef(*fa.Derivation.Booking)
		entry.Booking = &ref
	}
	return entry
}

func FromDashboard(fas []usecase.FacilityAvailability) []DashboardEntryResponse {
	out := make([]DashboardEntryResponse, 0, len(fas))
	for _, fa := range fas {
		out = append(out, FromFacilityAvailability(fa))
	}
	return out
}

type SlotResponse struct {
	Start      time.Time   `json:"start"`
	End        time.Time   `json:"end"`
	Scheduled  bool        `json:"scheduled"`
	BookingIDs []uuid.UUID `json:"bookingIds,omitempty"`
}

type RangeResponse struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Scheduled bool      `json:"scheduled"`
}

type DayGridResponse struct {
	FacilityID    uuid.UUID       `json:"facilityId"`
	Date          string          `json:"date"`
	Slots         []SlotResponse  `json:"slots"`
	Ranges        []RangeResponse `json:"ranges"`
	NextAvailable *RangeResponse  `json:"nextAvailable,omitempty"`
}

func FromDayGrid(grid *usecase.DayGrid) *DayGridResponse {
	resp := &DayGridResponse{
		FacilityID: grid.FacilityID,
		Date:       grid.Date.Format("2006-01-02"),
		Slots:      make([]SlotResponse, 0, len(grid.Slots)),
		Ranges:     make([]RangeResponse, 0, len(grid.Ranges)),
	}
	for _, s := range grid.Slots {
		resp.Slots = append(resp.Slots, SlotResponse{
			Start:      s.Start,
			End:        s.End,
			Scheduled:  s.Scheduled,
			BookingIDs: s.BookingIDs,
		})
	}
	for _, r := range grid.Ranges {
		resp.Ranges = append(resp.Ranges, fromRange(r))
	}
	if grid.Next != nil {
		next := fromRange(*grid.Next)
		resp.NextAvailable = &next
	}
	return resp
}

func fromRange(r availability.Range) RangeResponse {
	return RangeResponse{Start: r.Start, End: r.End, Scheduled: r.Scheduled}
}
