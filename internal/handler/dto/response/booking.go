package response

import (
	"time"

	"campus-booking/internal/domain/availability"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID               uuid.UUID         `json:"id"`
	UserID           uuid.UUID         `json:"userId"`
	UserEmail        string            `json:"userEmail"`
	FacilityID       uuid.UUID         `json:"facilityId"`
	FacilityName     string            `json:"facilityName"`
	Start            time.Time         `json:"start"`
	End              time.Time         `json:"end"`
	Status           string            `json:"status"`
	Participants     int32             `json:"participants"`
	Purpose          string            `json:"purpose"`
	CourseTag        *string           `json:"courseTag,omitempty"`
	EquipmentItems   []string          `json:"equipmentItems,omitempty"`
	EquipmentOther   *string           `json:"equipmentOther,omitempty"`
	PrepStatus       map[string]string `json:"prepStatus,omitempty"`
	ArrivalDeadline  *time.Time        `json:"arrivalDeadline,omitempty"`
	ArrivalConfirmed bool              `json:"arrivalConfirmed"`
	AdminResponse    *string           `json:"adminResponse,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func FromBookingRM(rm *readmodel.BookingRM) *BookingResponse {
	return &BookingResponse{
		ID:               rm.ID,
		UserID:           rm.UserID,
		UserEmail:        rm.UserEmail,
		FacilityID:       rm.FacilityID,
		FacilityName:     rm.FacilityName,
		Start:            rm.Start,
		End:              rm.End,
		Status:           rm.Status,
		Participants:     rm.Participants,
		Purpose:          rm.Purpose,
		CourseTag:        rm.CourseTag,
		EquipmentItems:   rm.EquipmentItems,
		EquipmentOther:   rm.EquipmentOther,
		PrepStatus:       rm.PrepStatus,
		ArrivalDeadline:  rm.ArrivalDeadline,
		ArrivalConfirmed: rm.ArrivalConfirmed,
		AdminResponse:    rm.AdminResponse,
		CreatedAt:        rm.CreatedAt,
		UpdatedAt:        rm.UpdatedAt,
	}
}

func FromBookingRMs(rms []*readmodel.BookingRM) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(rms))
	for _, rm := range rms {
		out = append(out, FromBookingRM(rm))
	}
	return out
}

// FeedEntryResponse is one entry of the merged availability feed.
type FeedEntryResponse struct {
	ID         uuid.UUID `json:"id"`
	FacilityID uuid.UUID `json:"facilityId"`
	Status     string    `json:"status"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Mine       bool      `json:"mine"`
}

func FromBookingRef(ref availability.BookingRef) FeedEntryResponse {
	return FeedEntryResponse{
		ID:         ref.ID,
		FacilityID: ref.FacilityID,
		Status:     ref.Status.String(),
		Start:      ref.Start,
		End:        ref.End,
		Mine:       ref.Mine,
	}
}

func FromBookingRefs(refs []availability.BookingRef) []FeedEntryResponse {
	out := make([]FeedEntryResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, FromBookingRef(ref))
	}
	return out
}

// ConflictResponse is the 409 payload: the client shows the occupying
// bookings and rolls back its optimistic update.
type ConflictResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	ConflictingBookings []FeedEntryResponse `json:"conflictingBookings"`
}

func NewConflictResponse(msg string, conflicts []*readmodel.BookingFeedRM) ConflictResponse {
	resp := ConflictResponse{ConflictingBookings: make([]FeedEntryResponse, 0, len(conflicts))}
	resp.Error.Message = msg
	for _, c := range conflicts {
		resp.ConflictingBookings = append(resp.ConflictingBookings, FeedEntryResponse{
			ID:         c.ID,
			FacilityID: c.FacilityID,
			Status:     c.Status,
			Start:      c.Start,
			End:        c.End,
		})
	}
	return resp
}
