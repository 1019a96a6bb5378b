package request

import (
	"strings"
	"time"

	"campus-booking/internal/domain/booking"

	"github.com/google/uuid"
)

type EquipmentRequest struct {
	Items []string `json:"items,omitempty"`
	Other string   `json:"other,omitempty"`
}

type CreateBookingRequest struct {
	FacilityID   uuid.UUID         `json:"facilityId" binding:"required"`
	Start        time.Time         `json:"start" binding:"required"`
	End          time.Time         `json:"end" binding:"required"`
	Participants int               `json:"participants" binding:"required,min=1"`
	Purpose      string            `json:"purpose" binding:"required"`
	CourseTag    *string           `json:"courseTag,omitempty"`
	Equipment    *EquipmentRequest `json:"equipment,omitempty"`
}

func (r CreateBookingRequest) ToDomain() booking.Request {
	return booking.Request{
		Start:        r.Start,
		End:          r.End,
		Participants: r.Participants,
		Purpose:      strings.TrimSpace(r.Purpose),
		CourseTag:    r.CourseTag,
		Equipment:    toEquipment(r.Equipment),
	}
}

// UpdateBookingRequest carries the owner-editable fields. The facility cannot
// change on an amendment; cancel and rebook instead.
type UpdateBookingRequest struct {
	Start        time.Time         `json:"start" binding:"required"`
	End          time.Time         `json:"end" binding:"required"`
	Participants int               `json:"participants" binding:"required,min=1"`
	Purpose      string            `json:"purpose" binding:"required"`
	CourseTag    *string           `json:"courseTag,omitempty"`
	Equipment    *EquipmentRequest `json:"equipment,omitempty"`
}

func (r UpdateBookingRequest) ToDomain() booking.Request {
	return booking.Request{
		Start:        r.Start,
		End:          r.End,
		Participants: r.Participants,
		Purpose:      strings.TrimSpace(r.Purpose),
		CourseTag:    r.CourseTag,
		Equipment:    toEquipment(r.Equipment),
	}
}

func toEquipment(eq *EquipmentRequest) *booking.EquipmentRequest {
	if eq == nil || (len(eq.Items) == 0 && strings.TrimSpace(eq.Other) == "") {
		return nil
	}
	return &booking.EquipmentRequest{
		Items: eq.Items,
		Other: strings.TrimSpace(eq.Other),
	}
}

// DecisionRequest is the admin approve/deny payload.
type DecisionRequest struct {
	Response string `json:"response,omitempty"`
}

type PrepStateRequest struct {
	Item  string `json:"item" binding:"required"`
	State string `json:"state" binding:"required,oneof=pending ready unavailable"`
}
