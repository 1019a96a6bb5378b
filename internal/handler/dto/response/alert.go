package response

import (
	"time"

	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type AlertResponse struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Severity  string            `json:"severity"`
	Equipment map[string]string `json:"equipment,omitempty"`
	BookingID *uuid.UUID        `json:"bookingId,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}

func FromAlertRM(rm *readmodel.AlertRM) *AlertResponse {
	return &AlertResponse{
		ID:        rm.ID,
		Title:     rm.Title,
		Message:   rm.Message,
		Severity:  rm.Severity,
		Equipment: rm.Equipment,
		BookingID: rm.BookingID,
		Read:      rm.Read,
		CreatedAt: rm.CreatedAt,
	}
}

func FromAlertRMs(rms []*readmodel.AlertRM) []*AlertResponse {
	out := make([]*AlertResponse, 0, len(rms))
	for _, rm := range rms {
		out = append(out, FromAlertRM(rm))
	}
	return out
}
