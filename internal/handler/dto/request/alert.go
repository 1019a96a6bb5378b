package request

import (
	"github.com/google/uuid"
)

type CreateAlertRequest struct {
	Title     string            `json:"title" binding:"required"`
	Message   string            `json:"message,omitempty"`
	Severity  string            `json:"severity" binding:"required,oneof=info warning error"`
	Equipment map[string]string `json:"equipment,omitempty"`
	BookingID *uuid.UUID        `json:"bookingId,omitempty"`
	UserID    *uuid.UUID        `json:"userId,omitempty"`
}
