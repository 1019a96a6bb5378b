package readmodel

import (
	"time"

	"github.com/google/uuid"
)

type AlertRM struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Severity  string            `json:"severity"`
	Equipment map[string]string `json:"equipment,omitempty"`
	BookingID *uuid.UUID        `json:"booking_id,omitempty"`
	UserID    *uuid.UUID        `json:"user_id,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
}
