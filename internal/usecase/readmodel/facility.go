package readmodel

import (
	"time"

	"github.com/google/uuid"
)

type FacilityRM struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Capacity    int32       `json:"capacity"`
	Active      bool        `json:"active"`
	Description string      `json:"description"`
	Closures    []ClosureRM `json:"closures,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type ClosureRM struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason string    `json:"reason,omitempty"`
}
