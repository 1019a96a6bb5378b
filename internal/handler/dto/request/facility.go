package request

import (
	"time"
)

type CreateFacilityRequest struct {
	Name        string `json:"name" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	Description string `json:"description,omitempty"`
}

type UpdateFacilityRequest struct {
	Name        string `json:"name" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

type ClosureRequest struct {
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
	Reason string    `json:"reason,omitempty"`
}
