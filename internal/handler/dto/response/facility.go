package response

import (
	"time"

	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type FacilityResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Capacity    int32             `json:"capacity"`
	Active      bool              `json:"active"`
	Description string            `json:"description,omitempty"`
	Closures    []ClosureResponse `json:"closures,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type ClosureResponse struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason string    `json:"reason,omitempty"`
}

func FromFacilityRM(rm *readmodel.FacilityRM) *FacilityResponse {
	closures := make([]ClosureResponse, 0, len(rm.Closures))
	for _, c := range rm.Closures {
		closures = append(closures, ClosureResponse{Start: c.Start, End: c.End, Reason: c.Reason})
	}
	return &FacilityResponse{
		ID:          rm.ID,
		Name:        rm.Name,
		Capacity:    rm.Capacity,
		Active:      rm.Active,
		Description: rm.Description,
		Closures:    closures,
		CreatedAt:   rm.CreatedAt,
		UpdatedAt:   rm.UpdatedAt,
	}
}

func FromFacilityRMs(rms []*readmodel.FacilityRM) []*FacilityResponse {
	out := make([]*FacilityResponse, 0, len(rms))
	for _, rm := range rms {
		out = append(out, FromFacilityRM(rm))
	}
	return out
}
