package readmodel

import (
	"time"

	"github.com/google/uuid"
)

type BookingRM struct {
	ID               uuid.UUID         `json:"id"`
	UserID           uuid.UUID         `json:"user_id"`
	UserEmail        string            `json:"user_email"`
	FacilityID       uuid.UUID         `json:"facility_id"`
	FacilityName     string            `json:"facility_name"`
	Start            time.Time         `json:"start"`
	End              time.Time         `json:"end"`
	Status           string            `json:"status"`
	Participants     int32             `json:"participants"`
	Purpose          string            `json:"purpose"`
	CourseTag        *string           `json:"course_tag,omitempty"`
	EquipmentItems   []string          `json:"equipment_items,omitempty"`
	EquipmentOther   *string           `json:"equipment_other,omitempty"`
	PrepStatus       map[string]string `json:"prep_status,omitempty"`
	ArrivalDeadline  *time.Time        `json:"arrival_deadline,omitempty"`
	ArrivalConfirmed bool              `json:"arrival_confirmed"`
	AdminResponse    *string           `json:"admin_response,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// BookingFeedRM is the slim projection used by the public approved feed and
// by availability derivation. It deliberately omits private fields.
type BookingFeedRM struct {
	ID         uuid.UUID `json:"id"`
	FacilityID uuid.UUID `json:"facility_id"`
	Status     string    `json:"status"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}
