package bookingclient

import (
	"encoding/json"
	"time"

	"campus-booking/internal/domain/availability"
	"campus-booking/internal/domain/booking"

	"github.com/google/uuid"
)

// Aliases for the derivation types appearing in this package's exported
// signatures. Importers outside this module cannot name the internal
// packages, so the names are re-exported here.
type (
	BookingRef     = availability.BookingRef
	Derivation     = availability.Derivation
	FacilityStatus = availability.FacilityStatus
)

// LooseTime decodes RFC 3339 timestamps but degrades to the zero time when the
// value is malformed instead of failing the whole payload. A single corrupt
// booking must not blank the dashboard; consumers drop zero-time entries via
// BookingRef.Valid before deriving anything from them.
type LooseTime struct {
	time.Time
}

func (t *LooseTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Time = time.Time{}
		return nil
	}
	t.Time = parsed
	return nil
}

// FeedEntry is one entry of the merged booking feed.
type FeedEntry struct {
	ID         uuid.UUID `json:"id"`
	FacilityID uuid.UUID `json:"facilityId"`
	Status     string    `json:"status"`
	Start      LooseTime `json:"start"`
	End        LooseTime `json:"end"`
	Mine       bool      `json:"mine"`
}

// Ref projects the entry into the derivation engine's input shape. Entries
// whose timestamps failed to decode come out with zero times and report
// Valid() == false.
func (e FeedEntry) Ref() BookingRef {
	return BookingRef{
		ID:         e.ID,
		FacilityID: e.FacilityID,
		Status:     booking.Status(e.Status),
		Start:      e.Start.Time,
		End:        e.End.Time,
		Mine:       e.Mine,
	}
}

// Refs converts feed entries to derivation inputs, dropping the malformed ones.
func Refs(entries []FeedEntry) []BookingRef {
	refs := make([]BookingRef, 0, len(entries))
	for _, e := range entries {
		if ref := e.Ref(); ref.Valid() {
			refs = append(refs, ref)
		}
	}
	return refs
}

type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	Department *string   `json:"department,omitempty"`
}

type Closure struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason string    `json:"reason,omitempty"`
}

type Facility struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Capacity    int32     `json:"capacity"`
	Active      bool      `json:"active"`
	Description string    `json:"description,omitempty"`
	Closures    []Closure `json:"closures,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Booking struct {
	ID               uuid.UUID         `json:"id"`
	UserID           uuid.UUID         `json:"userId"`
	UserEmail        string            `json:"userEmail"`
	FacilityID       uuid.UUID         `json:"facilityId"`
	FacilityName     string            `json:"facilityName"`
	Start            LooseTime         `json:"start"`
	End              LooseTime         `json:"end"`
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

type DashboardEntry struct {
	Facility *Facility  `json:"facility"`
	Status   string     `json:"status"`
	Label    string     `json:"label"`
	Booking  *FeedEntry `json:"booking,omitempty"`
}

type Slot struct {
	Start      time.Time   `json:"start"`
	End        time.Time   `json:"end"`
	Scheduled  bool        `json:"scheduled"`
	BookingIDs []uuid.UUID `json:"bookingIds,omitempty"`
}

type Range struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Scheduled bool      `json:"scheduled"`
}

type DayGrid struct {
	FacilityID    uuid.UUID `json:"facilityId"`
	Date          string    `json:"date"`
	Slots         []Slot    `json:"slots"`
	Ranges        []Range   `json:"ranges"`
	NextAvailable *Range    `json:"nextAvailable,omitempty"`
}

type Alert struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Severity  string            `json:"severity"`
	Equipment map[string]string `json:"equipment,omitempty"`
	BookingID *uuid.UUID        `json:"bookingId,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}

// EquipmentRequest mirrors the structured equipment payload of a booking
// request.
type EquipmentRequest struct {
	Items []string `json:"items,omitempty"`
	Other string   `json:"other,omitempty"`
}

// BookingParams carries the caller-editable booking fields for create and
// update calls. FacilityID is ignored on update; a booking cannot move
// between facilities.
type BookingParams struct {
	FacilityID   uuid.UUID         `json:"facilityId,omitempty"`
	Start        time.Time         `json:"start"`
	End          time.Time         `json:"end"`
	Participants int               `json:"participants"`
	Purpose      string            `json:"purpose"`
	CourseTag    *string           `json:"courseTag,omitempty"`
	Equipment    *EquipmentRequest `json:"equipment,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}
