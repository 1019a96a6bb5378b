package booking

import (
	"errors"
	"time"

	"campus-booking/internal/domain/facility"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeSlot       = errors.New("start time must be before end time")
	ErrSlotInPast            = errors.New("start time cannot be in the past")
	ErrOutsideOperatingHours = errors.New("slot is outside operating hours")
	ErrInvalidParticipants   = errors.New("participant count must be positive")
	ErrCapacityExceeded      = errors.New("participant count exceeds facility capacity")
	ErrInvalidStatus         = errors.New("invalid booking status")
	ErrNotPending            = errors.New("booking is not pending")
	ErrNotActive             = errors.New("booking is not pending or approved")
	ErrNotApproved           = errors.New("booking is not approved")
	ErrNoDeadline            = errors.New("booking has no arrival deadline")
	ErrDeadlinePassed        = errors.New("arrival confirmation deadline has passed")
	ErrAlreadyConfirmed      = errors.New("arrival already confirmed")
	ErrItemNotRequested      = errors.New("equipment item was not requested")
	ErrInvalidPrepState      = errors.New("invalid preparation state")
)

// Request is the user-editable portion of a booking, validated as a unit both
// on creation and on owner edits while the booking is still pending.
type Request struct {
	Start        time.Time
	End          time.Time
	Participants int
	Purpose      string
	CourseTag    *string
	Equipment    *EquipmentRequest
}

type Booking struct {
	id               uuid.UUID
	userID           uuid.UUID
	facilityID       uuid.UUID
	start            time.Time
	end              time.Time
	status           Status
	participants     int
	purpose          string
	courseTag        *string
	equipment        *EquipmentRequest
	prepStatus       map[string]PrepState
	arrivalDeadline  *time.Time
	arrivalConfirmed bool
	adminResponse    *string
	createdAt        time.Time
	updatedAt        time.Time
}

// NewBooking creates a pending booking request against the given facility.
// The operating-hours check applies to both endpoints of the slot; overnight
// bookings are not a thing on this campus.
func NewBooking(
	f *facility.Facility,
	hours facility.OperatingHours,
	userID uuid.UUID,
	req Request,
	now time.Time,
) (*Booking, error) {
	if err := validateRequest(f, hours, req, now); err != nil {
		return nil, err
	}

	return &Booking{
		id:           uuid.New(),
		userID:       userID,
		facilityID:   f.ID(),
		start:        req.Start,
		end:          req.End,
		status:       StatusPending,
		participants: req.Participants,
		purpose:      req.Purpose,
		courseTag:    req.CourseTag,
		equipment:    req.Equipment,
		prepStatus:   initialPrepStatus(req.Equipment),
	}, nil
}

func validateRequest(f *facility.Facility, hours facility.OperatingHours, req Request, now time.Time) error {
	if !req.Start.Before(req.End) {
		return ErrInvalidTimeSlot
	}
	if req.Start.Before(now) {
		return ErrSlotInPast
	}
	if !hours.Contains(req.Start) || !hours.Contains(req.End.Add(-time.Minute)) {
		return ErrOutsideOperatingHours
	}
	if req.Participants <= 0 {
		return ErrInvalidParticipants
	}
	if req.Participants > f.Capacity() {
		return ErrCapacityExceeded
	}
	return nil
}

func initialPrepStatus(eq *EquipmentRequest) map[string]PrepState {
	if eq == nil || len(eq.Items) == 0 {
		return nil
	}
	prep := make(map[string]PrepState, len(eq.Items))
	for _, item := range eq.Items {
		prep[item] = PrepPending
	}
	return prep
}

func ReconstructBooking(
	id, userID, facilityID uuid.UUID,
	start, end time.Time,
	status Status,
	participants int,
	purpose string,
	courseTag *string,
	equipment *EquipmentRequest,
	prepStatus map[string]PrepState,
	arrivalDeadline *time.Time,
	arrivalConfirmed bool,
	adminResponse *string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:               id,
		userID:           userID,
		facilityID:       facilityID,
		start:            start,
		end:              end,
		status:           status,
		participants:     participants,
		purpose:          purpose,
		courseTag:        courseTag,
		equipment:        equipment,
		prepStatus:       prepStatus,
		arrivalDeadline:  arrivalDeadline,
		arrivalConfirmed: arrivalConfirmed,
		adminResponse:    adminResponse,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Amend replaces the user-editable fields. Only the owner may amend, and only
// while the booking is still pending.
func (b *Booking) Amend(f *facility.Facility, hours facility.OperatingHours, req Request, now time.Time) error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	if err := validateRequest(f, hours, req, now); err != nil {
		return err
	}

	b.start = req.Start
	b.end = req.End
	b.participants = req.Participants
	b.purpose = req.Purpose
	b.courseTag = req.CourseTag
	b.equipment = req.Equipment
	b.prepStatus = initialPrepStatus(req.Equipment)
	return nil
}

// Approve grants a pending booking and arms the arrival-confirmation deadline
// at start + window.
func (b *Booking) Approve(response string, arrivalWindow time.Duration) error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	b.status = StatusApproved
	deadline := b.start.Add(arrivalWindow)
	b.arrivalDeadline = &deadline
	if response != "" {
		b.adminResponse = &response
	}
	return nil
}

func (b *Booking) Deny(response string) error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	b.status = StatusDenied
	if response != "" {
		b.adminResponse = &response
	}
	return nil
}

// Cancel discards a pending or approved booking. Callers enforce who is
// allowed to cancel (owner or admin).
func (b *Booking) Cancel() error {
	if !b.status.Occupies() {
		return ErrNotActive
	}
	b.status = StatusCancelled
	return nil
}

// ConfirmArrival marks the owner as present before the deadline lapses.
func (b *Booking) ConfirmArrival(now time.Time) error {
	if b.status != StatusApproved {
		return ErrNotApproved
	}
	if b.arrivalConfirmed {
		return ErrAlreadyConfirmed
	}
	if b.arrivalDeadline == nil {
		return ErrNoDeadline
	}
	if now.After(*b.arrivalDeadline) {
		return ErrDeadlinePassed
	}
	b.arrivalConfirmed = true
	return nil
}

// Expire transitions a booking past its end time. Both pending requests that
// were never decided and approved bookings that ran out fall here.
func (b *Booking) Expire(now time.Time) error {
	if !b.status.Occupies() {
		return ErrNotActive
	}
	if !now.After(b.end) {
		return ErrNotActive
	}
	b.status = StatusExpired
	return nil
}

// Void lapses an approved booking whose arrival deadline passed unconfirmed.
func (b *Booking) Void(now time.Time) error {
	if b.status != StatusApproved {
		return ErrNotApproved
	}
	if b.arrivalConfirmed {
		return ErrAlreadyConfirmed
	}
	if b.arrivalDeadline == nil || !now.After(*b.arrivalDeadline) {
		return ErrNoDeadline
	}
	b.status = StatusVoid
	return nil
}

// SetPrepState records staff progress on one requested equipment item.
func (b *Booking) SetPrepState(item string, state PrepState) error {
	if !state.IsValid() {
		return ErrInvalidPrepState
	}
	if b.equipment == nil || !b.equipment.Contains(item) {
		return ErrItemNotRequested
	}
	if b.prepStatus == nil {
		b.prepStatus = make(map[string]PrepState)
	}
	b.prepStatus[item] = state
	return nil
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

// InProgress reports whether the booking currently occupies its facility.
func (b *Booking) InProgress(now time.Time) bool {
	return b.status == StatusApproved && !now.Before(b.start) && !now.After(b.end)
}

func (b *Booking) ID() uuid.UUID                    { return b.id }
func (b *Booking) UserID() uuid.UUID                { return b.userID }
func (b *Booking) FacilityID() uuid.UUID            { return b.facilityID }
func (b *Booking) Start() time.Time                 { return b.start }
func (b *Booking) End() time.Time                   { return b.end }
func (b *Booking) Status() Status                   { return b.status }
func (b *Booking) Participants() int                { return b.participants }
func (b *Booking) Purpose() string                  { return b.purpose }
func (b *Booking) CourseTag() *string               { return b.courseTag }
func (b *Booking) Equipment() *EquipmentRequest     { return b.equipment }
func (b *Booking) PrepStatus() map[string]PrepState { return b.prepStatus }
func (b *Booking) ArrivalDeadline() *time.Time      { return b.arrivalDeadline }
func (b *Booking) ArrivalConfirmed() bool           { return b.arrivalConfirmed }
func (b *Booking) AdminResponse() *string           { return b.adminResponse }
func (b *Booking) CreatedAt() time.Time             { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time             { return b.updatedAt }
