package facility

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrEmptyName       = errors.New("facility name must not be empty")
	ErrInvalidClosure  = errors.New("closure start must be before end")
)

// Closure is an admin-defined range during which a facility cannot be booked,
// independent of any bookings (maintenance, events, term breaks).
type Closure struct {
	Start  time.Time
	End    time.Time
	Reason string
}

func NewClosure(start, end time.Time, reason string) (Closure, error) {
	if !start.Before(end) {
		return Closure{}, ErrInvalidClosure
	}
	return Closure{Start: start, End: end, Reason: reason}, nil
}

type Facility struct {
	id          uuid.UUID
	name        string
	capacity    int
	active      bool
	description string
	closures    []Closure
	createdAt   time.Time
	updatedAt   time.Time
}

func NewFacility(name string, capacity int, description string) (*Facility, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Facility{
		id:          uuid.New(),
		name:        name,
		capacity:    capacity,
		active:      true,
		description: description,
	}, nil
}

func ReconstructFacility(
	id uuid.UUID,
	name string,
	capacity int,
	active bool,
	description string,
	closures []Closure,
	createdAt, updatedAt time.Time,
) *Facility {
	return &Facility{
		id:          id,
		name:        name,
		capacity:    capacity,
		active:      active,
		description: description,
		closures:    closures,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Disable takes the facility out of service. Status derivation reports a
// disabled facility as unavailable regardless of bookings or time of day.
func (f *Facility) Disable() {
	f.active = false
}

func (f *Facility) Enable() {
	f.active = true
}

func (f *Facility) AddClosure(c Closure) {
	f.closures = append(f.closures, c)
}

// ClosedDuring reports whether any admin closure overlaps [start, end).
func (f *Facility) ClosedDuring(start, end time.Time) bool {
	for _, c := range f.closures {
		if start.Before(c.End) && end.After(c.Start) {
			return true
		}
	}
	return false
}

func (f *Facility) ID() uuid.UUID       { return f.id }
func (f *Facility) Name() string        { return f.name }
func (f *Facility) Capacity() int       { return f.capacity }
func (f *Facility) Active() bool        { return f.active }
func (f *Facility) Description() string { return f.description }
func (f *Facility) Closures() []Closure { return f.closures }
func (f *Facility) CreatedAt() time.Time { return f.createdAt }
func (f *Facility) UpdatedAt() time.Time { return f.updatedAt }
