package facility

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidHours = errors.New("opening time must be before closing time")

// OperatingHours is the daily window during which bookings are normally
// permitted, expressed as minutes from midnight in the facility's timezone.
// The window is half-open: [open, close).
type OperatingHours struct {
	openMin  int
	closeMin int
}

// DefaultHours is the campus-wide 07:30–19:00 window.
func DefaultHours() OperatingHours {
	return OperatingHours{openMin: 7*60 + 30, closeMin: 19 * 60}
}

func NewOperatingHours(open, close time.Duration) (OperatingHours, error) {
	o := int(open / time.Minute)
	c := int(close / time.Minute)
	if o < 0 || c > 24*60 || o >= c {
		return OperatingHours{}, ErrInvalidHours
	}
	return OperatingHours{openMin: o, closeMin: c}, nil
}

// ParseOperatingHours builds a window from "HH:MM" strings, the format used
// in configuration.
func ParseOperatingHours(open, close string) (OperatingHours, error) {
	o, err := parseClockTime(open)
	if err != nil {
		return OperatingHours{}, err
	}
	c, err := parseClockTime(close)
	if err != nil {
		return OperatingHours{}, err
	}
	return NewOperatingHours(o, c)
}

func parseClockTime(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Contains reports whether the instant falls inside the daily window,
// evaluated against the instant's own location.
func (h OperatingHours) Contains(t time.Time) bool {
	mins := t.Hour()*60 + t.Minute()
	return mins >= h.openMin && mins < h.closeMin
}

// WindowOn anchors the daily window on the given date, in that date's location.
func (h OperatingHours) WindowOn(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	return midnight.Add(time.Duration(h.openMin) * time.Minute),
		midnight.Add(time.Duration(h.closeMin) * time.Minute)
}

func (h OperatingHours) Open() time.Duration  { return time.Duration(h.openMin) * time.Minute }
func (h OperatingHours) Close() time.Duration { return time.Duration(h.closeMin) * time.Minute }

func (h OperatingHours) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", h.openMin/60, h.openMin%60, h.closeMin/60, h.closeMin%60)
}
