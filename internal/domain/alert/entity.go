package alert

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle      = errors.New("alert title must not be empty")
	ErrInvalidSeverity = errors.New("invalid alert severity")
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true
	default:
		return false
	}
}

func NewSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.IsValid() {
		return "", ErrInvalidSeverity
	}
	return sev, nil
}

// Alert is an immutable notification record. Equipment is the structured
// field new writers populate; older records instead embed a JSON fragment in
// Message, recovered by ParseLegacyEquipment.
type Alert struct {
	id        uuid.UUID
	title     string
	message   string
	severity  Severity
	equipment map[string]string
	bookingID *uuid.UUID
	userID    *uuid.UUID
	read      bool
	createdAt time.Time
}

func NewAlert(title, message string, severity Severity, bookingID, userID *uuid.UUID) (*Alert, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !severity.IsValid() {
		return nil, ErrInvalidSeverity
	}
	return &Alert{
		id:        uuid.New(),
		title:     title,
		message:   message,
		severity:  severity,
		bookingID: bookingID,
		userID:    userID,
	}, nil
}

// WithEquipment attaches structured equipment status to a new alert.
func (a *Alert) WithEquipment(equipment map[string]string) *Alert {
	a.equipment = equipment
	return a
}

func ReconstructAlert(
	id uuid.UUID,
	title, message string,
	severity Severity,
	equipment map[string]string,
	bookingID, userID *uuid.UUID,
	read bool,
	createdAt time.Time,
) *Alert {
	return &Alert{
		id:        id,
		title:     title,
		message:   message,
		severity:  severity,
		equipment: equipment,
		bookingID: bookingID,
		userID:    userID,
		read:      read,
		createdAt: createdAt,
	}
}

func (a *Alert) MarkRead() {
	a.read = true
}

// EquipmentStatus returns the structured field when present, otherwise falls
// back to recovering it from legacy message text. The second return is the
// display message with any embedded fragment stripped.
func (a *Alert) EquipmentStatus() (map[string]string, string) {
	if len(a.equipment) > 0 {
		return a.equipment, a.message
	}
	return ParseLegacyEquipment(a.message)
}

func (a *Alert) ID() uuid.UUID                { return a.id }
func (a *Alert) Title() string                { return a.title }
func (a *Alert) Message() string              { return a.message }
func (a *Alert) Severity() Severity           { return a.severity }
func (a *Alert) Equipment() map[string]string { return a.equipment }
func (a *Alert) BookingID() *uuid.UUID        { return a.bookingID }
func (a *Alert) UserID() *uuid.UUID           { return a.userID }
func (a *Alert) Read() bool                   { return a.read }
func (a *Alert) CreatedAt() time.Time         { return a.createdAt }
