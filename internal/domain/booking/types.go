package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
	StatusVoid      Status = "void"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied, StatusCancelled, StatusExpired, StatusVoid:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDenied, StatusCancelled, StatusExpired, StatusVoid:
		return true
	default:
		return false
	}
}

// Occupies reports whether a booking in this status counts against facility
// availability: approved bookings occupy their slot, pending ones reserve it
// provisionally until an admin decides.
func (s Status) Occupies() bool {
	return s == StatusApproved || s == StatusPending
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
