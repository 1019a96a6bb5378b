package booking

// PrepState tracks how far staff have gotten preparing one requested item.
type PrepState string

const (
	PrepPending     PrepState = "pending"
	PrepReady       PrepState = "ready"
	PrepUnavailable PrepState = "unavailable"
)

func (p PrepState) IsValid() bool {
	switch p {
	case PrepPending, PrepReady, PrepUnavailable:
		return true
	default:
		return false
	}
}

// EquipmentRequest is the set of named items a booking asks staff to prepare,
// plus free-text notes for anything not in the standard list.
type EquipmentRequest struct {
	Items []string `json:"items"`
	Other string   `json:"other,omitempty"`
}

func (e EquipmentRequest) IsEmpty() bool {
	return len(e.Items) == 0 && e.Other == ""
}

// Contains reports whether the named item was requested.
func (e EquipmentRequest) Contains(item string) bool {
	for _, it := range e.Items {
		if it == item {
			return true
		}
	}
	return false
}
