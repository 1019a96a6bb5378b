package bookingclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is any non-2xx response from the booking service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("booking api: %d %s", e.StatusCode, e.Message)
}

// ConflictError is the 409 response to a booking mutation: the requested slot
// overlaps existing bookings. It is terminal, not transient; retrying the same
// request cannot succeed until one of the occupying bookings goes away, so
// callers should surface Conflicts and roll back any optimistic update.
type ConflictError struct {
	APIError
	Conflicts []FeedEntry
}

// IsConflict reports whether err wraps a booking conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// errorBody covers both error shapes the service emits: a plain
// {"error": "..."} string and the structured conflict payload whose error
// field is an object.
type errorBody struct {
	Error               json.RawMessage `json:"error"`
	ConflictingBookings []FeedEntry     `json:"conflictingBookings"`
}

func (b errorBody) message() string {
	if len(b.Error) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Error, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b.Error, &obj); err == nil {
		return obj.Message
	}
	return ""
}

func decodeError(statusCode int, body []byte) error {
	var parsed errorBody
	_ = json.Unmarshal(body, &parsed)

	msg := parsed.message()
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	base := APIError{StatusCode: statusCode, Message: msg}

	if statusCode == http.StatusConflict {
		return &ConflictError{APIError: base, Conflicts: parsed.ConflictingBookings}
	}
	return &base
}
