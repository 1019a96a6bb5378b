// Package bookingclient is the Go client for the campus-booking REST API.
// Besides the typed endpoint calls it carries the client-side machinery a
// dashboard needs: a sequenced cache that drops out-of-order responses, a
// fixed-interval feed poller, and a deadline watcher built on the countdown
// timer.
package bookingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"campus-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const maxResponseBody = 4 << 20

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithToken seeds the client with an existing access token, skipping Login.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login authenticates and stores the access token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.AccessToken)
	return resp.User, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Feed fetches the merged booking feed: approved bookings plus, when
// authenticated, the caller's own pending ones flagged mine.
func (c *Client) Feed(ctx context.Context) ([]FeedEntry, error) {
	var entries []FeedEntry
	if err := c.do(ctx, http.MethodGet, "/bookings/all", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) Dashboard(ctx context.Context) ([]DashboardEntry, error) {
	var entries []DashboardEntry
	if err := c.do(ctx, http.MethodGet, "/availability", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) FacilityStatus(ctx context.Context, facilityID uuid.UUID) (*DashboardEntry, error) {
	var entry DashboardEntry
	if err := c.do(ctx, http.MethodGet, "/availability/"+facilityID.String(), nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DayGrid fetches the half-hour slot grid of one facility for the given day.
func (c *Client) DayGrid(ctx context.Context, facilityID uuid.UUID, date time.Time) (*DayGrid, error) {
	path := fmt.Sprintf("/availability/%s/slots?date=%s", facilityID, date.Format("2006-01-02"))
	var grid DayGrid
	if err := c.do(ctx, http.MethodGet, path, nil, &grid); err != nil {
		return nil, err
	}
	return &grid, nil
}

func (c *Client) Facilities(ctx context.Context) ([]Facility, error) {
	var facilities []Facility
	if err := c.do(ctx, http.MethodGet, "/facilities", nil, &facilities); err != nil {
		return nil, err
	}
	return facilities, nil
}

func (c *Client) Facility(ctx context.Context, id uuid.UUID) (*Facility, error) {
	var f Facility
	if err := c.do(ctx, http.MethodGet, "/facilities/"+id.String(), nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateBooking requests a booking. A 409 comes back as *ConflictError with
// the occupying bookings attached.
func (c *Client) CreateBooking(ctx context.Context, params BookingParams) (*Booking, error) {
	var b Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", params, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) UpdateBooking(ctx context.Context, id uuid.UUID, params BookingParams) (*Booking, error) {
	params.FacilityID = uuid.Nil
	var b Booking
	if err := c.do(ctx, http.MethodPut, "/bookings/"+id.String(), params, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CancelBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	if err := c.do(ctx, http.MethodPost, "/bookings/"+id.String()+"/cancel", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) ConfirmArrival(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	if err := c.do(ctx, http.MethodPost, "/bookings/"+id.String()+"/confirm-arrival", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/"+id.String(), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) MyBookings(ctx context.Context) ([]Booking, error) {
	var bookings []Booking
	if err := c.do(ctx, http.MethodGet, "/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) Alerts(ctx context.Context) ([]Alert, error) {
	var alerts []Alert
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (c *Client) MarkAlertRead(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/notifications/"+id.String()+"/read", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errs.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errs.Wrap(err, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Wrapf(err, "request failed: %s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return errs.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errs.Wrapf(err, "failed to decode response: %s %s", method, path)
	}
	return nil
}
