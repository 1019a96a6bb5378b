//go:build unit

package availability_test

import (
	"testing"
	"time"

	"campus-booking/internal/domain/availability"
	"campus-booking/internal/domain/booking"
	"campus-booking/internal/domain/facility"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	roomID = uuid.New()
	hours  = facility.DefaultHours()
	// 2025-04-01 10:00, well inside operating hours
	now = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
)

func ref(status booking.Status, start, end time.Time) availability.BookingRef {
	return availability.BookingRef{
		ID:         uuid.New(),
		FacilityID: roomID,
		Status:     status,
		Start:      start,
		End:        end,
	}
}

func at(h, m int) time.Time {
	return time.Date(2025, 4, 1, h, m, 0, 0, time.UTC)
}

func TestDeriveStatus(t *testing.T) {
	t.Run("無効化された施設は常にunavailable", func(t *testing.T) {
		refs := []availability.BookingRef{ref(booking.StatusApproved, at(9, 0), at(11, 0))}
		d := availability.DeriveStatus(refs, roomID, false, now, hours)
		assert.Equal(t, availability.StatusUnavailable, d.Status)
		assert.Nil(t, d.Booking)

		// Even at midnight the admin override wins over "closed".
		d = availability.DeriveStatus(nil, roomID, false, at(2, 0), hours)
		assert.Equal(t, availability.StatusUnavailable, d.Status)
	})

	t.Run("進行中の承認済み予約はbooked", func(t *testing.T) {
		current := ref(booking.StatusApproved, at(9, 30), at(10, 30))
		refs := []availability.BookingRef{current}

		d := availability.DeriveStatus(refs, roomID, true, now, hours)
		assert.Equal(t, availability.StatusBooked, d.Status)
		assert.Equal(t, "In Use", d.Label)
		require.NotNil(t, d.Booking)
		assert.Equal(t, current.ID, d.Booking.ID)
		assert.Equal(t, at(10, 30), d.Booking.End)
	})

	t.Run("進行中のpendingはbookedにならない", func(t *testing.T) {
		refs := []availability.BookingRef{ref(booking.StatusPending, at(9, 30), at(10, 30))}
		d := availability.DeriveStatus(refs, roomID, true, now, hours)
		// Pending overlap still shows scheduled/booked-free behaviour:
		// the slot is not granted, so the room is not "In Use".
		assert.NotEqual(t, availability.StatusBooked, d.Status)
	})

	t.Run("営業時間外はclosed", func(t *testing.T) {
		d := availability.DeriveStatus(nil, roomID, true, at(20, 0), hours)
		assert.Equal(t, availability.StatusClosed, d.Status)

		d = availability.DeriveStatus(nil, roomID, true, at(7, 0), hours)
		assert.Equal(t, availability.StatusClosed, d.Status)
	})

	t.Run("営業時間外でも進行中予約はbooked優先", func(t *testing.T) {
		refs := []availability.BookingRef{ref(booking.StatusApproved, at(18, 30), at(19, 30))}
		d := availability.DeriveStatus(refs, roomID, true, at(19, 15), hours)
		assert.Equal(t, availability.StatusBooked, d.Status)
	})

	t.Run("今後の予約があればscheduled、最も早い開始を選ぶ", func(t *testing.T) {
		later := ref(booking.StatusApproved, at(14, 0), at(15, 0))
		sooner := ref(booking.StatusPending, at(11, 0), at(11, 30))
		// Deliberately unsorted input: selection must not rely on feed order.
		refs := []availability.BookingRef{later, sooner}

		d := availability.DeriveStatus(refs, roomID, true, now, hours)
		assert.Equal(t, availability.StatusScheduled, d.Status)
		require.NotNil(t, d.Booking)
		assert.Equal(t, sooner.ID, d.Booking.ID)
	})

	t.Run("予約なしはavailable", func(t *testing.T) {
		d := availability.DeriveStatus(nil, roomID, true, now, hours)
		assert.Equal(t, availability.StatusAvailable, d.Status)
		assert.Equal(t, "Available", d.Label)
	})

	t.Run("終了済み・取消済みの予約は無視", func(t *testing.T) {
		refs := []availability.BookingRef{
			ref(booking.StatusApproved, at(8, 0), at(9, 0)),   // already over
			ref(booking.StatusCancelled, at(11, 0), at(12, 0)), // cancelled
			ref(booking.StatusDenied, at(13, 0), at(14, 0)),    // denied
		}
		d := availability.DeriveStatus(refs, roomID, true, now, hours)
		assert.Equal(t, availability.StatusAvailable, d.Status)
	})

	t.Run("他施設の予約は無視", func(t *testing.T) {
		other := ref(booking.StatusApproved, at(9, 30), at(10, 30))
		other.FacilityID = uuid.New()
		d := availability.DeriveStatus([]availability.BookingRef{other}, roomID, true, now, hours)
		assert.Equal(t, availability.StatusAvailable, d.Status)
	})

	t.Run("不正な時刻の予約は除外", func(t *testing.T) {
		broken := availability.BookingRef{ID: uuid.New(), FacilityID: roomID, Status: booking.StatusApproved}
		d := availability.DeriveStatus([]availability.BookingRef{broken}, roomID, true, now, hours)
		assert.Equal(t, availability.StatusAvailable, d.Status)
	})

	// The worked example: capacity 8, active, hours 07:30-19:00, now 10:00.
	// One approved booking already ended, one pending at 11:00.
	t.Run("仕様例シナリオ", func(t *testing.T) {
		ended := ref(booking.StatusApproved, at(9, 0), at(9, 30))
		upcoming := ref(booking.StatusPending, at(11, 0), at(11, 30))
		d := availability.DeriveStatus([]availability.BookingRef{ended, upcoming}, roomID, true, now, hours)

		assert.Equal(t, availability.StatusScheduled, d.Status)
		assert.Equal(t, "Scheduled", d.Label)
		require.NotNil(t, d.Booking)
		assert.Equal(t, upcoming.ID, d.Booking.ID)
	})
}

func TestMerge(t *testing.T) {
	t.Run("ID重複は一度だけ、自分のコピーが優先", func(t *testing.T) {
		shared := ref(booking.StatusApproved, at(11, 0), at(12, 0))
		publicCopy := shared
		ownCopy := shared
		other := ref(booking.StatusApproved, at(13, 0), at(14, 0))

		merged := availability.Merge([]availability.BookingRef{publicCopy, other}, []availability.BookingRef{ownCopy})
		require.Len(t, merged, 2)

		var found *availability.BookingRef
		for i := range merged {
			if merged[i].ID == shared.ID {
				found = &merged[i]
			}
		}
		require.NotNil(t, found)
		assert.True(t, found.Mine)
	})

	t.Run("空フィード同士", func(t *testing.T) {
		assert.Empty(t, availability.Merge(nil, nil))
	})
}
