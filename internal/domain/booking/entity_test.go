//go:build unit

package booking_test

import (
	"testing"
	"time"

	"campus-booking/internal/domain/booking"
	"campus-booking/internal/domain/facility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/google/uuid"
)

var (
	now   = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	hours = facility.DefaultHours()
)

func testFacility(t *testing.T) *facility.Facility {
	t.Helper()
	f, err := facility.NewFacility("Seminar Room A", 8, "")
	require.NoError(t, err)
	return f
}

func validRequest() booking.Request {
	return booking.Request{
		Start:        now.Add(2 * time.Hour),
		End:          now.Add(3 * time.Hour),
		Participants: 4,
		Purpose:      "study group",
	}
}

func TestNewBooking(t *testing.T) {
	f := testFacility(t)

	t.Run("基本成功ケース", func(t *testing.T) {
		b, err := booking.NewBooking(f, hours, uuid.New(), validRequest(), now)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, b.Status())
		assert.Nil(t, b.ArrivalDeadline())
		assert.False(t, b.ArrivalConfirmed())
	})

	cases := []struct {
		name   string
		mutate func(*booking.Request)
		errIs  error
	}{
		{
			name:   "開始が終了以降はNG",
			mutate: func(r *booking.Request) { r.End = r.Start },
			errIs:  booking.ErrInvalidTimeSlot,
		},
		{
			name:   "過去の開始時刻はNG",
			mutate: func(r *booking.Request) { r.Start = now.Add(-time.Hour); r.End = now },
			errIs:  booking.ErrSlotInPast,
		},
		{
			name: "営業時間外はNG",
			mutate: func(r *booking.Request) {
				r.Start = now.Add(11 * time.Hour) // 20:00
				r.End = now.Add(12 * time.Hour)
			},
			errIs: booking.ErrOutsideOperatingHours,
		},
		{
			name:   "参加人数ゼロはNG",
			mutate: func(r *booking.Request) { r.Participants = 0 },
			errIs:  booking.ErrInvalidParticipants,
		},
		{
			name:   "定員超過はNG",
			mutate: func(r *booking.Request) { r.Participants = 9 },
			errIs:  booking.ErrCapacityExceeded,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := booking.NewBooking(f, hours, uuid.New(), req, now)
			assert.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestApprovalFlow(t *testing.T) {
	f := testFacility(t)

	t.Run("承認で到着期限がセットされる", func(t *testing.T) {
		b, err := booking.NewBooking(f, hours, uuid.New(), validRequest(), now)
		require.NoError(t, err)

		require.NoError(t, b.Approve("room unlocked at front desk", 15*time.Minute))
		assert.Equal(t, booking.StatusApproved, b.Status())
		require.NotNil(t, b.ArrivalDeadline())
		assert.Equal(t, b.Start().Add(15*time.Minute), *b.ArrivalDeadline())
		require.NotNil(t, b.AdminResponse())
	})

	t.Run("承認済みの再承認はNG", func(t *testing.T) {
		b, _ := booking.NewBooking(f, hours, uuid.New(), validRequest(), now)
		require.NoError(t, b.Approve("", 15*time.Minute))
		assert.ErrorIs(t, b.Approve("", 15*time.Minute), booking.ErrNotPending)
	})

	t.Run("却下", func(t *testing.T) {
		b, _ := booking.NewBooking(f, hours, uuid.New(), validRequest(), now)
		require.NoError(t, b.Deny("double-booked for orientation"))
		assert.Equal(t, booking.StatusDenied, b.Status())
	})

	t.Run("却下済みのキャンセルはNG", func(t *testing.T) {
		b, _ := booking.NewBooking(f, hours, uuid.New(), validRequest(), now)
		require.NoError(t, b.Deny(""))
		assert.ErrorIs(t, b.Cancel(), booking.ErrNotActive)
	})
}

func TestConfirmArrival(t *testing.T) {
	f := testFacility(t)

	newApproved := func(t *testing.T) *booking.Booking {
		t.Helper()
		b, err := booking.NewBooking(f, hours, uuid.New(), validRequest(), now)
		require.NoError(t, err)
		require.NoError(t, b.Approve("", 15*time.Minute))
		return b
	}

	t.Run("期限内の確認OK", func(t *testing.T) {
		b := newApproved(t)
		require.NoError(t, b.ConfirmArrival(b.Start().Add(10*time.Minute)))
		assert.True(t, b.ArrivalConfirmed())
	})

	t.Run("期限超過はNG", func(t *testing.T) {
		b := newApproved(t)
		err := b.ConfirmArrival(b.Start().Add(20 * time.Minute))
		assert.ErrorIs(t, err, booking.ErrDeadlinePassed)
	})

	t.Run("二重確認はNG", func(t *testing.T) {
		b := newApproved(t)
		require.NoError(t, b.ConfirmArrival(b.Start()))
		assert.ErrorIs(t, b.ConfirmArrival(b.Start()), booking.ErrAlreadyConfirmed)
	})

	t.Run("未承認の確認はNG", func(t *testing.T) {
		b, _ := booking.NewBooking(f, hours, uuid.New(), validRequest(), now)
		assert.ErrorIs(t, b.ConfirmArrival(now), booking.ErrNotApproved)
	})
}

func TestExpireAndVoid(t *testing.T) {
	f := testFacility(t)

	t.Run("終了後のExpire", func(t *testing.T) {
		b, _ := booking.NewBooking(f, hours, uuid.New(), validRequest(), now)
		require.NoError(t, b.Approve("", 15*time.Minute))
		require.NoError(t, b.Expire(b.End().Add(time.Minute)))
		assert.Equal(t, booking.StatusExpired, b.Status())
	})

	t.Run("終了前のExpireはNG", func(t *testing.T) {
		b, _ := booking.NewBooking(f, hours, uuid.New(), validRequest(), now)
		assert.Error(t, b.Expire(b.End().Add(-time.Minute)))
	})

	t.Run("到着未確認で期限超過はVoid", func(t *testing.T) {
		b, _ := booking.NewBooking(f, hours, uuid.New(), validRequest(), now)
		require.NoError(t, b.Approve("", 15*time.Minute))
		require.NoError(t, b.Void(b.ArrivalDeadline().Add(time.Second)))
		assert.Equal(t, booking.StatusVoid, b.Status())
	})

	t.Run("到着確認済みはVoidされない", func(t *testing.T) {
		b, _ := booking.NewBooking(f, hours, uuid.New(), validRequest(), now)
		require.NoError(t, b.Approve("", 15*time.Minute))
		require.NoError(t, b.ConfirmArrival(b.Start()))
		assert.ErrorIs(t, b.Void(b.ArrivalDeadline().Add(time.Hour)), booking.ErrAlreadyConfirmed)
	})
}

func TestEquipmentPrep(t *testing.T) {
	f := testFacility(t)

	req := validRequest()
	req.Equipment = &booking.EquipmentRequest{Items: []string{"Projector", "HDMI cable"}, Other: "3 extension cords"}

	t.Run("申請品目は初期状態pending", func(t *testing.T) {
		b, err := booking.NewBooking(f, hours, uuid.New(), req, now)
		require.NoError(t, err)
		assert.Equal(t, booking.PrepPending, b.PrepStatus()["Projector"])
		assert.Equal(t, booking.PrepPending, b.PrepStatus()["HDMI cable"])
	})

	t.Run("準備状況の更新", func(t *testing.T) {
		b, _ := booking.NewBooking(f, hours, uuid.New(), req, now)
		require.NoError(t, b.SetPrepState("Projector", booking.PrepReady))
		assert.Equal(t, booking.PrepReady, b.PrepStatus()["Projector"])
	})

	t.Run("未申請品目の更新はNG", func(t *testing.T) {
		b, _ := booking.NewBooking(f, hours, uuid.New(), req, now)
		assert.ErrorIs(t, b.SetPrepState("Drone", booking.PrepReady), booking.ErrItemNotRequested)
	})
}

func TestAmend(t *testing.T) {
	f := testFacility(t)

	t.Run("pending中の変更OK", func(t *testing.T) {
		b, _ := booking.NewBooking(f, hours, uuid.New(), validRequest(), now)
		req := validRequest()
		req.Participants = 6
		require.NoError(t, b.Amend(f, hours, req, now))
		assert.Equal(t, 6, b.Participants())
	})

	t.Run("承認後の変更はNG", func(t *testing.T) {
		b, _ := booking.NewBooking(f, hours, uuid.New(), validRequest(), now)
		require.NoError(t, b.Approve("", 15*time.Minute))
		assert.ErrorIs(t, b.Amend(f, hours, validRequest(), now), booking.ErrNotPending)
	})
}
