//go:build unit

package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"campus-booking/internal/domain/booking"
	"campus-booking/internal/domain/facility"
	"campus-booking/internal/domain/user"
	reqdto "campus-booking/internal/handler/dto/request"
	"campus-booking/internal/infra/queue"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/config"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/usecase"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminEnv struct {
	uc        usecase.AdminUseCase
	repo      *fakeBookingRepo
	facRepo   *fakeFacilityRepo
	userRepo  *fakeUserRepo
	alertRepo *fakeAlertRepo
	cache     *fakeFeedCache
	pub       *fakePublisher
	clk       *clock.MockClock
	facility  *facility.Facility
	hours     facility.OperatingHours
}

func newAdminEnv(t *testing.T, now time.Time) *adminEnv {
	t.Helper()

	f, err := facility.NewFacility("第1セミナー室", 8, "")
	require.NoError(t, err)

	env := &adminEnv{
		repo:      newFakeBookingRepo(),
		facRepo:   newFakeFacilityRepo(),
		userRepo:  newFakeUserRepo(),
		alertRepo: &fakeAlertRepo{},
		cache:     newFakeFeedCache(),
		pub:       &fakePublisher{},
		clk:       clock.NewMockClock(now),
		facility:  f,
		hours:     facility.DefaultHours(),
	}
	env.facRepo.add(f)

	cfg := config.BookingConfig{ArrivalWindow: 15 * time.Minute}
	env.uc = usecase.NewAdminUseCase(
		env.repo, env.facRepo, env.userRepo, env.alertRepo,
		env.cache, env.pub, env.clk, cfg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return env
}

func (e *adminEnv) pendingBooking(t *testing.T, start, end time.Time) *booking.Booking {
	t.Helper()
	b, err := booking.NewBooking(e.facility, e.hours, uuid.New(), booking.Request{
		Start:        start,
		End:          end,
		Participants: 4,
		Purpose:      "ゼミ発表の練習",
		Equipment:    &booking.EquipmentRequest{Items: []string{"プロジェクター"}},
	}, e.clk.Now())
	require.NoError(t, err)
	e.repo.add(b)
	return b
}

func TestApproveBooking(t *testing.T) {
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	start := base.Add(time.Hour)
	end := start.Add(time.Hour)

	t.Run("承認で到着確認期限がセットされ通知とイベントが出る", func(t *testing.T) {
		env := newAdminEnv(t, base)
		b := env.pendingBooking(t, start, end)

		rm, err := env.uc.ApproveBooking(context.Background(), b.ID(), reqdto.DecisionRequest{Response: "どうぞ"})
		require.NoError(t, err)
		assert.Equal(t, booking.StatusApproved.String(), rm.Status)
		require.NotNil(t, rm.ArrivalDeadline)
		assert.Equal(t, start.Add(15*time.Minute), *rm.ArrivalDeadline)
		require.NotNil(t, rm.AdminResponse)
		assert.Equal(t, "どうぞ", *rm.AdminResponse)

		require.Len(t, env.alertRepo.created, 1)
		assert.Equal(t, "予約が承認されました", env.alertRepo.created[0].Title())

		require.Len(t, env.pub.events, 1)
		assert.Equal(t, queue.RouteBookingApproved, env.pub.events[0].route)
		assert.Equal(t, 1, env.cache.invalidated)
	})

	t.Run("申請後に競合が承認されていたら承認を拒否", func(t *testing.T) {
		env := newAdminEnv(t, base)
		b := env.pendingBooking(t, start, end)
		env.repo.overlaps = []*readmodel.BookingFeedRM{{
			ID:         uuid.New(),
			FacilityID: env.facility.ID(),
			Status:     booking.StatusApproved.String(),
			Start:      start,
			End:        end,
		}}

		_, err := env.uc.ApproveBooking(context.Background(), b.ID(), reqdto.DecisionRequest{})
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrBookingConflict)
		assert.Equal(t, booking.StatusPending, b.Status())
	})

	t.Run("重複チェックは対象の予約自身を除外", func(t *testing.T) {
		env := newAdminEnv(t, base)
		b := env.pendingBooking(t, start, end)
		// Only the booking under decision occupies the slot.
		env.repo.overlaps = []*readmodel.BookingFeedRM{{
			ID:         b.ID(),
			FacilityID: env.facility.ID(),
			Status:     booking.StatusPending.String(),
			Start:      start,
			End:        end,
		}}

		_, err := env.uc.ApproveBooking(context.Background(), b.ID(), reqdto.DecisionRequest{})
		require.NoError(t, err)
	})

	t.Run("保留中でない予約は承認不可", func(t *testing.T) {
		env := newAdminEnv(t, base)
		b := env.pendingBooking(t, start, end)
		require.NoError(t, b.Cancel())

		_, err := env.uc.ApproveBooking(context.Background(), b.ID(), reqdto.DecisionRequest{})
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestDenyBooking(t *testing.T) {
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("却下で警告通知が出る", func(t *testing.T) {
		env := newAdminEnv(t, base)
		b := env.pendingBooking(t, base.Add(time.Hour), base.Add(2*time.Hour))

		rm, err := env.uc.DenyBooking(context.Background(), b.ID(), reqdto.DecisionRequest{Response: "満室です"})
		require.NoError(t, err)
		assert.Equal(t, booking.StatusDenied.String(), rm.Status)
		assert.Nil(t, rm.ArrivalDeadline)

		require.Len(t, env.alertRepo.created, 1)
		assert.Equal(t, "予約が却下されました", env.alertRepo.created[0].Title())
		require.Len(t, env.pub.events, 1)
		assert.Equal(t, queue.RouteBookingDenied, env.pub.events[0].route)
	})
}

func TestSetPrepState(t *testing.T) {
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("準備状態の更新", func(t *testing.T) {
		env := newAdminEnv(t, base)
		b := env.pendingBooking(t, base.Add(time.Hour), base.Add(2*time.Hour))

		rm, err := env.uc.SetPrepState(context.Background(), b.ID(), reqdto.PrepStateRequest{
			Item:  "プロジェクター",
			State: "ready",
		})
		require.NoError(t, err)
		assert.Equal(t, "ready", rm.PrepStatus["プロジェクター"])
		assert.Empty(t, env.alertRepo.created)
	})

	t.Run("利用不可になった備品は所有者へ通知", func(t *testing.T) {
		env := newAdminEnv(t, base)
		b := env.pendingBooking(t, base.Add(time.Hour), base.Add(2*time.Hour))

		_, err := env.uc.SetPrepState(context.Background(), b.ID(), reqdto.PrepStateRequest{
			Item:  "プロジェクター",
			State: "unavailable",
		})
		require.NoError(t, err)

		require.Len(t, env.alertRepo.created, 1)
		a := env.alertRepo.created[0]
		assert.Equal(t, "備品が利用できません", a.Title())
		assert.Equal(t, "unavailable", a.Equipment()["プロジェクター"])
	})

	t.Run("リクエストにない備品は更新不可", func(t *testing.T) {
		env := newAdminEnv(t, base)
		b := env.pendingBooking(t, base.Add(time.Hour), base.Add(2*time.Hour))

		_, err := env.uc.SetPrepState(context.Background(), b.ID(), reqdto.PrepStateRequest{
			Item:  "ホワイトボード",
			State: "ready",
		})
		assert.ErrorIs(t, err, errs.ErrDomainValidationFailed)
	})
}

func TestFacilityAdmin(t *testing.T) {
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("施設の作成", func(t *testing.T) {
		env := newAdminEnv(t, base)

		rm, err := env.uc.CreateFacility(context.Background(), reqdto.CreateFacilityRequest{
			Name:        "第2実験室",
			Capacity:    12,
			Description: "ドラフトチャンバーあり",
		})
		require.NoError(t, err)
		assert.Equal(t, "第2実験室", rm.Name)
		assert.True(t, rm.Active)
	})

	t.Run("定員ゼロはバリデーションエラー", func(t *testing.T) {
		env := newAdminEnv(t, base)

		_, err := env.uc.CreateFacility(context.Background(), reqdto.CreateFacilityRequest{
			Name:     "第2実験室",
			Capacity: 0,
		})
		assert.ErrorIs(t, err, errs.ErrDomainValidationFailed)
	})

	t.Run("施設の停止", func(t *testing.T) {
		env := newAdminEnv(t, base)

		rm, err := env.uc.UpdateFacility(context.Background(), env.facility.ID(), reqdto.UpdateFacilityRequest{
			Name:     env.facility.Name(),
			Capacity: env.facility.Capacity(),
			Active:   false,
		})
		require.NoError(t, err)
		assert.False(t, rm.Active)
	})

	t.Run("閉鎖期間の追加", func(t *testing.T) {
		env := newAdminEnv(t, base)

		rm, err := env.uc.AddClosure(context.Background(), env.facility.ID(), reqdto.ClosureRequest{
			Start:  base.AddDate(0, 0, 7),
			End:    base.AddDate(0, 0, 8),
			Reason: "床工事",
		})
		require.NoError(t, err)
		require.Len(t, rm.Closures, 1)
		assert.Equal(t, "床工事", rm.Closures[0].Reason)
	})

	t.Run("開始が終了より後の閉鎖は不可", func(t *testing.T) {
		env := newAdminEnv(t, base)

		_, err := env.uc.AddClosure(context.Background(), env.facility.ID(), reqdto.ClosureRequest{
			Start: base.AddDate(0, 0, 8),
			End:   base.AddDate(0, 0, 7),
		})
		assert.ErrorIs(t, err, errs.ErrDomainValidationFailed)
	})
}

func TestUserAdmin(t *testing.T) {
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	newStudent := func(t *testing.T, env *adminEnv) *user.User {
		t.Helper()
		email, err := user.NewEmail("student@example.ac.jp")
		require.NoError(t, err)
		u := user.NewUser(email, "hash", user.RoleStudent, nil)
		env.userRepo.add(u)
		return u
	}

	t.Run("利用停止と解除", func(t *testing.T) {
		env := newAdminEnv(t, base)
		u := newStudent(t, env)

		rm, err := env.uc.BanUser(context.Background(), u.ID())
		require.NoError(t, err)
		assert.Equal(t, user.StatusBanned.String(), rm.Status)

		rm, err = env.uc.UnbanUser(context.Background(), u.ID())
		require.NoError(t, err)
		assert.Equal(t, user.StatusActive.String(), rm.Status)
	})

	t.Run("管理者は利用停止にできない", func(t *testing.T) {
		env := newAdminEnv(t, base)
		email, err := user.NewEmail("admin@example.ac.jp")
		require.NoError(t, err)
		admin := user.NewUser(email, "hash", user.RoleAdmin, nil)
		env.userRepo.add(admin)

		_, err = env.uc.BanUser(context.Background(), admin.ID())
		assert.ErrorIs(t, err, errs.ErrDomainValidationFailed)
	})

	t.Run("存在しないユーザー", func(t *testing.T) {
		env := newAdminEnv(t, base)

		_, err := env.uc.BanUser(context.Background(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}

func TestListBookings(t *testing.T) {
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("ステータスで絞り込み", func(t *testing.T) {
		env := newAdminEnv(t, base)
		pending := env.pendingBooking(t, base.Add(time.Hour), base.Add(2*time.Hour))
		cancelled := env.pendingBooking(t, base.Add(3*time.Hour), base.Add(4*time.Hour))
		require.NoError(t, cancelled.Cancel())

		rms, err := env.uc.ListBookings(context.Background(), []string{"pending"})
		require.NoError(t, err)
		require.Len(t, rms, 1)
		assert.Equal(t, pending.ID(), rms[0].ID)
	})

	t.Run("不正なステータスは拒否", func(t *testing.T) {
		env := newAdminEnv(t, base)

		_, err := env.uc.ListBookings(context.Background(), []string{"bogus"})
		assert.ErrorIs(t, err, errs.ErrDomainValidationFailed)
	})
}
