package worker

import (
	"context"
	"log/slog"
	"time"

	"campus-booking/internal/domain/alert"
	"campus-booking/internal/infra/queue"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/usecase"
	"campus-booking/internal/usecase/readmodel"
)

// ExpirySweeper periodically settles overdue bookings: pending or approved
// bookings past their end become expired, and approved bookings whose
// arrival deadline lapsed unconfirmed become void. Each settled booking
// produces a lifecycle event and an alert to its owner.
type ExpirySweeper struct {
	bookingRepo usecase.BookingRepository
	alertRepo   usecase.AlertRepository
	publisher   queue.EventPublisher
	clock       clock.Clock
	interval    time.Duration
	logger      *slog.Logger
}

func NewExpirySweeper(
	bookingRepo usecase.BookingRepository,
	alertRepo usecase.AlertRepository,
	publisher queue.EventPublisher,
	clock clock.Clock,
	interval time.Duration,
	logger *slog.Logger,
) *ExpirySweeper {
	return &ExpirySweeper{
		bookingRepo: bookingRepo,
		alertRepo:   alertRepo,
		publisher:   publisher,
		clock:       clock,
		interval:    interval,
		logger:      logger,
	}
}

// Run sweeps once immediately, then at every interval until the context is
// cancelled.
func (s *ExpirySweeper) Run(ctx context.Context) {
	s.SweepOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce performs a single settlement pass.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) {
	now := s.clock.Now()

	voided, err := s.bookingRepo.MarkVoided(ctx, now)
	if err != nil {
		s.logger.Error("未確認予約の失効処理に失敗しました", slog.String("error", err.Error()))
	} else {
		for _, rm := range voided {
			s.settle(ctx, rm, queue.RouteBookingVoided,
				"到着確認がなかったため予約が無効になりました", now)
		}
	}

	expired, err := s.bookingRepo.MarkExpired(ctx, now)
	if err != nil {
		s.logger.Error("期限切れ予約の処理に失敗しました", slog.String("error", err.Error()))
		return
	}
	for _, rm := range expired {
		s.settle(ctx, rm, queue.RouteBookingExpired, "予約が終了しました", now)
	}
}

func (s *ExpirySweeper) settle(ctx context.Context, rm *readmodel.BookingRM, route, title string, now time.Time) {
	s.logger.Info("予約を整理しました",
		slog.String("booking_id", rm.ID.String()),
		slog.String("status", rm.Status))

	a, err := alert.NewAlert(
		title,
		rm.FacilityName+" "+rm.Start.Format("2006-01-02 15:04"),
		alert.SeverityInfo,
		&rm.ID, &rm.UserID,
	)
	if err == nil {
		if err := s.alertRepo.Create(ctx, a); err != nil {
			s.logger.Warn("通知の作成に失敗しました", slog.String("error", err.Error()))
		}
	}

	event := queue.BookingEvent{
		BookingID:    rm.ID,
		UserID:       rm.UserID,
		FacilityID:   rm.FacilityID,
		FacilityName: rm.FacilityName,
		Status:       rm.Status,
		Start:        rm.Start,
		End:          rm.End,
		OccurredAt:   now,
	}
	if err := s.publisher.PublishBookingEvent(ctx, route, event); err != nil {
		s.logger.Warn("予約イベントの発行に失敗しました",
			slog.String("booking_id", rm.ID.String()),
			slog.String("route", route))
	}
}
