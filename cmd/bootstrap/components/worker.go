package components

import (
	"context"
	"log/slog"

	"campus-booking/internal/infra/queue"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/config"
	"campus-booking/internal/usecase"
	"campus-booking/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewExpirySweeper,
	),
	fx.Invoke(RunExpirySweeper),
)

func NewExpirySweeper(
	bookingRepo usecase.BookingRepository,
	alertRepo usecase.AlertRepository,
	publisher queue.EventPublisher,
	clk clock.Clock,
	cfg config.BookingConfig,
	logger *slog.Logger,
) *worker.ExpirySweeper {
	return worker.NewExpirySweeper(bookingRepo, alertRepo, publisher, clk, cfg.SweepInterval, logger)
}

func RunExpirySweeper(lc fx.Lifecycle, sweeper *worker.ExpirySweeper, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("期限切れ予約の監視ワーカーを起動します")
			go sweeper.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
