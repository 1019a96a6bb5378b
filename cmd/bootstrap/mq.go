package bootstrap

import (
	"context"
	"log/slog"

	"campus-booking/internal/infra/queue"
	"campus-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var MQModule = fx.Module("mq",
	fx.Provide(
		fx.Annotate(
			NewEventPublisher,
			fx.As(new(queue.EventPublisher)),
		),
	),
)

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*queue.AMQPPublisher, error) {
	publisher, cleanup, err := queue.NewAMQPPublisher(cfg.MQ, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return publisher, nil
}
