package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"campus-booking/internal/pkg/config"
	"campus-booking/internal/pkg/errs"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys for booking lifecycle events.
const (
	RouteBookingRequested = "booking.requested"
	RouteBookingApproved  = "booking.approved"
	RouteBookingDenied    = "booking.denied"
	RouteBookingCancelled = "booking.cancelled"
	RouteBookingExpired   = "booking.expired"
	RouteBookingVoided    = "booking.voided"
)

// BookingEvent is the payload published for every lifecycle transition.
// Downstream consumers (mail, digital signage in the facility lobbies) get
// enough to act without querying the primary database.
type BookingEvent struct {
	BookingID    uuid.UUID `json:"booking_id"`
	UserID       uuid.UUID `json:"user_id"`
	FacilityID   uuid.UUID `json:"facility_id"`
	FacilityName string    `json:"facility_name"`
	Status       string    `json:"status"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, route string, event BookingEvent) error
}

// AMQPPublisher publishes to a durable topic exchange over a long-lived
// connection. Publish failures are surfaced to the caller, who logs and
// continues; the broker is not on the request critical path.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
}

func NewAMQPPublisher(cfg config.MQConfig, logger *slog.Logger) (*AMQPPublisher, func(), error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to connect to rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to open rabbitmq channel")
	}

	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to declare exchange")
	}

	p := &AMQPPublisher{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		logger:   logger,
	}
	cleanup := func() {
		_ = ch.Close()
		_ = conn.Close()
	}
	return p, cleanup, nil
}

func (p *AMQPPublisher) PublishBookingEvent(ctx context.Context, route string, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to encode booking event")
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		route,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Warn("イベントの発行に失敗しました",
			slog.String("route", route),
			slog.String("booking_id", event.BookingID.String()),
			slog.String("error", err.Error()))
		return errs.Wrap(err, "failed to publish booking event")
	}
	return nil
}

// NopPublisher discards events. Used in tests and when the broker is not
// configured.
type NopPublisher struct{}

func (NopPublisher) PublishBookingEvent(context.Context, string, BookingEvent) error {
	return nil
}
