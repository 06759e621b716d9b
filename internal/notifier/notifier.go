// Package notifier consumes booking lifecycle events and delivers guest
// notifications out of the request path.
package notifier

import (
	"context"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"stay/config"
	"stay/infras/kafka"
	"stay/internal/domains/booking/model/dto"
)

type Notifier interface {
	Run(ctx context.Context)
}

type notifierImpl struct {
	cfg    *config.Config
	events kafka.Client
}

func New(cfg *config.Config, events kafka.Client) Notifier {
	return &notifierImpl{
		cfg:    cfg,
		events: events,
	}
}

// Run blocks consuming booking events until the context is cancelled.
func (n *notifierImpl) Run(ctx context.Context) {
	log.Info().
		Str("topic", n.cfg.Kafka.Topic.BookingEvents).
		Str("consumerGroup", n.cfg.Kafka.ConsumerGroup).
		Msg("notifier started")

	n.events.Consume(ctx, n.cfg.Kafka.ConsumerGroup, n.cfg.Kafka.Topic.BookingEvents, n.handle)
}

func (n *notifierImpl) handle(message kafkaGo.Message) {
	decoded, err := kafka.DecodeKafkaMessage[dto.BookingEvent](message)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode booking event")

		return
	}

	event, ok := decoded.Value.(dto.BookingEvent)
	if !ok {
		log.Error().Str("key", decoded.Key).Msg("unexpected booking event payload")

		return
	}

	n.notify(event)
}

func (n *notifierImpl) notify(event dto.BookingEvent) {
	logEvent := log.Info().
		Str("event", string(event.Type)).
		Str("bookingID", event.BookingID).
		Str("roomID", event.RoomID).
		Str("guest", event.GuestName).
		Str("email", event.ContactEmail)

	switch event.Type {
	case dto.EventCreated:
		logEvent.Msg("sending booking confirmation to guest")
	case dto.EventCancelled:
		logEvent.Msg("sending cancellation notice to guest")
	case dto.EventCheckedIn:
		logEvent.Msg("sending welcome message to guest")
	case dto.EventCheckedOut:
		logEvent.Msg("sending checkout receipt to guest")
	default:
		logEvent.Msg("ignoring unknown booking event")
	}
}
