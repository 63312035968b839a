// Package notify publishes reservation lifecycle events for the downstream
// email/PDF/WhatsApp workers. Publishing is fire-and-forget: failures are
// logged and never roll back the creation or capture that produced them.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"hotelier/internal/pkg/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	RoutingKeyReservationConfirmed = "reservation.confirmed"
	RoutingKeyPaymentCaptured      = "payment.captured"
)

type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(cfg config.AMQPConfig) (*Publisher, func(), error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	// Durable topic exchange; consumers bind their own queues.
	if err := channel.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = channel.Close()
		_ = conn.Close()
	}

	return &Publisher{conn: conn, channel: channel, exchange: cfg.Exchange}, cleanup, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		slog.Error("notify: marshal event failed", "routing_key", routingKey, "error", err)
		return err
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		slog.Error("notify: publish failed", "routing_key", routingKey, "error", err)
		return err
	}
	return nil
}
