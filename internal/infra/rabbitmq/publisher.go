package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Publisher implements gateway.EventPublisher over a long-lived AMQP
// channel. Publish failures never roll back the transaction that
// produced the event — the transfer and interest engines call this
// best-effort, after commit.
type Publisher struct {
	channel *amqp.Channel
	logger  zerolog.Logger
}

func NewPublisher(ch *amqp.Channel, logger zerolog.Logger) *Publisher {
	return &Publisher{channel: ch, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
	}

	p.logger.Debug().Str("exchange", exchange).Str("routing_key", routingKey).Msg("published event")
	return nil
}

// DeclareLedgerExchange asserts the topic exchange the transfer and
// interest engines publish their outcome events to. It's idempotent;
// safe to call on every process start.
func DeclareLedgerExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare("ledger_events", "topic", true, false, false, false, nil)
}
