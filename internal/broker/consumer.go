package broker

import (
	"errors"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	queue      string
	Deliveries <-chan amqp.Delivery
}

// NewConsumer consome a fila com auto-ack; prefetch ajusta o QoS.
func NewConsumer(uri, queue, tag string, prefetch int, log *slog.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	fail := func(err error) (*Consumer, error) {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	if err := declareQueue(ch, queue); err != nil {
		return fail(err)
	}
	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			return fail(err)
		}
	}

	deliveries, err := ch.Consume(
		queue,
		tag,
		true, false, false, false, nil,
	)
	if err != nil {
		return fail(err)
	}
	if log != nil {
		log.Info("rabbit_consumer_started", "queue", queue, "prefetch", prefetch)
	}
	return &Consumer{conn: conn, ch: ch, queue: queue, Deliveries: deliveries}, nil
}

func (c *Consumer) Close() error {
	return errors.Join(c.ch.Close(), c.conn.Close())
}
