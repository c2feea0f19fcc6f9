package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Werneck0live/cadastro-parceiros/internal/models"
)

type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// declareQueue garante que a fila exista (durável).
func declareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	return err
}

func NewPublisher(uri, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := declareQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *Publisher) publish(ctx context.Context, msg amqp.Publishing) error {
	if ctx == nil {
		c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		ctx = c
	}
	msg.DeliveryMode = amqp.Persistent
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	return p.ch.PublishWithContext(
		ctx,
		"",      // default exchange
		p.queue, // routing key = nome da fila
		false,   // mandatory
		false,   // immediate
		msg,
	)
}

// Publish envia um texto livre.
func (p *Publisher) Publish(ctx context.Context, body string, headers amqp.Table) error {
	return p.publish(ctx, amqp.Publishing{
		ContentType: "text/plain",
		Body:        []byte(body),
		Headers:     headers,
	})
}

// PublishEvent serializa o evento em JSON; os campos de roteamento
// também vão nos headers.
func (p *Publisher) PublishEvent(ctx context.Context, e models.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return p.publish(ctx, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   e.ID,
		Type:        string(e.Type),
		Timestamp:   e.OccurredAt,
		Body:        body,
		Headers:     amqp.Table(e.Headers()),
	})
}

func (p *Publisher) Close() error {
	var errCh, errConn error
	if p.ch != nil {
		errCh = p.ch.Close()
	}
	if p.conn != nil {
		errConn = p.conn.Close()
	}

	return errors.Join(errCh, errConn)
}
