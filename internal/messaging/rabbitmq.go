package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

// RabbitMQPublisher implements Publisher on a durable queue.
type RabbitMQPublisher struct {
	conn      *amqp.Connection
	ch        *amqp.Channel
	queueName string
	cb        *gobreaker.CircuitBreaker
}

var _ Publisher = (*RabbitMQPublisher)(nil)

func NewRabbitMQPublisher(amqpURL, queueName string, cb *gobreaker.CircuitBreaker) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Declare the queue (idempotent)
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &RabbitMQPublisher{
		conn:      conn,
		ch:        ch,
		queueName: queueName,
		cb:        cb,
	}, nil
}

func (p *RabbitMQPublisher) PublishRegistration(ctx context.Context, evt RegistrationEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= 0 {
		return ctx.Err()
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.ch.PublishWithContext(
			ctx,
			"",          // exchange (default)
			p.queueName, // routing key == queue name
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Type:         evt.RoutingKey(),
				Timestamp:    evt.OccurredAt,
				Body:         body,
			},
		)
	})
	return err
}

func (p *RabbitMQPublisher) Close() error {
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
