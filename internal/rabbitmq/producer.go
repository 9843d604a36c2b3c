package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName  = "workspace"
	ExchangeType  = "topic"
	QueueActivity = "workspace.activity"
)

// Producer publishes workspace activity events to a durable topic exchange.
// Routing keys follow "activity.<entity>.<action>".
type Producer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewProducer(rabbitMQURL string) (*Producer, error) {
	conn, err := amqp.Dial(rabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName, // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		QueueActivity, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare activity queue: %w", err)
	}

	err = ch.QueueBind(
		QueueActivity, // queue name
		"activity.#",  // routing key pattern (activity.task.created, ...)
		ExchangeName,  // exchange
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind activity queue: %w", err)
	}

	return &Producer{
		conn:    conn,
		channel: ch,
	}, nil
}

// PublishActivity publishes one workspace activity message.
func (p *Producer) PublishActivity(ctx context.Context, routingKey string, message []byte) error {
	err := p.channel.PublishWithContext(
		ctx,
		ExchangeName, // exchange
		routingKey,   // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         message,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
