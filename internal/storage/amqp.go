package storage

import (
	"context"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"go-shopscraper/pkg/models"
)

// Publisher is the part of *amqp.Channel the sink needs.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSink publishes each product as a JSON message on a queue.
type AMQPSink struct {
	channel Publisher
	queue   string
	logger  *zap.Logger
}

func NewAMQPSink(channel Publisher, queue string, logger *zap.Logger) *AMQPSink {
	return &AMQPSink{channel: channel, queue: queue, logger: logger.Named("amqp_sink")}
}

// DialAMQP connects to the broker and declares a durable queue.
func DialAMQP(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to establish RabbitMQ connection: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to establish RabbitMQ channel: %w", err)
	}
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return conn, ch, nil
}

func (s *AMQPSink) Save(ctx context.Context, batch []models.Product) error {
	for _, p := range batch {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", p.URL, err)
		}
		message := amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.CreatedAt,
			Body:         body,
		}
		if err := s.channel.Publish(
			"",      // exchange
			s.queue, // queue name
			false,   // mandatory
			false,   // immediate
			message,
		); err != nil {
			return fmt.Errorf("failed to publish message to queue: %w", err)
		}
	}
	s.logger.Debug("Published batch", zap.String("queue", s.queue), zap.Int("count", len(batch)))
	return nil
}
