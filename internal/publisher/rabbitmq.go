// Package publisher forwards sync status updates to RabbitMQ.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"healthsync/internal/domain"
)

type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	source     Source
	logger     *slog.Logger
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

// Source identifies the device a status belongs to.
type Source struct {
	DeviceID string `json:"device_id"`
	UserID   string `json:"user_id"`
}

func NewRabbitMQ(cfg Config, source Source, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	err = ch.QueueBind(
		q.Name,
		cfg.RoutingKey,
		cfg.Exchange,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger = logger.With("component", "publisher")
	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		source:     source,
		logger:     logger,
	}, nil
}

type StatusMessage struct {
	Source    Source            `json:"source"`
	Status    domain.SyncStatus `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
}

// PublishStatus sends one status update. Only terminal states are persistent.
func (r *RabbitMQ) PublishStatus(ctx context.Context, status domain.SyncStatus) error {
	msg := StatusMessage{
		Source:    r.source,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	mode := amqp.Transient
	if status.State == domain.SyncStateSuccess || status.State == domain.SyncStateError {
		mode = amqp.Persistent
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: mode,
			ContentType:  "application/json",
			Type:         string(status.State),
			Body:         body,
			Timestamp:    msg.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	r.logger.Debug("published status",
		"state", status.State,
		"progress", status.Progress,
	)

	return nil
}

// Forward publishes every update until the channel closes or ctx is done.
// Failed publishes are logged and skipped.
func (r *RabbitMQ) Forward(ctx context.Context, updates <-chan domain.SyncStatus) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case status, ok := <-updates:
			if !ok {
				return nil
			}
			if err := r.PublishStatus(ctx, status); err != nil {
				r.logger.Warn("failed to publish status", "state", status.State, "error", err)
			}
		}
	}
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
