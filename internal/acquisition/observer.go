package acquisition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"healthsync/internal/domain"
)

const consumerTag = "healthsync-observer"

// ErrAlreadyObserving is returned by Observe while a consumer is active.
var ErrAlreadyObserving = errors.New("observer already running")

type ObserverConfig struct {
	URL      string
	Exchange string
	Queue    string
}

// RoutingKey is the topic a new-data notification for t is published under.
func RoutingKey(t domain.DataType) string {
	return "samples." + string(t)
}

// AMQPObserver consumes new-data notifications from a RabbitMQ topic
// exchange. The connection is opened by Observe and closed by Stop.
type AMQPObserver struct {
	cfg    ObserverConfig
	logger *slog.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	done    chan struct{}
}

func NewAMQPObserver(cfg ObserverConfig, logger *slog.Logger) *AMQPObserver {
	return &AMQPObserver{
		cfg:    cfg,
		logger: logger.With("component", "observer"),
	}
}

func (o *AMQPObserver) Observe(ctx context.Context, types []domain.DataType, handler func(domain.DataType)) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.conn != nil {
		return ErrAlreadyObserving
	}

	conn, err := amqp.Dial(o.cfg.URL)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	deliveries, err := o.declare(ch, types)
	if err != nil {
		ch.Close()
		conn.Close()
		return err
	}

	wanted := make(map[domain.DataType]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}

	done := make(chan struct{})
	o.conn = conn
	o.channel = ch
	o.done = done

	go o.consume(ctx, deliveries, wanted, handler, done)

	o.logger.Info("observing new data",
		"exchange", o.cfg.Exchange,
		"queue", o.cfg.Queue,
		"types", len(types),
	)
	return nil
}

func (o *AMQPObserver) declare(ch *amqp.Channel, types []domain.DataType) (<-chan amqp.Delivery, error) {
	err := ch.ExchangeDeclare(
		o.cfg.Exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		o.cfg.Queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	for _, t := range types {
		if err := ch.QueueBind(q.Name, RoutingKey(t), o.cfg.Exchange, false, nil); err != nil {
			return nil, fmt.Errorf("bind queue for %s: %w", t, err)
		}
	}

	deliveries, err := ch.Consume(
		q.Name,
		consumerTag,
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}
	return deliveries, nil
}

func (o *AMQPObserver) consume(
	ctx context.Context,
	deliveries <-chan amqp.Delivery,
	wanted map[domain.DataType]struct{},
	handler func(domain.DataType),
	done chan<- struct{},
) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}

			var n Notification
			if err := json.Unmarshal(d.Body, &n); err != nil {
				o.logger.Warn("dropping malformed notification", "error", err)
				_ = d.Nack(false, false)
				continue
			}
			if _, ok := wanted[n.DataType]; ok {
				handler(n.DataType)
			}
			if err := d.Ack(false); err != nil {
				o.logger.Warn("failed to ack notification", "error", err)
			}
		}
	}
}

// Stop cancels the consumer and closes the connection. It is a no-op when
// not observing.
func (o *AMQPObserver) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.conn == nil {
		return nil
	}

	var errs []error
	if err := o.channel.Cancel(consumerTag, false); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, fmt.Errorf("cancel consumer: %w", err))
	}
	if err := o.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, fmt.Errorf("close channel: %w", err))
	}
	if err := o.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, fmt.Errorf("close connection: %w", err))
	}
	<-o.done

	o.conn = nil
	o.channel = nil
	o.done = nil

	o.logger.Info("observer stopped")
	return errors.Join(errs...)
}
