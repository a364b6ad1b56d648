//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"healthsync/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
	source    Source
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.source = Source{DeviceID: "device-1", UserID: "user-1"}

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) config(name string) Config {
	return Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-" + name,
		RoutingKey: "test-routing-key-" + name,
		QueueName:  "test-queue-" + name,
	}
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	pub, err := NewRabbitMQ(s.config("connection"), s.source, s.logger)
	s.NoError(err)
	s.NotNil(pub)

	err = pub.Close()
	s.NoError(err)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishSuccess() {
	cfg := s.config("success")
	pub, err := NewRabbitMQ(cfg, s.source, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	at := time.Now().UTC().Truncate(time.Millisecond)
	err = pub.PublishStatus(s.ctx, domain.SuccessStatus(42, at))
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal("application/json", msg.ContentType)
	s.Equal("success", msg.Type)
	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)

	var received StatusMessage
	s.Require().NoError(json.Unmarshal(msg.Body, &received))
	s.Equal("device-1", received.Source.DeviceID)
	s.Equal("user-1", received.Source.UserID)
	s.Equal(domain.SyncStateSuccess, received.Status.State)
	s.Equal(42, received.Status.SyncedCount)
	s.True(at.Equal(received.Status.Timestamp))
	s.False(received.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishError() {
	cfg := s.config("error")
	pub, err := NewRabbitMQ(cfg, s.source, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	info := domain.NewErrorInfo(&domain.DeliveryError{Kind: domain.DeliveryAuthFailed})
	s.Require().NoError(pub.PublishStatus(s.ctx, domain.ErrorStatus(info, time.Now())))

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	var received StatusMessage
	s.Require().NoError(json.Unmarshal(msg.Body, &received))
	s.Equal(domain.SyncStateError, received.Status.State)
	s.Require().NotNil(received.Status.Error)
	s.Equal("authentication failed", received.Status.Error.Message)
	s.True(received.Status.Error.NeedsSettings)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_ProgressIsTransient() {
	cfg := s.config("progress")
	pub, err := NewRabbitMQ(cfg, s.source, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	s.Require().NoError(pub.PublishStatus(s.ctx, domain.SyncingStatus(0.54)))

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)
	s.Equal(uint8(amqp.Transient), msg.DeliveryMode)

	var received StatusMessage
	s.Require().NoError(json.Unmarshal(msg.Body, &received))
	s.InDelta(0.54, received.Status.Progress, 1e-9)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Forward() {
	cfg := s.config("forward")
	pub, err := NewRabbitMQ(cfg, s.source, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	updates := make(chan domain.SyncStatus, 3)
	updates <- domain.SyncingStatus(0)
	updates <- domain.SyncingStatus(0.5)
	updates <- domain.SuccessStatus(1, time.Now())
	close(updates)

	s.NoError(pub.Forward(s.ctx, updates))

	var states []domain.SyncState
	for range 3 {
		msg := s.consumeMessage(cfg)
		s.Require().NotNil(msg)
		states = append(states, domain.SyncState(msg.Type))
	}
	s.Equal([]domain.SyncState{domain.SyncStateSyncing, domain.SyncStateSyncing, domain.SyncStateSuccess}, states)
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		msg, ok, err := ch.Get(cfg.QueueName, true)
		s.Require().NoError(err)
		if ok {
			return &msg
		}
		time.Sleep(50 * time.Millisecond)
	}

	s.Fail("Timeout waiting for message")
	return nil
}
