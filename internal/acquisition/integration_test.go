//go:build integration

package acquisition

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

type ObserverIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *ObserverIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

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

func (s *ObserverIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestObserverIntegrationSuite(t *testing.T) {
	suite.Run(t, new(ObserverIntegrationSuite))
}

func (s *ObserverIntegrationSuite) publish(exchange string, n Notification) {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	body, err := json.Marshal(n)
	s.Require().NoError(err)

	err = ch.PublishWithContext(s.ctx, exchange, RoutingKey(n.DataType), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	s.Require().NoError(err)
}

func (s *ObserverIntegrationSuite) TestObserver_DeliversBoundTypes() {
	cfg := ObserverConfig{URL: s.amqpURL, Exchange: "test-samples", Queue: "test-new-samples"}
	observer := NewAMQPObserver(cfg, s.logger)

	received := make(chan domain.DataType, 4)
	err := observer.Observe(s.ctx, []domain.DataType{domain.DataTypeStepCount}, func(t domain.DataType) {
		received <- t
	})
	s.Require().NoError(err)
	defer observer.Stop()

	s.ErrorIs(observer.Observe(s.ctx, nil, nil), ErrAlreadyObserving)

	s.publish(cfg.Exchange, Notification{DataType: domain.DataTypeHeartRate, Count: 1})
	s.publish(cfg.Exchange, Notification{DataType: domain.DataTypeStepCount, Count: 3})

	select {
	case t := <-received:
		s.Equal(domain.DataTypeStepCount, t)
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for notification")
	}

	select {
	case t := <-received:
		s.Failf("unexpected notification", "type %s", t)
	case <-time.After(200 * time.Millisecond):
	}
}

func (s *ObserverIntegrationSuite) TestObserver_StopAndRestart() {
	cfg := ObserverConfig{URL: s.amqpURL, Exchange: "test-samples-restart", Queue: "test-new-samples-restart"}
	observer := NewAMQPObserver(cfg, s.logger)
	types := []domain.DataType{domain.DataTypeHeartRate}

	s.Require().NoError(observer.Observe(s.ctx, types, func(domain.DataType) {}))
	s.Require().NoError(observer.Stop())
	s.NoError(observer.Stop())

	received := make(chan domain.DataType, 1)
	s.Require().NoError(observer.Observe(s.ctx, types, func(t domain.DataType) { received <- t }))
	defer observer.Stop()

	s.publish(cfg.Exchange, Notification{DataType: domain.DataTypeHeartRate})

	select {
	case t := <-received:
		s.Equal(domain.DataTypeHeartRate, t)
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for notification")
	}
}
