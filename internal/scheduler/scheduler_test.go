package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	var runs atomic.Int32
	job := JobFunc(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		runs.Add(1)
		return errors.New("ignored")
	})

	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler("retention", job, 20*time.Millisecond, time.Second, testLogger())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

type onlineFlag struct{ v atomic.Bool }

func (o *onlineFlag) Online() bool { return o.v.Load() }

type BackgroundTestSuite struct {
	suite.Suite
	network *onlineFlag
	bg      *Background
	runs    chan context.Context
}

func (s *BackgroundTestSuite) SetupTest() {
	s.network = &onlineFlag{}
	s.network.v.Store(true)
	s.runs = make(chan context.Context, 8)
	s.bg = NewBackground(50*time.Millisecond, testLogger(), WithNetwork(s.network, 10*time.Millisecond))
	s.bg.Register("sync", func(ctx context.Context) {
		s.runs <- ctx
	})
}

func (s *BackgroundTestSuite) TearDownTest() {
	s.bg.Close()
}

func TestBackgroundTestSuite(t *testing.T) {
	suite.Run(t, new(BackgroundTestSuite))
}

func (s *BackgroundTestSuite) waitRun() context.Context {
	select {
	case ctx := <-s.runs:
		return ctx
	case <-time.After(2 * time.Second):
		s.FailNow("task did not run")
		return nil
	}
}

func (s *BackgroundTestSuite) assertNoRun(wait time.Duration) {
	select {
	case <-s.runs:
		s.Fail("task ran unexpectedly")
	case <-time.After(wait):
	}
}

func (s *BackgroundTestSuite) TestSchedule_RunsOnceAfterDelay() {
	s.Require().NoError(s.bg.Schedule("sync", 10*time.Millisecond, false))
	s.True(s.bg.armed("sync"))

	s.waitRun()
	s.False(s.bg.armed("sync"))
	s.assertNoRun(50 * time.Millisecond)
}

func (s *BackgroundTestSuite) TestSchedule_WindowExpiresContext() {
	s.Require().NoError(s.bg.Schedule("sync", 0, false))

	ctx := s.waitRun()
	deadline, ok := ctx.Deadline()
	s.Require().True(ok)
	s.WithinDuration(time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
}

func (s *BackgroundTestSuite) TestSchedule_UnknownTask() {
	err := s.bg.Schedule("other", time.Second, false)
	s.ErrorIs(err, ErrUnknownTask)
}

func (s *BackgroundTestSuite) TestSchedule_ReplacesPending() {
	s.Require().NoError(s.bg.Schedule("sync", time.Hour, false))
	s.Require().NoError(s.bg.Schedule("sync", 10*time.Millisecond, false))

	s.waitRun()
	s.assertNoRun(50 * time.Millisecond)
}

func (s *BackgroundTestSuite) TestCancel_DropsPending() {
	s.Require().NoError(s.bg.Schedule("sync", 20*time.Millisecond, false))
	s.bg.Cancel("sync")

	s.False(s.bg.armed("sync"))
	s.assertNoRun(60 * time.Millisecond)
}

func (s *BackgroundTestSuite) TestRequiresNetwork_DefersWhileOffline() {
	s.network.v.Store(false)
	s.Require().NoError(s.bg.Schedule("sync", 0, true))

	s.assertNoRun(50 * time.Millisecond)
	s.True(s.bg.armed("sync"))

	s.network.v.Store(true)
	s.waitRun()
}

func (s *BackgroundTestSuite) TestHandlerCanReschedule() {
	var count atomic.Int32
	s.bg.Register("loop", func(context.Context) {
		if count.Add(1) < 3 {
			s.NoError(s.bg.Schedule("loop", time.Millisecond, false))
		}
	})

	s.Require().NoError(s.bg.Schedule("loop", 0, false))
	s.Eventually(func() bool { return count.Load() == 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestBackground_CloseExpiresRunningTask(t *testing.T) {
	bg := NewBackground(time.Hour, testLogger())
	started := make(chan struct{})
	finished := make(chan struct{})
	bg.Register("sync", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(finished)
	})

	require.NoError(t, bg.Schedule("sync", 0, false))
	<-started
	bg.Close()

	select {
	case <-finished:
	default:
		t.Fatal("Close returned before the running task")
	}
	assert.Error(t, bg.Schedule("sync", 0, false))
}
