// Package backoff provides the attempt loop shared by the delivery client and
// the orchestrator's page-level retry.
package backoff

import (
	"context"
	"fmt"
	"math"
	"time"

	cbackoff "github.com/cenkalti/backoff/v5"
)

// Policy describes an exponential retry schedule. The delay before retry n
// (n >= 1) is Initial * 2^(n-1), capped at Max when Max is positive.
type Policy struct {
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Delays returns the sequence of waits between MaxAttempts attempts.
func (p Policy) Delays() []time.Duration {
	if p.MaxAttempts <= 1 {
		return nil
	}
	b := p.exponential()
	delays := make([]time.Duration, p.MaxAttempts-1)
	for i := range delays {
		delays[i] = b.NextBackOff()
	}
	return delays
}

func (p Policy) exponential() *cbackoff.ExponentialBackOff {
	maxInterval := p.Max
	if maxInterval <= 0 {
		maxInterval = time.Duration(math.MaxInt64)
	}
	b := &cbackoff.ExponentialBackOff{
		InitialInterval:     p.Initial,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         maxInterval,
	}
	b.Reset()
	return b
}

// StopFunc decides whether an error ends the loop immediately.
type StopFunc func(err error) bool

// Retrier runs an operation under a Policy.
type Retrier struct {
	Policy  Policy
	Sleep   Sleeper
	Stop    StopFunc
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Do calls op until it succeeds, Stop reports true, the attempts are
// exhausted or ctx is cancelled while waiting. It returns the last error.
func (r Retrier) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	attempts := max(r.Policy.MaxAttempts, 1)
	sleep := r.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	b := r.Policy.exponential()

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(ctx, attempt)
		if err == nil {
			return nil
		}
		if r.Stop != nil && r.Stop(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		delay := b.NextBackOff()
		if r.OnRetry != nil {
			r.OnRetry(attempt, delay, err)
		}
		if serr := sleep(ctx, delay); serr != nil {
			return fmt.Errorf("retry interrupted: %w", serr)
		}
	}

	return fmt.Errorf("after %d attempts: %w", attempts, err)
}
