// Package retryqueue holds batches that exhausted delivery retries until the
// network comes back. Contents live in memory only; the samples stay unsynced
// in the ledger and are picked up again by the next pass if the process exits.
package retryqueue

import (
	"sync"

	"healthsync/internal/domain"
)

type Queue struct {
	mu      sync.Mutex
	batches [][]domain.Sample
}

func New() *Queue {
	return &Queue{}
}

// Add appends a copy of samples as one batch. Empty batches are ignored.
func (q *Queue) Add(samples []domain.Sample) {
	if len(samples) == 0 {
		return
	}
	batch := make([]domain.Sample, len(samples))
	copy(batch, samples)

	q.mu.Lock()
	q.batches = append(q.batches, batch)
	q.mu.Unlock()
}

// RemoveAll returns every queued batch in insertion order and empties the queue.
func (q *Queue) RemoveAll() [][]domain.Sample {
	q.mu.Lock()
	defer q.mu.Unlock()

	batches := q.batches
	q.batches = nil
	return batches
}

// Count reports the number of queued batches.
func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.batches)
}

// Samples reports the number of queued samples across all batches.
func (q *Queue) Samples() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, b := range q.batches {
		n += len(b)
	}
	return n
}
