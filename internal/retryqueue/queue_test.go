package retryqueue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthsync/internal/domain"
)

func samples(n int) []domain.Sample {
	now := time.Now()
	out := make([]domain.Sample, n)
	for i := range out {
		out[i] = domain.NewSample(domain.DataTypeHeartRate, float64(60+i), "count/min", now, now)
	}
	return out
}

func TestQueue_AddAndRemoveAll(t *testing.T) {
	q := New()
	first, second := samples(3), samples(2)

	q.Add(first)
	q.Add(nil)
	q.Add(second)

	assert.Equal(t, 2, q.Count())
	assert.Equal(t, 5, q.Samples())

	drained := q.RemoveAll()
	require.Len(t, drained, 2)
	assert.Equal(t, first, drained[0])
	assert.Equal(t, second, drained[1])

	assert.Zero(t, q.Count())
	assert.Empty(t, q.RemoveAll())
}

func TestQueue_AddCopiesInput(t *testing.T) {
	q := New()
	batch := samples(1)
	id := batch[0].ID

	q.Add(batch)
	batch[0] = domain.Sample{}

	drained := q.RemoveAll()
	require.Len(t, drained, 1)
	assert.Equal(t, id, drained[0][0].ID)
}

func TestQueue_ConcurrentAccess(t *testing.T) {
	q := New()
	var wg sync.WaitGroup
	drained := make(chan int, 50)

	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			q.Add(samples(1))
		}()
		go func() {
			defer wg.Done()
			drained <- len(q.RemoveAll())
		}()
	}
	wg.Wait()
	close(drained)

	total := q.Count()
	for n := range drained {
		total += n
	}
	assert.Equal(t, 50, total)
}
