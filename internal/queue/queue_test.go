package queue

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quintopanel/server/internal/models"
)

func snapshotBatch(ids ...string) []*models.Observation {
	batch := make([]*models.Observation, 0, len(ids))
	for _, id := range ids {
		batch = append(batch, &models.Observation{
			PropertyID:   id,
			Neighborhood: "Vila Guarani",
			Zone:         "Zona Sul",
			ObservedAt:   time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
		})
	}
	return batch
}

func TestNewObservationQueue(t *testing.T) {
	q := NewObservationQueue(10, logrus.New())
	assert.NotNil(t, q)
	assert.Equal(t, 10, q.maxSize)
	assert.Equal(t, 0, q.Len())
	assert.False(t, q.IsClosed())
}

func TestObservationQueue_Push(t *testing.T) {
	q := NewObservationQueue(2, logrus.New())

	require.NoError(t, q.Push(snapshotBatch("894345")))
	assert.Equal(t, 1, q.Len())

	// Fill the buffer; the next push must be rejected, not block.
	require.NoError(t, q.Push(snapshotBatch("894346")))
	assert.Equal(t, ErrQueueFull, q.Push(snapshotBatch("894347")))

	q.Close()
	assert.Equal(t, ErrQueueClosed, q.Push(snapshotBatch("894348")))
}

func TestObservationQueue_DeliversBatchesInOrder(t *testing.T) {
	q := NewObservationQueue(10, logrus.New())

	received := make(chan []*models.Observation, 2)
	q.Subscribe(func(batch []*models.Observation) error {
		received <- batch
		return nil
	})
	q.Start()
	defer q.Close()

	require.NoError(t, q.Push(snapshotBatch("894345")))
	require.NoError(t, q.Push(snapshotBatch("894346", "894347")))

	first := waitForBatch(t, received)
	require.Len(t, first, 1)
	assert.Equal(t, "894345", first[0].PropertyID)
	assert.Equal(t, "Vila Guarani", first[0].Neighborhood)

	second := waitForBatch(t, received)
	require.Len(t, second, 2)
	assert.Equal(t, "894346", second[0].PropertyID)
	assert.Equal(t, "894347", second[1].PropertyID)
}

func TestObservationQueue_EveryHandlerSeesTheBatch(t *testing.T) {
	q := NewObservationQueue(10, logrus.New())

	var wg sync.WaitGroup
	handled := 0
	var mu sync.Mutex
	for i := 0; i < 3; i++ {
		wg.Add(1)
		q.Subscribe(func(batch []*models.Observation) error {
			mu.Lock()
			handled++
			mu.Unlock()
			wg.Done()
			return nil
		})
	}

	q.Start()
	defer q.Close()

	require.NoError(t, q.Push(snapshotBatch("894345")))
	wg.Wait()

	mu.Lock()
	assert.Equal(t, 3, handled)
	mu.Unlock()
}

func TestObservationQueue_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	q := NewObservationQueue(10, logrus.New())

	q.Subscribe(func(batch []*models.Observation) error {
		return errors.New("upsert failed")
	})
	received := make(chan []*models.Observation, 1)
	q.Subscribe(func(batch []*models.Observation) error {
		received <- batch
		return nil
	})
	q.Start()
	defer q.Close()

	require.NoError(t, q.Push(snapshotBatch("894345")))

	batch := waitForBatch(t, received)
	assert.Equal(t, "894345", batch[0].PropertyID, "later handlers still run after one fails")
}

func TestObservationQueue_Close(t *testing.T) {
	q := NewObservationQueue(10, logrus.New())

	require.NoError(t, q.Close())
	assert.True(t, q.IsClosed())

	// Second close is a no-op.
	require.NoError(t, q.Close())
}

func waitForBatch(t *testing.T, ch chan []*models.Observation) []*models.Observation {
	t.Helper()
	select {
	case batch := <-ch:
		return batch
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for batch delivery")
		return nil
	}
}
