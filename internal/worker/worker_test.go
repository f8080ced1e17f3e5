package worker_test

import (
	"sync/atomic"
	"testing"

	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllTasksCompleteWithoutErrors(t *testing.T) {
	t.Parallel()

	wp := worker.NewWorkerPool(5)

	var counter int32

	for range 10 {
		wp.Submit(func() error {
			atomic.AddInt32(&counter, 1)
			return nil
		})
	}

	err := wp.GracefulStop()
	require.NoError(t, err)

	assert.Equal(t, int32(10), atomic.LoadInt32(&counter))
}

func TestSomeTasksReturnErrors(t *testing.T) {
	t.Parallel()

	wp := worker.NewWorkerPool(3)

	var successCount int32

	for i := range 10 {
		wp.Submit(func() error {
			if i%2 == 0 {
				return errors.New("mock error")
			}

			atomic.AddInt32(&successCount, 1)

			return nil
		})
	}

	err := wp.GracefulStop()
	require.Error(t, err)
	assert.Len(t, errors.UnwrapMultiErrors(err), 5)

	assert.Equal(t, int32(5), atomic.LoadInt32(&successCount))
}

func TestTasksSubmitChildTasks(t *testing.T) {
	t.Parallel()

	wp := worker.NewWorkerPool(4)

	var counter int32

	// Each parent submits its children before returning, so Wait must
	// observe the whole tree.
	for range 3 {
		wp.Submit(func() error {
			atomic.AddInt32(&counter, 1)

			for range 4 {
				wp.Submit(func() error {
					atomic.AddInt32(&counter, 1)
					return nil
				})
			}

			return nil
		})
	}

	err := wp.Wait()
	require.NoError(t, err)

	assert.Equal(t, int32(15), atomic.LoadInt32(&counter))
}

func TestFewerTasksThanWorkers(t *testing.T) {
	t.Parallel()

	wp := worker.NewWorkerPool(10)

	var counter int32

	for range 5 {
		wp.Submit(func() error {
			atomic.AddInt32(&counter, 1)
			return nil
		})
	}

	err := wp.GracefulStop()
	require.NoError(t, err)

	assert.Equal(t, int32(5), atomic.LoadInt32(&counter))
}

func TestStartAfterStopReusesPool(t *testing.T) {
	t.Parallel()

	wp := worker.NewWorkerPool(2)

	var counter int32

	for range 5 {
		wp.Submit(func() error {
			atomic.AddInt32(&counter, 1)
			return nil
		})
	}

	err := wp.GracefulStop()
	require.NoError(t, err)

	wp.Start()

	for range 3 {
		wp.Submit(func() error {
			atomic.AddInt32(&counter, 1)
			return nil
		})
	}

	err = wp.GracefulStop()
	require.NoError(t, err)

	assert.Equal(t, int32(8), atomic.LoadInt32(&counter))
}

func TestConcurrencyBoundIsRespected(t *testing.T) {
	t.Parallel()

	const maxWorkers = 2

	wp := worker.NewWorkerPool(maxWorkers)

	var running, peak int32

	for range 20 {
		wp.Submit(func() error {
			cur := atomic.AddInt32(&running, 1)

			for {
				old := atomic.LoadInt32(&peak)
				if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
					break
				}
			}

			atomic.AddInt32(&running, -1)

			return nil
		})
	}

	err := wp.GracefulStop()
	require.NoError(t, err)

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(maxWorkers))
}
