// Package worker provides a semaphore-bounded pool for running tasks
// concurrently while collecting their errors.
//
// Tasks may submit further tasks while they run, as long as each parent
// task submits its children before returning. Wait then observes every
// task in the tree.
package worker

import (
	"sync"
	"sync/atomic"

	"github.com/gruntwork-io/terradeps/internal/errors"
)

// Task represents a unit of work that can be executed
type Task func() error

// Pool manages concurrent task execution with a configurable number of workers
type Pool struct {
	semaphore   chan struct{}
	allErrors   *errors.MultiError
	wg          sync.WaitGroup
	maxWorkers  int
	mu          sync.RWMutex
	allErrorsMu sync.RWMutex
	isStopping  atomic.Bool
	isRunning   bool
}

// NewWorkerPool creates a new worker pool with the specified maximum number of concurrent workers
func NewWorkerPool(maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	return &Pool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
		allErrors:  &errors.MultiError{},
	}
}

// Start initializes the worker pool. Submit calls it lazily, so calling it
// directly is only needed to reuse a pool after GracefulStop.
func (wp *Pool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.isRunning {
		return
	}

	wp.isRunning = true
	wp.isStopping.Store(false)

	wp.semaphore = make(chan struct{}, wp.maxWorkers)

	wp.allErrorsMu.Lock()
	wp.allErrors = &errors.MultiError{}
	wp.allErrorsMu.Unlock()
}

// appendError safely appends an error to allErrors
func (wp *Pool) appendError(err error) {
	if err == nil {
		return
	}

	wp.allErrorsMu.Lock()
	wp.allErrors = wp.allErrors.Append(err)
	wp.allErrorsMu.Unlock()
}

// Submit adds a new task and starts a goroutine to execute it when a worker
// is available. Submissions to a stopping pool are dropped.
func (wp *Pool) Submit(task Task) {
	wp.mu.RLock()
	notRunning := !wp.isRunning
	wp.mu.RUnlock()

	if notRunning {
		wp.Start()
	}

	if wp.isStopping.Load() {
		return
	}

	wp.wg.Add(1)

	// Start a new goroutine for each task, but limit concurrency with semaphore
	go func() {
		defer wp.wg.Done()

		wp.semaphore <- struct{}{}

		defer func() { <-wp.semaphore }()

		if err := task(); err != nil {
			wp.appendError(err)
		}
	}()
}

// Wait blocks until all tasks are completed and returns any errors
func (wp *Pool) Wait() error {
	wp.wg.Wait()

	wp.allErrorsMu.RLock()
	defer wp.allErrorsMu.RUnlock()

	return wp.allErrors.ErrorOrNil()
}

// GracefulStop stops accepting new tasks, waits for in-flight tasks to
// complete, and returns any errors they produced.
func (wp *Pool) GracefulStop() error {
	wp.isStopping.Store(true)

	err := wp.Wait()

	wp.mu.Lock()
	defer wp.mu.Unlock()

	wp.isRunning = false

	return err
}
