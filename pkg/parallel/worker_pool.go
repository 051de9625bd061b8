// Package parallel provides a bounded worker pool for CPU-bound fan-out.
package parallel

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/logging"
)

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
	panics    atomic.Int64
	logger    logging.Logger
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// Option configures a WorkerPool.
type Option func(*WorkerPool)

// WithLogger sets the logger used to report recovered task panics.
func WithLogger(l logging.Logger) Option {
	return func(wp *WorkerPool) {
		wp.logger = logging.OrNop(l)
	}
}

// DefaultWorkers returns the worker count used when a caller asks for zero:
// one per available CPU.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// NewWorkerPool creates a new worker pool with specified number of workers.
// Non-positive counts select DefaultWorkers. Returns an error if the worker
// count exceeds MaxWorkers.
func NewWorkerPool(workers int, opts ...Option) (*WorkerPool, error) {
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	// Prevent overflow in buffer size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2), // Buffer for 2x workers
		logger:    logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(pool)
	}

	pool.start()
	return pool, nil
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// start initializes the worker goroutines
func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// worker processes tasks from the queue
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		wp.run(task)
	}
}

func (wp *WorkerPool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			wp.panics.Add(1)
			wp.logger.Error("worker task panicked",
				logging.Component("parallel"),
				logging.Any("panic", r))
		}
	}()
	task()
}

// Submit adds a task to the worker pool
// Returns false if the pool is closed, true if task was submitted
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	// Safe to send because we hold the lock and pool is not closed
	wp.taskQueue <- task
	return true
}

// Close shuts down the worker pool and waits for queued tasks to finish.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait waits for all submitted tasks to complete. The pool cannot be reused
// afterwards.
func (wp *WorkerPool) Wait() {
	wp.Close()
}

// Panics returns the number of tasks that panicked.
func (wp *WorkerPool) Panics() int64 {
	return wp.panics.Load()
}

// ForEach runs fn(i) for every i in [0, n) on a fresh pool and blocks until
// all calls return. fn must only write to state owned by index i.
// It returns the number of calls that panicked.
func ForEach(workers, n int, fn func(i int), opts ...Option) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	workers = min(workers, n)
	pool, err := NewWorkerPool(workers, opts...)
	if err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		i := i
		pool.Submit(func() { fn(i) })
	}
	pool.Wait()
	return pool.Panics(), nil
}
