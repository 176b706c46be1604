// Package workerpool runs tasks on a fixed number of recycled goroutines.
package workerpool

import (
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/iotaledger/ringmix/ierrors"
	"github.com/iotaledger/ringmix/options"
)

// ErrPoolStopped is returned when a task is submitted to a pool that was shut down.
var ErrPoolStopped = ierrors.New("worker pool stopped")

// WorkerPool is a blocking goroutine pool with fixed capacity. Submit waits if all workers are busy.
type WorkerPool struct {
	pool         *ants.Pool
	stopped      *atomic.Bool
	tasksWg      sync.WaitGroup
	shutdownOnce sync.Once

	optsWorkerCount int
	optsLogger      *zap.Logger
}

// New creates a WorkerPool. By default it runs runtime.GOMAXPROCS(0) workers.
func New(opts ...options.Option[WorkerPool]) (*WorkerPool, error) {
	workerPool := options.Apply(&WorkerPool{
		stopped:         atomic.NewBool(false),
		optsWorkerCount: runtime.GOMAXPROCS(0),
		optsLogger:      zap.NewNop(),
	}, opts)

	pool, err := ants.NewPool(workerPool.optsWorkerCount, ants.WithNonblocking(false))
	if err != nil {
		return nil, ierrors.Wrapf(err, "creating pool with %d workers", workerPool.optsWorkerCount)
	}
	workerPool.pool = pool

	return workerPool, nil
}

// Submit schedules a task. It waits if not enough workers are available.
func (w *WorkerPool) Submit(task func()) error {
	if w.stopped.Load() {
		return ErrPoolStopped
	}

	w.tasksWg.Add(1)

	if err := w.pool.Submit(func() {
		defer w.tasksWg.Done()
		defer w.recoverPanic()

		task()
	}); err != nil {
		w.tasksWg.Done()

		return ierrors.Wrap(err, "submitting task")
	}

	return nil
}

// Wait blocks until all submitted tasks have finished.
func (w *WorkerPool) Wait() {
	w.tasksWg.Wait()
}

// WorkerCount returns the capacity (number of workers) of this pool.
func (w *WorkerPool) WorkerCount() int {
	if w.stopped.Load() {
		return 0
	}

	return w.pool.Cap()
}

// RunningWorkers returns the number of the currently running workers.
func (w *WorkerPool) RunningWorkers() int {
	if w.stopped.Load() {
		return 0
	}

	return w.pool.Running()
}

// Shutdown closes this pool and waits for the currently running tasks to finish.
func (w *WorkerPool) Shutdown() {
	w.shutdownOnce.Do(func() {
		w.stopped.Store(true)
		w.tasksWg.Wait()

		w.pool.Release()
	})
}

func (w *WorkerPool) recoverPanic() {
	if r := recover(); r != nil {
		w.optsLogger.Error("recovered from panic in WorkerPool", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
	}
}

// WithWorkerCount sets the number of workers of the pool.
func WithWorkerCount(workerCount int) options.Option[WorkerPool] {
	return func(w *WorkerPool) {
		if workerCount > 0 {
			w.optsWorkerCount = workerCount
		}
	}
}

// WithLogger sets the logger that reports panics of tasks.
func WithLogger(logger *zap.Logger) options.Option[WorkerPool] {
	return func(w *WorkerPool) {
		if logger != nil {
			w.optsLogger = logger
		}
	}
}
