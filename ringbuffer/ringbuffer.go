// Package ringbuffer implements a fixed capacity ring buffer of plain values that is shared by a producer and one or
// more consumers. Writes never block and never fail: a batch larger than the capacity keeps only its most recent
// elements and a write that fills the buffer evicts the oldest unread elements. Reads return whatever is available.
package ringbuffer

import (
	"go.uber.org/zap"

	"github.com/iotaledger/ringmix/constraints"
	"github.com/iotaledger/ringmix/ierrors"
	"github.com/iotaledger/ringmix/options"
	"github.com/iotaledger/ringmix/syncutils"
)

// ErrInvalidCapacity is returned (as a panic value) when a buffer is created with a negative capacity.
var ErrInvalidCapacity = ierrors.New("invalid ring buffer capacity")

// RingBuffer is a fixed buffer of elements with FIFO semantics. When a write fills the buffer, the oldest unread
// elements are overwritten.
//
// Writes must be serialized by the caller, reads may happen from any number of goroutines.
type RingBuffer[T constraints.Summable] struct {
	storage  []T
	capacity int
	cursors  Cursors
	mutex   syncutils.RWMutex
	stats   *counters

	optsName         string
	optsRelaxedWrite bool
	optsLogger       *zap.Logger
}

// New creates a new RingBuffer that holds up to capacity elements.
//
// A capacity of 0 creates a degenerate buffer that drops every write and never returns any elements.
func New[T constraints.Summable](capacity int, opts ...options.Option[RingBuffer[T]]) *RingBuffer[T] {
	if capacity < 0 {
		panic(ierrors.Wrapf(ErrInvalidCapacity, "capacity %d", capacity))
	}

	return options.Apply(&RingBuffer[T]{
		storage:    make([]T, capacity),
		capacity:   capacity,
		cursors:    Cursors{Capacity: capacity},
		stats:      newCounters(),
		optsLogger: zap.NewNop(),
	}, opts, func(r *RingBuffer[T]) {
		if r.optsName != "" {
			r.optsLogger = r.optsLogger.Named(r.optsName)
		}
	})
}

// Capacity returns the maximum number of elements the buffer holds.
func (r *RingBuffer[T]) Capacity() int {
	return r.capacity
}

// Size returns the number of unread elements.
func (r *RingBuffer[T]) Size() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.cursors.Count
}

// Write copies the elements of source into the buffer.
//
// If source is longer than the capacity, only its last Capacity() elements are kept. If the write fills the
// buffer, the oldest unread elements are evicted without notifying the readers.
func (r *RingBuffer[T]) Write(source []T) {
	if len(source) == 0 {
		return
	}

	if r.capacity == 0 {
		r.stats.truncated.Add(uint64(len(source)))
		r.logDropped(len(source), 0)

		return
	}

	var plan WritePlan
	var evicted int
	if r.optsRelaxedWrite {
		plan, evicted = r.writeRelaxed(source)
	} else {
		plan, evicted = r.writeLocked(source)
	}

	r.stats.written.Add(uint64(plan.Length))
	r.stats.truncated.Add(uint64(plan.Skip))
	r.stats.evicted.Add(uint64(evicted))

	if plan.Skip != 0 || evicted != 0 {
		r.logDropped(plan.Skip, evicted)
	}
}

// Read consumes up to len(destination) unread elements and copies them to the start of destination. It returns
// the number of elements read; the rest of destination is left untouched.
func (r *RingBuffer[T]) Read(destination []T) int {
	return r.consume(destination, copyInto[T])
}

// ReadAndSum consumes up to len(destination) unread elements and adds them element-wise to destination. It returns
// the number of elements consumed; the rest of destination is left untouched.
//
// Calling ReadAndSum on several buffers with the same destination mixes their streams.
func (r *RingBuffer[T]) ReadAndSum(destination []T) int {
	return r.consume(destination, sumInto[T])
}

// Stats returns a snapshot of the buffer's counters.
func (r *RingBuffer[T]) Stats() Stats {
	return r.stats.snapshot()
}

// writeLocked copies and commits the write while holding the lock.
func (r *RingBuffer[T]) writeLocked(source []T) (plan WritePlan, evicted int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	plan = r.cursors.PlanWrite(len(source))
	r.copyIn(source, plan)

	next, evicted := r.cursors.ApplyWrite(plan)
	r.commit(next)

	return plan, evicted
}

// writeRelaxed copies into the storage before taking the lock and only commits the cursors under it. Only the
// writer moves the write cursor, so the plan stays valid while the lock is released.
func (r *RingBuffer[T]) writeRelaxed(source []T) (plan WritePlan, evicted int) {
	plan = Cursors{Capacity: r.capacity, Write: r.writeCursor()}.PlanWrite(len(source))
	r.copyIn(source, plan)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	next, evicted := r.cursors.ApplyWrite(plan)
	r.commit(next)

	return plan, evicted
}

func (r *RingBuffer[T]) writeCursor() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.cursors.Write
}

func (r *RingBuffer[T]) copyIn(source []T, plan WritePlan) {
	kept := source[plan.Skip:]

	first, second := Span(plan.Start, plan.Length, r.capacity)
	copy(r.storage[plan.Start:plan.Start+first], kept[:first])
	copy(r.storage[:second], kept[first:first+second])
}

func (r *RingBuffer[T]) consume(destination []T, transfer func(destination, source []T)) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	next, start, actual := r.cursors.ApplyRead(len(destination))
	if actual == 0 {
		return 0
	}

	first, second := Span(start, actual, r.capacity)
	transfer(destination[:first], r.storage[start:start+first])
	transfer(destination[first:actual], r.storage[:second])

	r.commit(next)
	r.stats.read.Add(uint64(actual))

	return actual
}

func (r *RingBuffer[T]) logDropped(truncated, evicted int) {
	if ce := r.optsLogger.Check(zap.DebugLevel, "dropped elements"); ce != nil {
		ce.Write(zap.Int("truncated", truncated), zap.Int("evicted", evicted), zap.Int("capacity", r.capacity))
	}
}

// commit moves the cursors to next. The capacity is fixed at creation and is never written again.
func (r *RingBuffer[T]) commit(next Cursors) {
	r.cursors.Read = next.Read
	r.cursors.Write = next.Write
	r.cursors.Count = next.Count
}

func copyInto[T constraints.Summable](destination, source []T) {
	copy(destination, source)
}

func sumInto[T constraints.Summable](destination, source []T) {
	for i, element := range source {
		destination[i] += element
	}
}

// WithName sets the name the buffer uses in its log messages.
func WithName[T constraints.Summable](name string) options.Option[RingBuffer[T]] {
	return func(r *RingBuffer[T]) {
		r.optsName = name
	}
}

// WithLogger sets the logger that reports dropped (truncated or evicted) elements at debug level.
func WithLogger[T constraints.Summable](logger *zap.Logger) options.Option[RingBuffer[T]] {
	return func(r *RingBuffer[T]) {
		if logger != nil {
			r.optsLogger = logger
		}
	}
}

// WithRelaxedWrite lets Write copy into the storage before acquiring the lock, so that only its bookkeeping is
// serialized with the readers. Concurrent readers may then observe elements at the eviction boundary while they
// are being overwritten.
func WithRelaxedWrite[T constraints.Summable](relaxed bool) options.Option[RingBuffer[T]] {
	return func(r *RingBuffer[T]) {
		r.optsRelaxedWrite = relaxed
	}
}
