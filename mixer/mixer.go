// Package mixer combines several independently buffered sample streams into one output by accumulating every
// stream's ring buffer into a shared destination.
package mixer

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"go.uber.org/zap"

	"github.com/iotaledger/ringmix/constraints"
	"github.com/iotaledger/ringmix/ierrors"
	"github.com/iotaledger/ringmix/options"
	"github.com/iotaledger/ringmix/ringbuffer"
	"github.com/iotaledger/ringmix/syncutils"
)

// ErrUnknownStream is returned when a stream is addressed that was never registered.
var ErrUnknownStream = ierrors.New("unknown stream")

// Mixer owns one ring buffer per stream and mixes them in registration order.
type Mixer[T constraints.Summable] struct {
	streamCapacity int
	streams        *linkedhashmap.Map
	mutex          syncutils.RWMutex

	optsLogger       *zap.Logger
	optsRelaxedWrite bool
}

// New creates a Mixer whose streams buffer up to streamCapacity elements each.
func New[T constraints.Summable](streamCapacity int, opts ...options.Option[Mixer[T]]) *Mixer[T] {
	return options.Apply(&Mixer[T]{
		streamCapacity: streamCapacity,
		streams:        linkedhashmap.New(),
		optsLogger:     zap.NewNop(),
	}, opts)
}

// Stream returns the buffer of the stream with the given id, creating it if it does not exist yet.
func (m *Mixer[T]) Stream(id string) *ringbuffer.RingBuffer[T] {
	if stream, exists := m.stream(id); exists {
		return stream
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if stream, exists := m.streams.Get(id); exists {
		return stream.(*ringbuffer.RingBuffer[T])
	}

	stream := ringbuffer.New[T](m.streamCapacity,
		ringbuffer.WithName[T](id),
		ringbuffer.WithLogger[T](m.optsLogger),
		ringbuffer.WithRelaxedWrite[T](m.optsRelaxedWrite),
	)
	m.streams.Put(id, stream)

	m.optsLogger.Debug("stream added", zap.String("stream", id), zap.Int("capacity", m.streamCapacity))

	return stream
}

// Write writes the given samples to a registered stream.
func (m *Mixer[T]) Write(id string, source []T) error {
	stream, exists := m.stream(id)
	if !exists {
		return ierrors.Wrapf(ErrUnknownStream, "stream %s", id)
	}

	stream.Write(source)

	return nil
}

// RemoveStream drops the stream with the given id together with its unread samples.
func (m *Mixer[T]) RemoveStream(id string) (removed bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, removed = m.streams.Get(id); removed {
		m.streams.Remove(id)

		m.optsLogger.Debug("stream removed", zap.String("stream", id))
	}

	return removed
}

// StreamIDs returns the ids of all streams in registration order.
func (m *Mixer[T]) StreamIDs() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	ids := make([]string, 0, m.streams.Size())
	for _, key := range m.streams.Keys() {
		ids = append(ids, key.(string))
	}

	return ids
}

// StreamCount returns the number of registered streams.
func (m *Mixer[T]) StreamCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.streams.Size()
}

// Mix zeroes destination and accumulates the unread samples of every stream into it. It returns the largest number
// of samples any stream contributed; the elements after it are zero.
func (m *Mixer[T]) Mix(destination []T) int {
	var zero T
	for i := range destination {
		destination[i] = zero
	}

	return m.Accumulate(destination)
}

// Accumulate adds the unread samples of every stream to destination without clearing it first. It returns the
// largest number of samples any stream contributed.
func (m *Mixer[T]) Accumulate(destination []T) (mixed int) {
	for _, stream := range m.snapshot() {
		if consumed := stream.ReadAndSum(destination); consumed > mixed {
			mixed = consumed
		}
	}

	return mixed
}

// Stats returns the counters of every stream, keyed by stream id.
func (m *Mixer[T]) Stats() map[string]ringbuffer.Stats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	stats := make(map[string]ringbuffer.Stats, m.streams.Size())
	m.streams.Each(func(key interface{}, value interface{}) {
		stats[key.(string)] = value.(*ringbuffer.RingBuffer[T]).Stats()
	})

	return stats
}

func (m *Mixer[T]) stream(id string) (*ringbuffer.RingBuffer[T], bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	stream, exists := m.streams.Get(id)
	if !exists {
		return nil, false
	}

	return stream.(*ringbuffer.RingBuffer[T]), true
}

// snapshot returns the buffers in registration order so that they can be drained without holding the lock.
func (m *Mixer[T]) snapshot() []*ringbuffer.RingBuffer[T] {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	streams := make([]*ringbuffer.RingBuffer[T], 0, m.streams.Size())
	for _, value := range m.streams.Values() {
		streams = append(streams, value.(*ringbuffer.RingBuffer[T]))
	}

	return streams
}

// WithLogger sets the logger of the mixer and of its streams.
func WithLogger[T constraints.Summable](logger *zap.Logger) options.Option[Mixer[T]] {
	return func(m *Mixer[T]) {
		if logger != nil {
			m.optsLogger = logger
		}
	}
}

// WithRelaxedWrite configures every stream buffer to copy outside of its lock (see ringbuffer.WithRelaxedWrite).
func WithRelaxedWrite[T constraints.Summable](relaxed bool) options.Option[Mixer[T]] {
	return func(m *Mixer[T]) {
		m.optsRelaxedWrite = relaxed
	}
}
