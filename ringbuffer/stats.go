package ringbuffer

import (
	"go.uber.org/atomic"
)

// Stats holds the monotonically increasing counters of a RingBuffer.
type Stats struct {
	// Written is the number of elements copied into the buffer.
	Written uint64
	// Read is the number of elements consumed by Read and ReadAndSum.
	Read uint64
	// Truncated is the number of elements that were skipped because a single write exceeded the capacity.
	Truncated uint64
	// Evicted is the number of unread elements that were overwritten by later writes.
	Evicted uint64
}

// Dropped returns the number of elements passed to Write that can never be read.
func (s Stats) Dropped() uint64 {
	return s.Truncated + s.Evicted
}

type counters struct {
	written   *atomic.Uint64
	read      *atomic.Uint64
	truncated *atomic.Uint64
	evicted   *atomic.Uint64
}

func newCounters() *counters {
	return &counters{
		written:   atomic.NewUint64(0),
		read:      atomic.NewUint64(0),
		truncated: atomic.NewUint64(0),
		evicted:   atomic.NewUint64(0),
	}
}

func (c *counters) snapshot() Stats {
	return Stats{
		Written:   c.written.Load(),
		Read:      c.read.Load(),
		Truncated: c.truncated.Load(),
		Evicted:   c.evicted.Load(),
	}
}
