package ringbuffer

// Cursors is the bookkeeping state of a ring buffer: where the next write lands, where the next read starts and
// how many unread elements lie in between. All transitions are pure; locking and copying are done by RingBuffer.
//
// The unread elements always occupy the circular range [Read, Read+Count) modulo Capacity.
type Cursors struct {
	Capacity int
	Read     int
	Write    int
	Count    int
}

// WritePlan describes how a write of a batch of elements maps onto the storage.
type WritePlan struct {
	// Skip is the number of leading source elements that are dropped because the batch exceeds the capacity.
	Skip int
	// Length is the number of source elements that are copied into the storage.
	Length int
	// Start is the storage index the first copied element lands on.
	Start int
	// NextWrite is the write cursor after the copy.
	NextWrite int
}

// PlanWrite computes where a batch of requested elements is copied to. Only the most recent Capacity elements of
// a batch are kept.
func (c Cursors) PlanWrite(requested int) WritePlan {
	if requested <= 0 || c.Capacity == 0 {
		return WritePlan{Skip: max(requested, 0), Start: c.Write, NextWrite: c.Write}
	}

	length := requested
	if length > c.Capacity {
		length = c.Capacity
	}

	return WritePlan{
		Skip:      requested - length,
		Length:    length,
		Start:     c.Write,
		NextWrite: (c.Write + length) % c.Capacity,
	}
}

// ApplyWrite returns the cursors after the given plan was copied into the storage and the number of unread
// elements that were evicted by it.
//
// If the write leaves the buffer below its capacity, the count simply grows. Otherwise the buffer becomes full:
// the count snaps to exactly Capacity and the read cursor moves onto the new write cursor, so that the oldest
// unread elements are the first to go.
func (c Cursors) ApplyWrite(plan WritePlan) (next Cursors, evicted int) {
	if plan.Length == 0 {
		return c, 0
	}

	next = c
	next.Write = plan.NextWrite

	if c.Count+plan.Length < c.Capacity {
		next.Count = c.Count + plan.Length

		return next, 0
	}

	next.Read = next.Write
	next.Count = c.Capacity

	return next, c.Count + plan.Length - c.Capacity
}

// ApplyRead returns the cursors after consuming up to requested elements, together with the storage index the
// consumed range starts at and the number of elements actually consumed.
func (c Cursors) ApplyRead(requested int) (next Cursors, start int, actual int) {
	if actual = min(requested, c.Count); actual <= 0 {
		return c, c.Read, 0
	}

	next = c
	next.Read = (c.Read + actual) % c.Capacity
	next.Count = c.Count - actual

	return next, c.Read, actual
}

// Span splits the circular range [start, start+length) of a storage with the given capacity into its two
// contiguous runs: [start, start+first) and [0, second).
func Span(start, length, capacity int) (first, second int) {
	if distanceToEnd := capacity - start; length > distanceToEnd {
		return distanceToEnd, length - distanceToEnd
	}

	return length, 0
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}
