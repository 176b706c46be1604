package mixer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/ringmix/ierrors"
	"github.com/iotaledger/ringmix/ringbuffer"
)

func TestMixer_Streams(t *testing.T) {
	m := New[float32](16)
	require.Equal(t, 0, m.StreamCount())

	left := m.Stream("left")
	right := m.Stream("right")
	require.Same(t, left, m.Stream("left"))
	require.NotSame(t, left, right)
	require.Equal(t, 16, left.Capacity())

	m.Stream("center")
	require.Equal(t, []string{"left", "right", "center"}, m.StreamIDs())
	require.Equal(t, 3, m.StreamCount())

	require.True(t, m.RemoveStream("right"))
	require.False(t, m.RemoveStream("right"))
	require.Equal(t, []string{"left", "center"}, m.StreamIDs())
}

func TestMixer_WriteUnknownStream(t *testing.T) {
	m := New[float32](16)

	err := m.Write("missing", []float32{1})
	require.Error(t, err)
	require.True(t, ierrors.Is(err, ErrUnknownStream))

	m.Stream("known")
	require.NoError(t, m.Write("known", []float32{1}))
	require.Equal(t, 1, m.Stream("known").Size())
}

func TestMixer_Mix(t *testing.T) {
	m := New[int](16)

	m.Stream("a")
	m.Stream("b")
	m.Stream("c")

	require.NoError(t, m.Write("a", []int{1, 2, 3, 4}))
	require.NoError(t, m.Write("b", []int{10, 20}))

	destination := []int{-1, -1, -1, -1, -1}
	require.Equal(t, 4, m.Mix(destination))
	assert.Equal(t, []int{11, 22, 3, 4, 0}, destination)

	require.Equal(t, 0, m.Mix(destination))
	assert.Equal(t, []int{0, 0, 0, 0, 0}, destination)
}

func TestMixer_AccumulateIdenticalStreams(t *testing.T) {
	const (
		streams = 4
		length  = 6
	)

	m := New[float64](length * 2)

	source := []float64{0.5, -1, 2, 0, 3.25, 1}
	for i := 0; i < streams; i++ {
		stream := m.Stream(string(rune('a' + i)))
		stream.Write(source)
	}

	destination := make([]float64, length)
	require.Equal(t, length, m.Accumulate(destination))
	for i, element := range destination {
		require.InDelta(t, source[i]*streams, element, 1e-9)
	}

	// a second pass adds on top of the previous result
	for _, id := range m.StreamIDs() {
		require.NoError(t, m.Write(id, source))
	}
	require.Equal(t, length, m.Accumulate(destination))
	for i, element := range destination {
		require.InDelta(t, source[i]*streams*2, element, 1e-9)
	}
}

func TestMixer_Stats(t *testing.T) {
	m := New[int](4, WithRelaxedWrite[int](true))

	m.Stream("a").Write([]int{1, 2, 3, 4, 5, 6})
	m.Stream("b").Write([]int{1})

	require.Equal(t, 1, m.Mix(make([]int, 1)))

	stats := m.Stats()
	require.Len(t, stats, 2)
	require.Equal(t, ringbuffer.Stats{Written: 4, Read: 1, Truncated: 2}, stats["a"])
	require.Equal(t, ringbuffer.Stats{Written: 1, Read: 1}, stats["b"])
}

func TestMixer_ConcurrentProducers(t *testing.T) {
	const (
		streams = 8
		frames  = 200
		length  = 32
	)

	m := New[int64](frames * length)

	var wg sync.WaitGroup
	for i := 0; i < streams; i++ {
		stream := m.Stream(string(rune('a' + i)))

		wg.Add(1)
		go func() {
			defer wg.Done()

			frame := make([]int64, length)
			for j := range frame {
				frame[j] = 1
			}
			for j := 0; j < frames; j++ {
				stream.Write(frame)
			}
		}()
	}

	var total int64
	destination := make([]int64, length)
	mix := func() {
		m.Mix(destination)
		for _, element := range destination {
			total += element
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for running := true; running; {
		mix()

		select {
		case <-done:
			running = false
		default:
		}
	}
	for i := 0; i < frames; i++ {
		mix()
	}

	require.Equal(t, int64(streams*frames*length), total)
}
