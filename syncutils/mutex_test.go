package syncutils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRWMutexSerializesWriters(t *testing.T) {
	var (
		mutex   RWMutex
		counter int
		wg      sync.WaitGroup
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < 1000; j++ {
				mutex.Lock()
				counter++
				mutex.Unlock()
			}
		}()
	}
	wg.Wait()

	mutex.RLock()
	defer mutex.RUnlock()

	require.Equal(t, 8000, counter)
}
