//go:build !deadlock

package syncutils

import (
	"sync"
)

// RWMutex is the reader/writer lock used by the buffers of this module.
type RWMutex = sync.RWMutex
