//go:build deadlock

package syncutils

import (
	"time"

	"github.com/sasha-s/go-deadlock"
)

type RWMutex = deadlock.RWMutex

// DeadlockTimeout is the time a lock may be waited on before go-deadlock reports it.
const DeadlockTimeout = 20 * time.Second

func init() {
	deadlock.Opts.DeadlockTimeout = DeadlockTimeout
}
