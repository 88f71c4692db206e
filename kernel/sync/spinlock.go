// Package sync provides synchronization primitive implementations for
// spinlocks.
package sync

import "sync/atomic"

var (
	// yieldFn is invoked after attemptsBeforeYielding failed attempts to
	// acquire a lock. It is nil while the kernel has no scheduler.
	yieldFn func()
)

// attemptsBeforeYielding is the number of spins performed before
// handing the CPU over to yieldFn.
const attemptsBeforeYielding = 64

// Spinlock implements a lock where each task trying to acquire it busy-waits
// till the lock becomes available.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock can be acquired by the currently active task.
// Any attempt to re-acquire a lock already held by the current task will cause
// a deadlock.
func (l *Spinlock) Acquire() {
	for attempt := uint32(1); !atomic.CompareAndSwapUint32(&l.state, 0, 1); attempt++ {
		if attempt%attemptsBeforeYielding == 0 && yieldFn != nil {
			yieldFn()
		}
	}
}

// Release relinquishes a held lock allowing other tasks to acquire it. Calling
// Release while the lock is free has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}
