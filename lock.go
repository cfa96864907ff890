package plume

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrNotOwner is returned by Release when the token does not hold the lock.
var ErrNotOwner = errors.New("plume: lock not held by owner")

// spinAttempts bounds the TryLock loop before Acquire blocks.
const spinAttempts = 64

// Owner identifies one acquisition of a Lock. The zero Owner never holds it.
type Owner uint64

// Lock guards the published state. Critical sections are a struct copy, so
// Acquire spins briefly before it blocks. The lock is not reentrant.
type Lock struct {
	mu    sync.Mutex
	owner atomic.Uint64
	next  atomic.Uint64
}

// Acquire takes the lock and returns the token that must release it.
func (l *Lock) Acquire() Owner {
	acquired := false
	for range spinAttempts {
		if l.mu.TryLock() {
			acquired = true
			break
		}
		runtime.Gosched()
	}
	if !acquired {
		l.mu.Lock()
	}

	token := l.next.Add(1)
	l.owner.Store(token)
	return Owner(token)
}

// Release unlocks if owner holds the lock. Any other token leaves the lock
// untouched and fails with ErrNotOwner.
func (l *Lock) Release(owner Owner) error {
	if owner == 0 || !l.owner.CompareAndSwap(uint64(owner), 0) {
		return ErrNotOwner
	}
	l.mu.Unlock()
	return nil
}

// Held reports whether some owner currently holds the lock.
func (l *Lock) Held() bool {
	return l.owner.Load() != 0
}
