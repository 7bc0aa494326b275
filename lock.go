package hypo

import "sync"

// LockManager hands out one mutex per key.
type LockManager[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*sync.Mutex
}

func NewLockManager[K comparable]() *LockManager[K] {
	return &LockManager[K]{
		locks: make(map[K]*sync.Mutex),
	}
}

func (lm *LockManager[K]) GetLockFor(key K) *sync.Mutex {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if lock, exists := lm.locks[key]; exists {
		return lock
	}

	lock := &sync.Mutex{}
	lm.locks[key] = lock
	return lock
}
