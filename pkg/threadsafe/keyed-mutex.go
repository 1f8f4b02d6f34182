package threadsafe

import "sync"

// KeyedMutex serializes callers contending on the same key while callers
// with distinct keys never block one another. Lock entries are dropped once
// the last holder releases them, so the map does not grow with key churn.
type KeyedMutex[T comparable] struct {
	mux   *sync.Mutex
	locks map[T]*keyLock
}

type keyLock struct {
	mux  sync.Mutex
	refs int
}

func NewKeyedMutex[T comparable]() *KeyedMutex[T] {
	return &KeyedMutex[T]{
		mux:   &sync.Mutex{},
		locks: make(map[T]*keyLock),
	}
}

func (k *KeyedMutex[T]) Lock(key T) {
	k.mux.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &keyLock{}
		k.locks[key] = lock
	}
	lock.refs++
	k.mux.Unlock()

	lock.mux.Lock()
}

func (k *KeyedMutex[T]) Unlock(key T) {
	k.mux.Lock()
	lock, ok := k.locks[key]
	if !ok {
		k.mux.Unlock()
		panic("threadsafe: unlock of unheld keyed mutex")
	}
	lock.refs--
	if lock.refs == 0 {
		delete(k.locks, key)
	}
	k.mux.Unlock()

	lock.mux.Unlock()
}
