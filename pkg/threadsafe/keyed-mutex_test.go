package threadsafe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex[string]()

	const goroutines = 16
	counter := 0
	wg := &sync.WaitGroup{}
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("order-1")
			defer km.Unlock("order-1")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
	assert.Empty(t, km.locks, "released locks must not accumulate")
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex[string]()

	km.Lock("order-1")
	done := make(chan struct{})
	go func() {
		km.Lock("order-2")
		km.Unlock("order-2")
		close(done)
	}()
	<-done

	km.Unlock("order-1")
}

func TestKeyedMutexUnlockUnheldPanics(t *testing.T) {
	km := NewKeyedMutex[string]()
	assert.Panics(t, func() { km.Unlock("never-locked") })
}
