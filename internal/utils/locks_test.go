package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("thread:pet_1:vet@clinic.com")
			counter++
			km.Unlock("thread:pet_1:vet@clinic.com")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedMutex_IndependentKeysDoNotBlock(t *testing.T) {
	km := NewKeyedMutex()
	km.Lock("a")
	defer km.Unlock("a")

	done := make(chan struct{})
	go func() {
		km.Lock("b")
		km.Unlock("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent key blocked behind an unrelated holder")
	}
}

func TestKeyedMutex_ReleasedKeysAreEvicted(t *testing.T) {
	km := NewKeyedMutex()
	km.Lock("a")
	km.Lock("b")

	km.mu.Lock()
	assert.Len(t, km.locks, 2)
	km.mu.Unlock()

	km.Unlock("a")
	km.Unlock("b")

	km.mu.Lock()
	assert.Empty(t, km.locks, "released keys must not accumulate")
	km.mu.Unlock()
}

func TestKeyedMutex_ContendedKeySurvivesUntilLastRelease(t *testing.T) {
	km := NewKeyedMutex()
	km.Lock("a")

	acquired := make(chan struct{})
	released := make(chan struct{})
	go func() {
		km.Lock("a")
		close(acquired)
		km.Unlock("a")
		close(released)
	}()

	// Wait for the second holder to register before releasing.
	for {
		km.mu.Lock()
		waiting := km.locks["a"] != nil && km.locks["a"].refs == 2
		km.mu.Unlock()
		if waiting {
			break
		}
		time.Sleep(time.Millisecond)
	}

	km.Unlock("a")
	<-acquired
	<-released

	km.mu.Lock()
	assert.Empty(t, km.locks)
	km.mu.Unlock()
}
