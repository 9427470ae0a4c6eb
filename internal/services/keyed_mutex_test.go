package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := newKeyedMutex()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock(7)
			counter++
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Zero(t, km.size())
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := newKeyedMutex()
	unlockA := km.Lock(1)
	done := make(chan struct{})
	go func() {
		unlockB := km.Lock(2)
		unlockB()
		close(done)
	}()
	<-done
	assert.Equal(t, 1, km.size())
	unlockA()
	assert.Zero(t, km.size())
}
