package gateway

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifierEmitReachesAllSubscribers(t *testing.T) {
	n := NewNotifier()

	var a, b int
	n.Subscribe(func() { a++ })
	n.Subscribe(func() { b++ })

	n.Emit()
	n.Emit()

	assert.Equal(t, 2, a)
	assert.Equal(t, 2, b)
}

func TestNotifierCancelStopsDelivery(t *testing.T) {
	n := NewNotifier()

	var calls int
	cancel := n.Subscribe(func() { calls++ })

	n.Emit()
	cancel()
	cancel() // idempotent
	n.Emit()

	assert.Equal(t, 1, calls)
}

func TestNotifierUnsubscribeFromWithinHandler(t *testing.T) {
	n := NewNotifier()

	var calls int
	var cancel func()
	cancel = n.Subscribe(func() {
		calls++
		cancel()
	})

	n.Emit()
	n.Emit()

	assert.Equal(t, 1, calls)
}

func TestNotifierConcurrentEmit(t *testing.T) {
	n := NewNotifier()

	var mu sync.Mutex
	calls := 0
	n.Subscribe(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Emit()
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, calls)
}
