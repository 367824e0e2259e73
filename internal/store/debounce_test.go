package store

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerRunsLastCallOnce(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Close()

	var (
		mu    sync.Mutex
		calls []int
	)
	for i := 0; i < 5; i++ {
		i := i
		d.Trigger(func() {
			mu.Lock()
			calls = append(calls, i)
			mu.Unlock()
		})
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(40 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{4}, calls)
	assert.False(t, d.Pending())
}

func TestDebouncerFlush(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Close()

	var runs int32
	d.Trigger(func() { atomic.AddInt32(&runs, 1) })
	assert.True(t, d.Pending())

	assert.True(t, d.Flush())
	assert.False(t, d.Flush())
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestDebouncerCancelAndClose(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var runs int32
	d.Trigger(func() { atomic.AddInt32(&runs, 1) })
	d.Cancel()
	assert.False(t, d.Pending())

	d.Close()
	d.Trigger(func() { atomic.AddInt32(&runs, 1) })
	assert.False(t, d.Pending())

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&runs))
}

func TestDebouncerWithoutDelayRunsImmediately(t *testing.T) {
	d := NewDebouncer(0)

	ran := false
	d.Trigger(func() { ran = true })

	assert.True(t, ran)
	assert.False(t, d.Pending())
}
