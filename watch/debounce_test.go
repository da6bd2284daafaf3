package watch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu     sync.Mutex
	values []string
}

func (c *collector) add(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, v)
}

func (c *collector) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.values...)
}

func value(v string) func(context.Context) string {
	return func(context.Context) string { return v }
}

func TestDebouncerDeliversSingleTrigger(t *testing.T) {
	var got collector
	d := NewDebouncer(5*time.Millisecond, got.add, nil)
	defer d.Close()

	d.Trigger(context.Background(), value("only"))

	require.Eventually(t, func() bool { return len(got.get()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"only"}, got.get())
	assert.Zero(t, d.Superseded())
}

func TestDebouncerLastCallWins(t *testing.T) {
	var got collector
	var superseded int
	var mu sync.Mutex
	d := NewDebouncer(50*time.Millisecond, got.add, func() {
		mu.Lock()
		superseded++
		mu.Unlock()
	})
	defer d.Close()

	d.Trigger(context.Background(), value("first"))
	d.Trigger(context.Background(), value("second"))
	d.Trigger(context.Background(), value("third"))

	require.Eventually(t, func() bool { return len(got.get()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, []string{"third"}, got.get())
	assert.Equal(t, int64(2), d.Superseded())
	mu.Lock()
	assert.Equal(t, 2, superseded)
	mu.Unlock()
}

func TestDebouncerDiscardsStaleRunningWork(t *testing.T) {
	var got collector
	d := NewDebouncer(time.Millisecond, got.add, nil)
	defer d.Close()

	started := make(chan struct{})
	cancelled := make(chan struct{})
	d.Trigger(context.Background(), func(ctx context.Context) string {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return "stale"
	})

	<-started
	d.Trigger(context.Background(), value("fresh"))

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("stale run was not cancelled")
	}

	require.Eventually(t, func() bool { return d.Superseded() == 1 && len(got.get()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"fresh"}, got.get())
}

func TestDebouncerCloseStopsDelivery(t *testing.T) {
	var got collector
	d := NewDebouncer(20*time.Millisecond, got.add, nil)

	d.Trigger(context.Background(), value("never"))
	d.Close()
	d.Trigger(context.Background(), value("after close"))

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, got.get())
}
