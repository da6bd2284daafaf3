package watch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Debouncer runs the latest triggered work after a quiet period and delivers
// its result only if no newer trigger arrived meanwhile. Older runs are
// cancelled through their context and their results are discarded.
type Debouncer[T any] struct {
	delay      time.Duration
	deliver    func(T)
	superseded func()

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool

	deliverMu sync.Mutex
	wg        sync.WaitGroup
	dropped   atomic.Int64
}

// NewDebouncer creates a debouncer that hands current results to deliver.
// onSuperseded, if not nil, is called once for every discarded run.
func NewDebouncer[T any](delay time.Duration, deliver func(T), onSuperseded func()) *Debouncer[T] {
	return &Debouncer[T]{
		delay:      delay,
		deliver:    deliver,
		superseded: onSuperseded,
	}
}

// Trigger schedules work, superseding any pending or running work.
func (d *Debouncer[T]) Trigger(ctx context.Context, work func(context.Context) T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.gen++
	gen := d.gen
	if d.timer != nil && d.timer.Stop() {
		// The pending run never started.
		d.wg.Done()
		d.discard()
	}
	if d.cancel != nil {
		d.cancel()
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.wg.Add(1)
	d.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		defer cancel()
		result := work(runCtx)

		d.deliverMu.Lock()
		defer d.deliverMu.Unlock()
		switch stale, closed := d.state(gen); {
		case closed:
			return
		case stale:
			d.discard()
			return
		}
		d.deliver(result)
	})
}

func (d *Debouncer[T]) state(gen uint64) (stale, closed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen != d.gen, d.closed
}

func (d *Debouncer[T]) discard() {
	d.dropped.Add(1)
	if d.superseded != nil {
		d.superseded()
	}
}

// Superseded returns the number of runs whose result was discarded.
func (d *Debouncer[T]) Superseded() int64 {
	return d.dropped.Load()
}

// Close cancels pending work and waits for running work to finish. Nothing
// is delivered after Close returns.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()

	d.wg.Wait()
}
