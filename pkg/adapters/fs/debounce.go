package fs

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is how long a key must stay quiet before it is checked.
const DefaultDebounce = 50 * time.Millisecond

// debouncer coalesces bursts of filesystem events per key. Settled keys are
// delivered on Due so the caller handles them on its own goroutine.
type debouncer struct {
	ctx    context.Context
	delay  time.Duration
	mu     sync.Mutex
	timers map[string]*time.Timer
	due    chan string
}

func newDebouncer(ctx context.Context, delay time.Duration) *debouncer {
	return &debouncer{
		ctx:    ctx,
		delay:  delay,
		timers: make(map[string]*time.Timer),
		due:    make(chan string, 16),
	}
}

// Due yields keys whose events have settled.
func (d *debouncer) Due() <-chan string { return d.due }

// add (re)starts the quiet period for key.
func (d *debouncer) add(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Reset(d.delay)
		return
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()

		select {
		case d.due <- key:
		case <-d.ctx.Done():
		}
	})
}

// stop cancels all pending timers.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
