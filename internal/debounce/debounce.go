// Package debounce collapses bursts of updates into a single delayed call.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used for the search box.
const DefaultDelay = 300 * time.Millisecond

// Debouncer holds at most one pending call. Each Trigger cancels the
// pending call and schedules a new one with the latest value.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	gen     uint64
	pending bool
	value   T
	stopped bool
}

// New creates a debouncer that calls fn with the last triggered value once
// delay has elapsed without another Trigger. fn runs on a timer goroutine.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger restarts the quiet period with v as the value to deliver.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.value = v
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire delivers the value unless a newer Trigger, Flush or Stop superseded
// this timer after it had already started.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}

// Flush runs the pending call immediately on the caller's goroutine.
// It reports whether there was a pending call.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	v := d.value
	d.pending = false
	d.mu.Unlock()

	d.fn(v)
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels any pending call and disables further triggers.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
