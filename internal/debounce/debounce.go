// Package debounce coalesces bursts of value changes into a single delayed update.
package debounce

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// afterFunc schedules f after d. Replaced in tests.
type afterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer delivers the latest value passed to Set once no further Set call
// has happened for the configured delay. Every Set cancels the pending
// delivery and restarts the wait. It is safe for concurrent use.
type Debouncer[T any] struct {
	delay     time.Duration
	fn        func(T)
	afterFunc afterFunc

	mu      sync.Mutex
	timer   Timer
	pending bool
	value   T
	gen     uint64
	stopped bool
}

// New creates a Debouncer that calls fn with the settled value after delay.
// A non-positive delay delivers synchronously inside Set.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay:     delay,
		fn:        fn,
		afterFunc: realAfterFunc,
	}
}

// Set records v as the latest value and restarts the quiet period.
// Calls after Stop are ignored.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()
	if d.delay <= 0 {
		d.mu.Unlock()
		d.fn(v)
		return
	}

	d.value = v
	d.pending = true
	gen := d.gen
	d.timer = d.afterFunc(d.delay, func() { d.fire(gen) })
	d.mu.Unlock()
}

// Flush delivers the pending value immediately, if there is one.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.cancelLocked()
	d.mu.Unlock()
	d.fn(v)
}

// Pending reports whether a delivery is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels any pending delivery and disables the debouncer. No delivery
// starts after Stop returns, even if the timer already fired.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// cancelLocked drops the pending delivery. The generation bump invalidates a
// timer callback that is already running but has not taken the lock yet.
func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
	var zero T
	d.value = zero
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.timer = nil
	d.pending = false
	d.gen++
	d.mu.Unlock()
	d.fn(v)
}
