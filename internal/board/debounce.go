package board

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// debouncer holds at most one pending call. Scheduling again replaces the
// pending call and restarts the delay.
type debouncer struct {
	mu    sync.Mutex
	after AfterFunc
	delay time.Duration
	timer Timer
	gen   uint64
}

func newDebouncer(after AfterFunc, delay time.Duration) *debouncer {
	return &debouncer{after: after, delay: delay}
}

func (d *debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.after(d.delay, func() {
		d.mu.Lock()
		if d.gen != gen {
			// superseded or cancelled after the timer already fired
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
