package syncer

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/timex"
)

// Debouncer holds a single timer slot. Every Trigger replaces the pending
// timer, so a burst of calls runs fn once, delay after the last call.
type Debouncer struct {
	clock timex.Clock

	mu    sync.Mutex
	timer timex.Timer
	seq   uint64
}

func NewDebouncer(clock timex.Clock) *Debouncer {
	if clock == nil {
		clock = timex.System{}
	}
	return &Debouncer{clock: clock}
}

func (d *Debouncer) Trigger(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(delay, func() {
		d.mu.Lock()
		// A timer that fired while being replaced must not run.
		if d.seq != seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Stop cancels the pending call, if any, and reports whether there was one.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
