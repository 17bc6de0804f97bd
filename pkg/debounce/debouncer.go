package debounce

import (
	"sync"
	"time"
)

// Debouncer time-windows a stream of raw text values and emits only the
// latest one once no new value has arrived for a full window. At most one
// emission is pending at a time, a new value cancels and reschedules it.
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	emit   func(string)
	seq    uint64
	timer  *time.Timer
}

func New(window time.Duration, emit func(string)) *Debouncer {
	if window <= 0 {
		window = 300 * time.Millisecond
	}
	return &Debouncer{window: window, emit: emit}
}

// Set schedules value for emission after the quiescence window, superseding
// any pending value. An empty value goes through the same mechanism, once
// settled that is observably equivalent to an immediate clear.
func (d *Debouncer) Set(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		current := d.seq == seq
		d.mu.Unlock()
		if current {
			d.emit(value)
		}
	})
}

// Flush emits the pending value immediately, used on explicit submit.
func (d *Debouncer) Flush(value string) {
	d.mu.Lock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.emit(value)
}

// Stop cancels any pending emission.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
