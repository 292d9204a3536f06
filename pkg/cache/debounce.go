package cache

import (
	"sync"
	"time"

	"github.com/aretw0/marl/pkg/core"
)

// debouncer coalesces rapid event bursts per source. Editors commonly emit
// several writes for one save; only the last event within the interval is
// delivered.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	pending map[string]pendingEvent
	wg      sync.WaitGroup
	stopped bool
}

type pendingEvent struct {
	timer *time.Timer
	event core.Event
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		pending:  make(map[string]pendingEvent),
	}
}

// add schedules fn for the event, replacing any pending delivery for the
// same source. Events arriving after stopAndWait are dropped.
func (d *debouncer) add(event core.Event, fn func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if pend, ok := d.pending[event.Source]; ok {
		if pend.timer.Stop() {
			// The pending callback was cancelled before firing.
			d.wg.Done()
			// A create followed by writes within one burst still reads as a
			// create.
			if pend.event.Type == core.EventCreate && event.Type == core.EventModify {
				event.Type = core.EventCreate
			}
		}
	}

	d.wg.Add(1)
	d.pending[event.Source] = pendingEvent{
		event: event,
		timer: time.AfterFunc(d.interval, func() {
			defer d.wg.Done()

			d.mu.Lock()
			delete(d.pending, event.Source)
			d.mu.Unlock()

			fn(event)
		}),
	}
}

// stopAndWait rejects further events, cancels pending timers and waits for
// in-flight callbacks to finish, up to timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for source, pend := range d.pending {
		if pend.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, source)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
