// internal/service/lookup/debounce.go

package lookup

import (
	"context"
	"sync"
	"time"

	"flightscout/internal/domain/flight"
)

// Finder is a fail-soft lookup, satisfied by *Service
type Finder interface {
	Search(ctx context.Context, query string) []flight.AirportOption
}

// Result is a delivered lookup
type Result struct {
	Seq     uint64                 `json:"seq"`
	Query   string                 `json:"query"`
	Options []flight.AirportOption `json:"options"`
}

// Debouncer serves one input field. Each Submit gets the next sequence number
// and restarts the quiet-period timer, so a burst of keystrokes issues one
// lookup. A result is delivered only if its sequence is still the latest one
// submitted when it arrives; older in-flight results are dropped.
type Debouncer struct {
	ctx     context.Context
	delay   time.Duration
	finder  Finder
	deliver func(Result)

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer. Lookups run with ctx and stop when it ends.
func NewDebouncer(ctx context.Context, delay time.Duration, finder Finder, deliver func(Result)) *Debouncer {
	return &Debouncer{
		ctx:     ctx,
		delay:   delay,
		finder:  finder,
		deliver: deliver,
	}
}

// Submit schedules a lookup for query and returns its sequence number
func (d *Debouncer) Submit(query string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq
	if d.stopped {
		return seq
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq, query) })
	return seq
}

// Stop cancels any pending lookup and suppresses future deliveries
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *Debouncer) fire(seq uint64, query string) {
	if !d.current(seq) || d.ctx.Err() != nil {
		return
	}

	options := d.finder.Search(d.ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || seq != d.seq {
		return
	}
	d.deliver(Result{Seq: seq, Query: query, Options: options})
}

func (d *Debouncer) current(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.stopped && seq == d.seq
}
