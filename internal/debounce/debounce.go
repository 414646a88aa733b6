// Package debounce converts raw, possibly-noisy button samples into discrete
// press events. One independent instance of state exists per rack position.
package debounce

import "time"

type positionState struct {
	lastRaw   bool
	lastEvent time.Time
}

// Debouncer suppresses contact chatter by accepting at most one press event
// per window for each position. It is driven from a single goroutine (the
// supervisor tick loop) and is not safe for concurrent use.
type Debouncer struct {
	window time.Duration
	states map[int]*positionState
	now    func() time.Time
}

// New creates a debouncer with the given minimum spacing between events.
func New(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		states: make(map[int]*positionState),
		now:    time.Now,
	}
}

// Sample feeds one raw reading for a position and reports whether it counts
// as a press. A press requires a rising edge and at least window elapsed
// since the previous accepted press.
//
// The very first sample for a position only establishes the baseline and
// never emits, even when it reads true: a button already held down at
// startup is not a press.
func (d *Debouncer) Sample(position int, raw bool) bool {
	state, ok := d.states[position]
	if !ok {
		d.states[position] = &positionState{lastRaw: raw}
		return false
	}

	fired := false
	if raw && !state.lastRaw {
		now := d.now()
		if state.lastEvent.IsZero() || now.Sub(state.lastEvent) >= d.window {
			state.lastEvent = now
			fired = true
		}
	}
	state.lastRaw = raw
	return fired
}

// Reset clears all per-position state. Used when the supervisor restarts
// after an emergency stop so stale edges do not replay.
func (d *Debouncer) Reset() {
	d.states = make(map[int]*positionState)
}
