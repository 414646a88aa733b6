package plc

import (
	"context"
	"sync"
)

// SimPort is an in-memory PLC used for development without hardware and for
// tests. It models the same surface as the real drivers: per-position LED
// and button booleans plus the emergency stop input.
//
// Error injection hooks let tests exercise the device-failure paths.
type SimPort struct {
	mu        sync.Mutex
	connected bool
	leds      map[int]bool
	buttons   map[int]bool
	emergency bool

	readErr  error
	writeErr error
}

// NewSimPort builds a simulator with all outputs off.
func NewSimPort() *SimPort {
	return &SimPort{
		leds:    make(map[int]bool),
		buttons: make(map[int]bool),
	}
}

// Connect marks the simulator connected.
func (p *SimPort) Connect(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = true
	return nil
}

// Disconnect marks the simulator disconnected.
func (p *SimPort) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = false
}

// ReadLED returns the simulated LED state.
func (p *SimPort) ReadLED(_ context.Context, position int) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return false, ErrNotConnected
	}
	if p.readErr != nil {
		return false, p.readErr
	}
	return p.leds[position], nil
}

// WriteLED sets the simulated LED state.
func (p *SimPort) WriteLED(_ context.Context, position int, on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return ErrNotConnected
	}
	if p.writeErr != nil {
		return p.writeErr
	}
	p.leds[position] = on
	return nil
}

// ReadButton returns the simulated raw button state.
func (p *SimPort) ReadButton(_ context.Context, position int) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return false, ErrNotConnected
	}
	if p.readErr != nil {
		return false, p.readErr
	}
	return p.buttons[position], nil
}

// ReadEmergency returns the simulated emergency stop state.
func (p *SimPort) ReadEmergency(_ context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return false, ErrNotConnected
	}
	if p.readErr != nil {
		return false, p.readErr
	}
	return p.emergency, nil
}

// SetButton drives the raw button input for a position.
func (p *SimPort) SetButton(position int, pressed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buttons[position] = pressed
}

// SetEmergency drives the emergency stop input.
func (p *SimPort) SetEmergency(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emergency = active
}

// LED inspects the simulated LED output for a position.
func (p *SimPort) LED(position int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.leds[position]
}

// FailReads makes all reads return err until cleared with nil.
func (p *SimPort) FailReads(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readErr = err
}

// FailWrites makes all LED writes return err until cleared with nil.
func (p *SimPort) FailWrites(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writeErr = err
}
