package rack

import (
	"fmt"
	"time"
)

// State represents the occupancy state of a storage position.
type State string

const (
	StateEmpty    State = "empty"
	StateOccupied State = "occupied"
	StateReserved State = "reserved"
	StateError    State = "error"
)

var allStates = []State{StateEmpty, StateOccupied, StateReserved, StateError}

var stateSet = func() map[State]struct{} {
	set := make(map[State]struct{}, len(allStates))
	for _, state := range allStates {
		set[state] = struct{}{}
	}
	return set
}()

// ParseState converts a string into a known State.
func ParseState(value string) (State, bool) {
	state := State(value)
	_, ok := stateSet[state]
	return state, ok
}

// Position is one slot in the rack. Row and Column derive from ID via the
// row-major layout and never change independently of it.
//
// LEDShadow and ButtonShadow mirror the values last observed on the PLC; they
// may lag the logical state between polling cycles.
type Position struct {
	ID           int
	Row          int
	Column       int
	State        State
	ProductID    string
	StoredAt     time.Time
	LEDShadow    bool
	ButtonShadow bool
}

// Name returns the display identifier, e.g. "P07".
func (p Position) Name() string {
	return fmt.Sprintf("P%02d", p.ID)
}

// GridLocation returns the row/column address, e.g. "R1C7".
func (p Position) GridLocation() string {
	return fmt.Sprintf("R%dC%d", p.Row, p.Column)
}

// Occupied reports whether the position currently holds a product.
func (p Position) Occupied() bool {
	return p.State == StateOccupied
}

// Layout describes the physical arrangement of the rack.
type Layout struct {
	Positions int
	Rows      int
	Columns   int
}

// Location computes the row-major row/column for a position id.
func (l Layout) Location(id int) (row, column int) {
	row = (id-1)/l.Columns + 1
	column = (id-1)%l.Columns + 1
	return row, column
}
