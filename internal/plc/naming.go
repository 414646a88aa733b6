package plc

import "fmt"

// Scheme identifies a PLC variable vocabulary. Different program revisions
// on the same controller family expose the same booleans under different
// names, so the mapping is pluggable rather than hard-coded.
type Scheme string

const (
	// SchemePrefixed uses ledA1..ledE7 for LEDs and A1..E7 for buttons.
	SchemePrefixed Scheme = "prefixed"
	// SchemeGrid uses A1S..E7S for LEDs and A1..E7 for buttons.
	SchemeGrid Scheme = "grid"
	// SchemeNumeric uses led1..led35 and button1..button35.
	SchemeNumeric Scheme = "numeric"
)

// Naming maps position ids onto PLC variable names for one scheme.
type Naming struct {
	scheme  Scheme
	columns int
}

// NewNaming builds a naming mapper. Columns is needed to derive the grid
// letter/number address from a position id.
func NewNaming(scheme Scheme, columns int) (Naming, error) {
	switch scheme {
	case SchemePrefixed, SchemeGrid, SchemeNumeric:
	default:
		return Naming{}, fmt.Errorf("unknown naming scheme %q", scheme)
	}
	if columns <= 0 {
		return Naming{}, fmt.Errorf("naming scheme needs a positive column count, got %d", columns)
	}
	return Naming{scheme: scheme, columns: columns}, nil
}

// LED returns the variable name for a position's LED.
func (n Naming) LED(position int) string {
	switch n.scheme {
	case SchemePrefixed:
		return "led" + n.cell(position)
	case SchemeGrid:
		return n.cell(position) + "S"
	default:
		return fmt.Sprintf("led%d", position)
	}
}

// Button returns the variable name for a position's button.
func (n Naming) Button(position int) string {
	switch n.scheme {
	case SchemePrefixed, SchemeGrid:
		return n.cell(position)
	default:
		return fmt.Sprintf("button%d", position)
	}
}

// cell returns the grid address for a position, e.g. position 8 with 7
// columns is "B1".
func (n Naming) cell(position int) string {
	row := (position - 1) / n.columns
	column := (position-1)%n.columns + 1
	return fmt.Sprintf("%c%d", 'A'+row, column)
}
