package plc

import (
	"context"
	"errors"
)

// ErrNotConnected is returned by I/O calls before Connect succeeds.
var ErrNotConnected = errors.New("plc: not connected")

// Port is the capability the controller consumes from the fieldbus layer:
// named boolean reads and writes for LEDs, buttons, and the emergency stop.
// Implementations must be safe for concurrent use by the supervisor and
// executor goroutines.
type Port interface {
	Connect(ctx context.Context) error
	Disconnect()
	ReadLED(ctx context.Context, position int) (bool, error)
	WriteLED(ctx context.Context, position int, on bool) error
	ReadButton(ctx context.Context, position int) (bool, error)
	ReadEmergency(ctx context.Context) (bool, error)
}
