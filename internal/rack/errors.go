package rack

import "errors"

var (
	// ErrUnknownPosition is returned for position ids outside the rack.
	ErrUnknownPosition = errors.New("unknown position")
	// ErrPositionOccupied is returned when storing into a non-empty position.
	ErrPositionOccupied = errors.New("position is not empty")
	// ErrPositionEmpty is returned when retrieving from a non-occupied position.
	ErrPositionEmpty = errors.New("position is not occupied")
	// ErrNoEmptyPosition is returned when the rack has no free slot.
	ErrNoEmptyPosition = errors.New("no empty position available")
	// ErrEmptyProductID is returned when storing without a product id.
	ErrEmptyProductID = errors.New("product id is required")
)
