package mines

import "errors"

var ErrPositionOutOfBounds = errors.New("position out of bounds")

// AssertionError reports a broken board invariant, never bad input.
type AssertionError struct {
	message string
}

func (e AssertionError) Error() string {
	return "mines: " + e.message
}
