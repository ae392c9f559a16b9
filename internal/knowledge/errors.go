package knowledge

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds    = errors.New("cell out of bounds")
	ErrInvalidCount   = errors.New("mine count must be between 0 and 8")
	ErrAlreadyMoved   = errors.New("cell already observed")
	ErrContradiction  = errors.New("knowledge base contradiction")
	ErrIterationLimit = errors.New("closure iteration limit exceeded")
)

// InvariantError reports a broken knowledge base invariant. It means the
// observations fed to the agent were inconsistent with the board rules.
type InvariantError struct {
	Op  string
	Msg string
	Err error
}

// [InvariantError] implements [error]
func (e *InvariantError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return e.Op + ": " + e.Msg
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

// Every invariant violation is a contradiction.
func (e *InvariantError) Is(target error) bool {
	return target == ErrContradiction
}

func invariant(op, format string, args ...any) *InvariantError {
	return &InvariantError{Op: op, Msg: fmt.Sprintf(format, args...)}
}
