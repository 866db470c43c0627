package clock

import (
	"errors"
	"fmt"
)

// Errors reported by the registry. Structural errors indicate a defect in the
// board description and are never retried.
var (
	ErrDuplicateName  = errors.New("duplicate clock name")
	ErrNotFound       = errors.New("clock not found")
	ErrParentNotFound = errors.New("parent clock not found")
	ErrInvalidOps     = errors.New("invalid clock operations")
	ErrUnsupported    = errors.New("operation not supported")
	ErrCycle          = errors.New("clock hierarchy cycle")
	ErrHasChildren    = errors.New("clock has children")
	ErrNotEnabled     = errors.New("clock not enabled")
	ErrNotRegistered  = errors.New("clock not registered")
	ErrInUse          = errors.New("clock in use")
)

// HardwareError reports the failure of a clock operation.
type HardwareError struct {
	Clock string
	Op    string
	Err   error
}

func (e *HardwareError) Error() string {
	return fmt.Sprintf("clock %s: %s: %v", e.Clock, e.Op, e.Err)
}

func (e *HardwareError) Unwrap() error {
	return e.Err
}

func hwErr(n *Node, op string, err error) error {
	return &HardwareError{Clock: n.name, Op: op, Err: err}
}

func unsupported(n *Node, op string) error {
	return fmt.Errorf("clock %s: %s: %w", n.name, op, ErrUnsupported)
}

func notRegistered(n *Node) error {
	if n == nil {
		return fmt.Errorf("nil clock: %w", ErrNotRegistered)
	}

	return fmt.Errorf("clock %s: %w", n.name, ErrNotRegistered)
}
