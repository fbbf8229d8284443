package narrowphase

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is wrapped by every constructor and setter that rejects its input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedOperation is returned (or panicked with) when a shape is asked for
	// something it cannot provide, like SAT axes from an ellipse.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func unsupportedOperation(kind ShapeKind, op string) error {
	return fmt.Errorf("%w: %s does not support %s", ErrUnsupportedOperation, kind, op)
}
