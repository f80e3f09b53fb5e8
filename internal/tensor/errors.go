package tensor

import (
	"errors"
	"fmt"
)

// Error kinds reported by the kernels and the operator layer.
var (
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrInvalidPadding    = errors.New("invalid padding")
	ErrUnsupportedRank   = errors.New("unsupported rank")
	ErrUnsupportedType   = errors.New("unsupported type")
	ErrScalarCardinality = errors.New("constant value must hold exactly one element")
	ErrInvalidParams     = errors.New("invalid parameters")
	ErrUnsupportedOp     = errors.New("unsupported operator")
)

// KernelError provides detailed information about a rejected invocation.
type KernelError struct {
	Op      string // Operation that failed (e.g., "pad", "conv")
	Kind    error  // One of the Err* kinds above
	Details string // Additional details
}

// Error implements the error interface.
func (e *KernelError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Details)
}

// Unwrap exposes the kind to errors.Is.
func (e *KernelError) Unwrap() error {
	return e.Kind
}

// Errorf builds a KernelError with a formatted detail message.
func Errorf(op string, kind error, format string, args ...any) error {
	return &KernelError{Op: op, Kind: kind, Details: fmt.Sprintf(format, args...)}
}
