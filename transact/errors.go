package transact

import (
	"errors"
	"fmt"
)

// Error categories. Errors returned by the package wrap exactly one of these, test with errors.Is.
var (
	// ErrValidation is returned by a commit that rejects its arguments before touching any entity.
	ErrValidation = errors.New("validation failed")

	// ErrState is returned for lifecycle violations, such as undoing a request that was never committed or opening a second session.
	ErrState = errors.New("invalid state")

	// ErrReference is returned when undo or redo refers to an entity that no longer exists.
	ErrReference = errors.New("missing entity")

	// ErrKernelResource is returned when the polygon kernel fails or runs out of resources.
	ErrKernelResource = errors.New("kernel resource exhausted")

	// ErrRedoUnavailable is returned together with the cause of a failed undo or redo, after which the history above the failed entry was discarded.
	ErrRedoUnavailable = errors.New("further redo unavailable")
)

// Validationf returns an error wrapping ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Statef returns an error wrapping ErrState.
func Statef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrState, fmt.Sprintf(format, args...))
}

// Referencef returns an error wrapping ErrReference.
func Referencef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrReference, fmt.Sprintf(format, args...))
}

// KernelResourcef returns an error wrapping ErrKernelResource and err.
func KernelResourcef(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrKernelResource, fmt.Sprintf(format, args...), err)
}
