package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrNotLoaded indicates column mode has not been applied yet.
	ErrNotLoaded = errors.New("column index not loaded")

	// ErrLineOutOfRange indicates a line number outside the index.
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrPositionOutOfRange indicates an absolute position outside the buffer.
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrHostReadOnly indicates the host cannot rewrite its lines.
	ErrHostReadOnly = errors.New("host does not support rewriting lines")

	// ErrNotSorted indicates Unsort was called while no sort is active.
	ErrNotSorted = errors.New("document is not sorted")

	// ErrNoColumns indicates an operation needs at least one column.
	ErrNoColumns = errors.New("no columns selected")
)
