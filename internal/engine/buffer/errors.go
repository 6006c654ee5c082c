package buffer

import "errors"

// Errors returned by buffer operations.
var (
	// ErrOffsetOutOfRange indicates an offset is outside the valid buffer range.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates an invalid range (e.g., end < start).
	ErrRangeInvalid = errors.New("invalid range")

	// ErrReadOnly indicates a mutation was attempted on a read-only buffer.
	ErrReadOnly = errors.New("buffer is read-only")

	// ErrNoBackingFile indicates an operation that requires a backing file
	// was attempted on a purely in-memory buffer.
	ErrNoBackingFile = errors.New("buffer has no backing file")
)
