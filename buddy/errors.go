package buddy

import "errors"

// Error definitions, both non-fatal sentinels.
var (
	// ErrAllocationFailure is returned when no free block up to
	// memorySize satisfies the rounded-up request.
	ErrAllocationFailure = errors.New("buddy: no free block satisfies the request")
	// ErrInvalidBlockID is returned when freeing an id that is not
	// currently allocated.
	ErrInvalidBlockID = errors.New("buddy: invalid or already-free block id")
)
