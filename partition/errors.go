package partition

import "errors"

// Error definitions. Both are non-fatal sentinels: callers compare with
// errors.Is and the allocator's state is left untouched on either path.
var (
	// ErrAllocationFailure is returned when no free block satisfies a
	// request under the active placement policy.
	ErrAllocationFailure = errors.New("partition: no free block satisfies the request")
	// ErrInvalidBlockID is returned when freeing an id that does not name
	// a currently used block.
	ErrInvalidBlockID = errors.New("partition: invalid or already-free block id")
)
