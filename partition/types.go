// Package partition implements a variable-partition allocator over a single
// pretend contiguous address space: an ordered, split-on-allocate,
// coalesce-on-free block list with pluggable placement policies.
package partition

import "github.com/shenjiangwei/memsim/internal/simlog"

var logger = simlog.New("partition")

// Policy selects how a free block is chosen among qualifying candidates.
type Policy int

const (
	// FirstFit picks the first qualifying free block in address order.
	FirstFit Policy = iota
	// BestFit picks the smallest qualifying free block, ties broken by
	// address order.
	BestFit
	// WorstFit picks the largest qualifying free block, ties broken by
	// address order.
	WorstFit
)

// String renders the policy the way `set allocator <p>` spells it.
func (p Policy) String() string {
	switch p {
	case FirstFit:
		return "first_fit"
	case BestFit:
		return "best_fit"
	case WorstFit:
		return "worst_fit"
	default:
		return "unknown"
	}
}

// alignment is the fixed allocation granularity.
const alignment = 16

// block is one node of the ordered, doubly-linked block list. freeBlockID
// is the sentinel id for a free block.
const freeBlockID = -1

type block struct {
	start        uint64
	size         uint64
	free         bool
	id           int
	requested    uint64
	internalFrag uint64

	prev, next *block
}

// Allocator manages one pretend address space as an ordered sequence of
// used/free blocks.
type Allocator struct {
	total  uint64
	policy Policy

	head, tail *block
	byID       map[int]*block

	nextID uint64

	allocSuccess  uint64
	allocFail     uint64
	internalFrag  uint64
}

// BlockView is a read-only snapshot of one block, safe to hold after the
// allocator mutates further.
type BlockView struct {
	Start        uint64
	Size         uint64
	Free         bool
	ID           int
	Requested    uint64
	InternalFrag uint64
}

// Stats is the numeric report produced by Stats(). Percentages are plain
// float64 values; the two-fractional-digit formatting `spec.md` §6
// requires is a presentation concern (see package present).
type Stats struct {
	Total             uint64
	Used              uint64
	Free              uint64
	UtilizationPct    float64
	InternalFragBytes uint64
	ExternalFragPct   float64
	AllocSuccess      uint64
	AllocFail         uint64
}
