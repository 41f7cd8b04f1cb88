// Package buddy implements a power-of-two buddy allocator over a single
// pretend address space: size-indexed free lists, recursive splitting on
// allocate, and XOR-buddy merging on free.
package buddy

import "github.com/shenjiangwei/memsim/internal/simlog"

var logger = simlog.New("buddy")

const freeBlockID = -1

// blockEntry is one free or allocated block.
type blockEntry struct {
	start uint64
	size  uint64
	id    int
}

// Allocator manages one power-of-two address space.
type Allocator struct {
	memorySize uint64

	// freeLists maps a power-of-two size to the ordered sequence of free
	// blocks at that size. Ordered as a slice; append/pop-front preserves
	// the "head of the list" semantics spec.md §4.2 describes.
	freeLists map[uint64][]blockEntry

	// allocated maps an id to its allocated block.
	allocated map[int]blockEntry

	nextID uint64

	allocSuccess uint64
	allocFail    uint64
}

// BlockView is a read-only snapshot of one block (free or allocated).
type BlockView struct {
	Start uint64
	Size  uint64
	ID    int // freeBlockID (-1) for free blocks
	Free  bool
}

// Stats is the numeric report `spec.md` §4.2 calls for.
type Stats struct {
	MemorySize     uint64
	Used           uint64
	Free           uint64
	UtilizationPct float64
	AllocSuccess   uint64
	AllocFail      uint64
}
