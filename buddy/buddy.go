package buddy

import (
	"math/bits"
	"sort"
)

// roundUpPow2 returns the smallest power of two >= n, with the spec's
// explicit edge case roundUpPow2(0) == 1.
func roundUpPow2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	if n&(n-1) == 0 {
		return n
	}
	return uint64(1) << bits.Len64(n)
}

// New constructs a buddy allocator over total bytes, rounding up to the
// next power of two if necessary.
func New(total uint64) *Allocator {
	size := roundUpPow2(total)
	if size != total {
		logger.Info("rounding memory size %d up to %d", total, size)
	}

	a := &Allocator{
		memorySize: size,
		freeLists:  make(map[uint64][]blockEntry),
		allocated:  make(map[int]blockEntry),
		nextID:     1,
	}
	a.freeLists[size] = []blockEntry{{start: 0, size: size, id: freeBlockID}}
	return a
}

func popFront(list []blockEntry) (blockEntry, []blockEntry) {
	return list[0], list[1:]
}

// Allocate reserves next_pow2(requested) bytes (next_pow2(0) == 1),
// recursively splitting the smallest adequate free block. Returns
// ErrAllocationFailure (and bumps the fail counter) without mutating state
// if no block up to memorySize is large enough.
func (a *Allocator) Allocate(requested uint64) (int, error) {
	actual := roundUpPow2(requested)

	k := actual
	for k <= a.memorySize && len(a.freeLists[k]) == 0 {
		k *= 2
	}
	if k > a.memorySize {
		a.allocFail++
		logger.Error("allocate requested=%d actual=%d: no block available", requested, actual)
		return 0, ErrAllocationFailure
	}

	b, rest := popFront(a.freeLists[k])
	a.freeLists[k] = rest

	for k > actual {
		k /= 2
		buddyAddr := b.start ^ k
		a.freeLists[k] = append(a.freeLists[k], blockEntry{start: buddyAddr, size: k, id: freeBlockID})
		logger.Debug("split: pushed buddy start=%d size=%d", buddyAddr, k)
	}

	id := int(a.nextID)
	a.nextID++
	a.allocated[id] = blockEntry{start: b.start, size: actual, id: id}
	a.allocSuccess++
	logger.Debug("allocate id=%d start=%d size=%d", id, b.start, actual)
	return id, nil
}

// Free releases the block with the given id and merges it with its buddy
// at every size where the buddy is free, repeating until no further merge
// is possible. Returns ErrInvalidBlockID without any side effect if id
// does not name a currently allocated block.
func (a *Allocator) Free(id int) error {
	b, ok := a.allocated[id]
	if !ok {
		logger.Error("free id=%d: invalid id", id)
		return ErrInvalidBlockID
	}
	delete(a.allocated, id)

	for {
		buddyAddr := b.start ^ b.size
		list := a.freeLists[b.size]
		idx := -1
		for i, e := range list {
			if e.start == buddyAddr {
				idx = i
				break
			}
		}
		if idx == -1 {
			break
		}

		list = append(list[:idx], list[idx+1:]...)
		a.freeLists[b.size] = list

		if buddyAddr < b.start {
			b.start = buddyAddr
		}
		b.size *= 2
	}

	a.freeLists[b.size] = append(a.freeLists[b.size], blockEntry{start: b.start, size: b.size, id: freeBlockID})
	logger.Debug("free id=%d merged_start=%d merged_size=%d", id, b.start, b.size)
	return nil
}

// Snapshot returns every free and allocated block, ordered by (size,
// start) to match BuddyAllocator::dump()'s size-ordered traversal — the
// underlying maps iterate in random order, so this sort is what makes the
// result grouped by size and reproducible.
func (a *Allocator) Snapshot() []BlockView {
	views := make([]BlockView, 0, len(a.allocated))
	for _, b := range a.allocated {
		views = append(views, BlockView{Start: b.start, Size: b.size, ID: b.id, Free: false})
	}
	for size, list := range a.freeLists {
		for _, b := range list {
			views = append(views, BlockView{Start: b.start, Size: size, ID: freeBlockID, Free: true})
		}
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Size != views[j].Size {
			return views[i].Size < views[j].Size
		}
		return views[i].Start < views[j].Start
	})
	return views
}

// MemorySize returns the (possibly rounded up) total address space size.
func (a *Allocator) MemorySize() uint64 { return a.memorySize }
