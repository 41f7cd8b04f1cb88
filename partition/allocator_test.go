package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	tests := []struct {
		in, want uint64
	}{
		{0, 0},
		{1, 16},
		{16, 16},
		{17, 32},
		{100, 112},
		{200, 208},
		{50, 64},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, alignUp(tt.in), "alignUp(%d)", tt.in)
	}
}

// TestFirstFitSplit mirrors spec.md §8 scenario 1.
func TestFirstFitSplit(t *testing.T) {
	a := New(1000)
	a.SetPolicy(FirstFit)

	id1, err := a.Allocate(100)
	require.NoError(t, err)
	require.Equal(t, 1, id1)

	id2, err := a.Allocate(200)
	require.NoError(t, err)
	require.Equal(t, 2, id2)

	id3, err := a.Allocate(50)
	require.NoError(t, err)
	require.Equal(t, 3, id3)

	snap := a.Snapshot()
	require.Len(t, snap, 4)

	assert.Equal(t, BlockView{Start: 0, Size: 112, Free: false, ID: 1, Requested: 100, InternalFrag: 12}, snap[0])
	assert.Equal(t, BlockView{Start: 112, Size: 208, Free: false, ID: 2, Requested: 200, InternalFrag: 8}, snap[1])
	assert.Equal(t, BlockView{Start: 320, Size: 64, Free: false, ID: 3, Requested: 50, InternalFrag: 14}, snap[2])
	assert.Equal(t, uint64(384), snap[3].Start)
	assert.Equal(t, uint64(616), snap[3].Size)
	assert.True(t, snap[3].Free)
}

// TestCoalesceBidirectional mirrors spec.md §8 scenario 2.
func TestCoalesceBidirectional(t *testing.T) {
	a := New(1000)
	a.SetPolicy(FirstFit)

	id1, _ := a.Allocate(100)
	id2, _ := a.Allocate(200)
	id3, _ := a.Allocate(50)

	require.NoError(t, a.Free(id2))
	snap := a.Snapshot()
	require.Len(t, snap, 4)
	assert.True(t, snap[1].Free)
	assert.Equal(t, uint64(208), snap[1].Size)

	require.NoError(t, a.Free(id1))
	snap = a.Snapshot()
	require.Len(t, snap, 3)
	assert.True(t, snap[0].Free)
	assert.Equal(t, uint64(320), snap[0].Size)

	require.NoError(t, a.Free(id3))
	snap = a.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, BlockView{Start: 0, Size: 1000, Free: true, ID: freeBlockID}, snap[0])
}

// TestBestWorstFit mirrors spec.md §8 scenario 3: holes of {64, 256, 128}.
func TestBestWorstFit(t *testing.T) {
	build := func(policy Policy) *Allocator {
		a := New(448 + 16*3) // three used spacers + three holes, sized below
		a.SetPolicy(FirstFit)
		// carve three used blocks + three holes of exactly 64, 256, 128
		var holeIDs []int
		sizes := []uint64{16, 64, 16, 256, 16, 128}
		for i, sz := range sizes {
			id, err := a.Allocate(sz)
			require.NoError(t, err)
			if i%2 == 1 { // indices 1, 3, 5 become the holes; 0, 2, 4 stay used as spacers
				holeIDs = append(holeIDs, id)
			}
		}
		for _, id := range holeIDs {
			require.NoError(t, a.Free(id))
		}
		a.SetPolicy(policy)
		return a
	}

	// The chosen hole is identified by its start address: the 64 hole
	// starts at 16, the 256 hole at 96. (Every pick is split down to 64
	// bytes, so the block size alone cannot tell the holes apart.)
	first := build(FirstFit)
	id, err := first.Allocate(50)
	require.NoError(t, err)
	snap := first.Snapshot()
	got := mustFind(t, snap, id)
	assert.Equal(t, uint64(16), got.Start)

	best := build(BestFit)
	id, err = best.Allocate(50)
	require.NoError(t, err)
	got = mustFind(t, best.Snapshot(), id)
	assert.Equal(t, uint64(16), got.Start)

	worst := build(WorstFit)
	id, err = worst.Allocate(50)
	require.NoError(t, err)
	got = mustFind(t, worst.Snapshot(), id)
	assert.Equal(t, uint64(96), got.Start)
}

func mustFind(t *testing.T, snap []BlockView, id int) BlockView {
	t.Helper()
	for _, b := range snap {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("id %d not found in snapshot", id)
	return BlockView{}
}

func TestFreeInvalidID(t *testing.T) {
	a := New(1024)
	err := a.Free(999)
	assert.ErrorIs(t, err, ErrInvalidBlockID)

	id, err := a.Allocate(16)
	require.NoError(t, err)
	require.NoError(t, a.Free(id))
	// double free
	assert.ErrorIs(t, a.Free(id), ErrInvalidBlockID)
}

func TestMallocZeroAndFull(t *testing.T) {
	a := New(1024)
	id, err := a.Allocate(0)
	require.NoError(t, err)
	snap := a.Snapshot()
	got := mustFind(t, snap, id)
	assert.Equal(t, uint64(0), got.Size)

	b := New(1024)
	id2, err := b.Allocate(1024)
	require.NoError(t, err)
	snap = b.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, id2, snap[0].ID)
	assert.False(t, snap[0].Free)
}

func TestAllocationFailureDoesNotMutate(t *testing.T) {
	a := New(64)
	before := a.Snapshot()
	_, err := a.Allocate(1000)
	assert.ErrorIs(t, err, ErrAllocationFailure)
	after := a.Snapshot()
	assert.Equal(t, before, after)
	assert.Equal(t, uint64(1), a.Stats().AllocFail)
}

// TestRoundTripIdempotence: allocate then free every id in any order
// returns to one free block spanning the whole space (spec.md §8).
func TestRoundTripIdempotence(t *testing.T) {
	a := New(4096)
	a.SetPolicy(BestFit)
	var ids []int
	for _, sz := range []uint64{32, 128, 17, 900, 5, 1000} {
		id, err := a.Allocate(sz)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	// free in reverse order
	for i := len(ids) - 1; i >= 0; i-- {
		require.NoError(t, a.Free(ids[i]))
	}
	snap := a.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, BlockView{Start: 0, Size: 4096, Free: true, ID: freeBlockID}, snap[0])
}

// TestInvariants is a lightweight property check over a scripted mixed
// sequence, covering spec.md §8's universal invariants.
func TestInvariants(t *testing.T) {
	a := New(2048)
	a.SetPolicy(WorstFit)

	var live []int
	ops := []struct {
		alloc bool
		size  uint64
	}{
		{true, 64}, {true, 128}, {true, 32}, {false, 0},
		{true, 256}, {false, 0}, {true, 16}, {true, 512},
	}
	for _, op := range ops {
		if op.alloc {
			id, err := a.Allocate(op.size)
			if err == nil {
				live = append(live, id)
			}
		} else if len(live) > 0 {
			require.NoError(t, a.Free(live[0]))
			live = live[1:]
		}
		checkInvariants(t, a)
	}
}

func checkInvariants(t *testing.T, a *Allocator) {
	t.Helper()
	snap := a.Snapshot()
	require.NotEmpty(t, snap)
	require.Equal(t, uint64(0), snap[0].Start)

	var sum uint64
	seenIDs := map[int]bool{}
	for i, b := range snap {
		sum += b.Size
		if i > 0 {
			prev := snap[i-1]
			assert.Equal(t, prev.Start+prev.Size, b.Start, "gap or overlap at index %d", i)
			assert.False(t, prev.Free && b.Free, "two adjacent free blocks at index %d", i)
		}
		if !b.Free {
			assert.Greater(t, b.ID, 0)
			assert.False(t, seenIDs[b.ID], "duplicate id %d", b.ID)
			seenIDs[b.ID] = true
		}
	}
	assert.Equal(t, a.Total(), sum)
}
