// Package session composes the three core engines — partition allocator,
// buddy allocator, and multi-level cache — behind one surface, the way the
// teacher's hybrid.Allocator composes a buddy and a slab allocator behind
// one Allocate/Free pair.
package session

import (
	"github.com/shenjiangwei/memsim/buddy"
	"github.com/shenjiangwei/memsim/cache"
	"github.com/shenjiangwei/memsim/internal/simlog"
	"github.com/shenjiangwei/memsim/partition"
)

var logger = simlog.New("session")

// Default L1/L2 configuration, restored from original_source/src/main.cpp
// (spec.md's distillation dropped the concrete example): L1 is a 256-byte,
// 64-byte-block, direct-mapped FIFO cache; L2 is a 1024-byte, 64-byte-block,
// 4-way LRU cache.
const (
	DefaultL1Size          = 256
	DefaultL2Size          = 1024
	DefaultBlockSize       = 64
	DefaultL1Associativity = 1
	DefaultL2Associativity = 4
)

// StatsTarget identifies which engine a Stats() call actually reported on.
type StatsTarget int

const (
	// StatsPartition means the report came from the partition allocator.
	StatsPartition StatsTarget = iota
	// StatsBuddy means the report came from the buddy allocator.
	StatsBuddy
)

// StatsReport wraps whichever engine's stats the `stats` command dispatches
// to. Per spec.md §9, `stats` reports on the buddy allocator if one has
// been constructed, else on the partition allocator — a deliberately
// surprising rule carried forward from the original source rather than
// split into separate `stats`/`buddy_stats` commands.
type StatsReport struct {
	Target    StatsTarget
	Partition partition.Stats
	Buddy     buddy.Stats
}

// Session owns one instance of each engine. The multi-level cache exists
// from construction; the partition allocator is constructed by InitMemory
// and the buddy allocator by BuddyInit. Until then, operations on either
// allocator return ErrUninitializedEngine.
type Session struct {
	partitionAlloc *partition.Allocator
	buddyAlloc     *buddy.Allocator
	mlCache        *cache.MultiLevel
}

// New constructs a session with no partition allocator, no buddy
// allocator, and the default L1/L2 cache configuration.
func New() *Session {
	l1 := cache.New(DefaultL1Size, DefaultBlockSize, DefaultL1Associativity, cache.FIFO)
	l2 := cache.New(DefaultL2Size, DefaultBlockSize, DefaultL2Associativity, cache.LRU)
	return &Session{
		mlCache: cache.NewMultiLevel(l1, l2),
	}
}

// InitMemory (re)creates the partition allocator's address space.
func (s *Session) InitMemory(total uint64) {
	s.partitionAlloc = partition.New(total)
	logger.Info("init memory total=%d", total)
}

// SetAllocatorPolicy switches the partition allocator's placement policy.
// Returns ErrUninitializedEngine if `init memory` has not run yet.
func (s *Session) SetAllocatorPolicy(p partition.Policy) error {
	if s.partitionAlloc == nil {
		return ErrUninitializedEngine
	}
	s.partitionAlloc.SetPolicy(p)
	return nil
}

// Malloc allocates from the partition allocator.
func (s *Session) Malloc(size uint64) (int, error) {
	if s.partitionAlloc == nil {
		return 0, ErrUninitializedEngine
	}
	return s.partitionAlloc.Allocate(size)
}

// Free releases a partition allocator block.
func (s *Session) Free(id int) error {
	if s.partitionAlloc == nil {
		return ErrUninitializedEngine
	}
	return s.partitionAlloc.Free(id)
}

// PartitionSnapshot returns the current partition block layout.
func (s *Session) PartitionSnapshot() ([]partition.BlockView, error) {
	if s.partitionAlloc == nil {
		return nil, ErrUninitializedEngine
	}
	return s.partitionAlloc.Snapshot(), nil
}

// PartitionTotal returns the partition allocator's total size, or 0 if
// uninitialized.
func (s *Session) PartitionTotal() uint64 {
	if s.partitionAlloc == nil {
		return 0
	}
	return s.partitionAlloc.Total()
}

// BuddyInit creates or replaces the buddy allocator.
func (s *Session) BuddyInit(total uint64) {
	s.buddyAlloc = buddy.New(total)
	logger.Info("buddy_init total=%d", total)
}

// BuddyMalloc allocates from the buddy allocator. Returns
// ErrUninitializedEngine if `buddy_init` has not run yet.
func (s *Session) BuddyMalloc(size uint64) (int, error) {
	if s.buddyAlloc == nil {
		return 0, ErrUninitializedEngine
	}
	return s.buddyAlloc.Allocate(size)
}

// BuddyFree releases a buddy allocator block.
func (s *Session) BuddyFree(id int) error {
	if s.buddyAlloc == nil {
		return ErrUninitializedEngine
	}
	return s.buddyAlloc.Free(id)
}

// BuddySnapshot returns the current buddy block layout.
func (s *Session) BuddySnapshot() ([]buddy.BlockView, error) {
	if s.buddyAlloc == nil {
		return nil, ErrUninitializedEngine
	}
	return s.buddyAlloc.Snapshot(), nil
}

// BuddyInitialized reports whether a buddy allocator has been constructed.
func (s *Session) BuddyInitialized() bool {
	return s.buddyAlloc != nil
}

// Stats implements the spec.md §9 dispatch rule: report on the buddy
// allocator if one exists, else on the partition allocator.
func (s *Session) Stats() StatsReport {
	if s.buddyAlloc != nil {
		return StatsReport{Target: StatsBuddy, Buddy: s.buddyAlloc.Stats()}
	}
	var p partition.Stats
	if s.partitionAlloc != nil {
		p = s.partitionAlloc.Stats()
	}
	return StatsReport{Target: StatsPartition, Partition: p}
}

// Access drives the multi-level cache.
func (s *Session) Access(address uint64) cache.Result {
	return s.mlCache.Access(address)
}

// CacheStats reports the multi-level cache's hit/miss counters.
func (s *Session) CacheStats() cache.MultiLevelStats {
	return s.mlCache.Stats()
}

// Cache exposes the multi-level cache for dump/visualize presentation.
func (s *Session) Cache() *cache.MultiLevel {
	return s.mlCache
}
