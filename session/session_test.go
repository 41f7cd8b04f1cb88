package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenjiangwei/memsim/buddy"
	"github.com/shenjiangwei/memsim/cache"
	"github.com/shenjiangwei/memsim/partition"
)

func TestUninitializedPartitionOperationsFail(t *testing.T) {
	s := New()

	_, err := s.Malloc(10)
	assert.ErrorIs(t, err, ErrUninitializedEngine)

	err = s.Free(1)
	assert.ErrorIs(t, err, ErrUninitializedEngine)

	_, err = s.PartitionSnapshot()
	assert.ErrorIs(t, err, ErrUninitializedEngine)

	err = s.SetAllocatorPolicy(partition.BestFit)
	assert.ErrorIs(t, err, ErrUninitializedEngine)
}

func TestUninitializedBuddyOperationsFail(t *testing.T) {
	s := New()

	_, err := s.BuddyMalloc(10)
	assert.ErrorIs(t, err, ErrUninitializedEngine)

	err = s.BuddyFree(1)
	assert.ErrorIs(t, err, ErrUninitializedEngine)

	_, err = s.BuddySnapshot()
	assert.ErrorIs(t, err, ErrUninitializedEngine)

	assert.False(t, s.BuddyInitialized())
}

func TestStatsDispatchPrefersBuddyOnceConstructed(t *testing.T) {
	s := New()
	s.InitMemory(1000)

	report := s.Stats()
	assert.Equal(t, StatsPartition, report.Target)
	assert.Equal(t, uint64(1000), report.Partition.Total)

	s.BuddyInit(1024)

	report = s.Stats()
	assert.Equal(t, StatsBuddy, report.Target)
	assert.Equal(t, uint64(1024), report.Buddy.MemorySize)
}

func TestSessionMallocFreeRoundTrip(t *testing.T) {
	s := New()
	s.InitMemory(1000)
	require.NoError(t, s.SetAllocatorPolicy(partition.FirstFit))

	id, err := s.Malloc(100)
	require.NoError(t, err)
	require.NoError(t, s.Free(id))

	blocks, err := s.PartitionSnapshot()
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.True(t, blocks[0].Free)
	assert.Equal(t, uint64(1000), blocks[0].Size)
}

func TestSessionBuddyMallocFreeRoundTrip(t *testing.T) {
	s := New()
	s.BuddyInit(1024)

	id, err := s.BuddyMalloc(100)
	require.NoError(t, err)
	require.NoError(t, s.BuddyFree(id))

	blocks, err := s.BuddySnapshot()
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, buddy.BlockView{Start: 0, Size: 1024, Free: true, ID: -1}, blocks[0])
}

func TestSessionDefaultCacheConfiguration(t *testing.T) {
	s := New()

	assert.Equal(t, cache.Miss, s.Access(0))
	assert.Equal(t, cache.Hit, s.Access(0))

	stats := s.CacheStats()
	assert.Equal(t, uint64(1), stats.L1Hits)
	assert.Equal(t, uint64(1), stats.L1Misses)
}
