// Package present renders engine snapshots into the exact text formats
// spec.md §6 describes. It deliberately knows nothing about allocation
// algorithms — spec.md §1 marks textual output formatting as an external
// collaborator, not core, so this package only ever consumes the plain
// data (BlockView/Stats/snapshots) the engines already export.
package present

import (
	"fmt"
	"strings"

	"github.com/shenjiangwei/memsim/buddy"
	"github.com/shenjiangwei/memsim/cache"
	"github.com/shenjiangwei/memsim/partition"
)

// DumpPartition renders the partition block list per spec.md §6:
// "[0xSSSS - 0xEEEE] FREE|USED [(id=N)]" with 4-hex-digit zero-padded
// bounds, end inclusive.
func DumpPartition(blocks []partition.BlockView) string {
	var b strings.Builder
	b.WriteString("=== MEMORY DUMP ===\n")
	for _, blk := range blocks {
		end := blk.Start + blk.Size - 1
		if blk.Size == 0 {
			end = blk.Start
		}
		status := "FREE"
		extra := ""
		if !blk.Free {
			status = "USED"
			extra = fmt.Sprintf(" (id=%d)", blk.ID)
		}
		fmt.Fprintf(&b, "[0x%04X - 0x%04X] %s%s\n", blk.Start, end, status, extra)
	}
	return b.String()
}

// DumpBuddy renders every free block of the buddy allocator, grouped by
// size, plus every allocated block — supplementing spec.md (which only
// details the partition dump format) from the buddy dump in
// original_source/src/buddy/buddy_allocator.cpp.
func DumpBuddy(blocks []buddy.BlockView) string {
	var b strings.Builder
	b.WriteString("=== BUDDY MEMORY DUMP ===\n")
	for _, blk := range blocks {
		end := blk.Start + blk.Size - 1
		if blk.Free {
			fmt.Fprintf(&b, "[0x%04X - 0x%04X] FREE\n", blk.Start, end)
		} else {
			fmt.Fprintf(&b, "[0x%04X - 0x%04X] USED (id=%d)\n", blk.Start, end, blk.ID)
		}
	}
	return b.String()
}

// Visualize renders the 1-D occupancy bar per spec.md §6: scale =
// clamp(total/32, 32, 80) cells, '#' iff any used block intersects the
// cell's address range, else '_'.
func Visualize(total uint64, blocks []partition.BlockView) string {
	if total == 0 {
		return "[]\n_ = FREE, # = USED\n"
	}

	scale := total / 32
	if scale < 32 {
		scale = 32
	}
	if scale > 80 {
		scale = 80
	}

	bar := make([]byte, scale)
	for i := range bar {
		bar[i] = '_'
	}

	for _, blk := range blocks {
		if blk.Free || blk.Size == 0 {
			continue
		}
		// Cells [start, end) are those the block's range intersects: the
		// first index rounds down, the end index rounds up.
		start := blk.Start * scale / total
		end := ((blk.Start+blk.Size)*scale + total - 1) / total
		if end > scale {
			end = scale
		}
		for i := start; i < end; i++ {
			bar[i] = '#'
		}
	}

	var b strings.Builder
	b.WriteString("=== MEMORY VISUALIZATION ===\n")
	b.WriteString("[")
	b.Write(bar)
	b.WriteString("]\n_ = FREE, # = USED\n")
	return b.String()
}

// StatsPartition renders partition.Stats with two fractional digits per
// spec.md §6's numeric format.
func StatsPartition(s partition.Stats) string {
	total := s.AllocSuccess + s.AllocFail
	var successRate, failureRate float64
	if total > 0 {
		successRate = float64(s.AllocSuccess) / float64(total) * 100
		failureRate = 100 - successRate
	}

	var b strings.Builder
	b.WriteString("=== MEMORY STATS ===\n")
	fmt.Fprintf(&b, "Total memory: %d bytes\n", s.Total)
	fmt.Fprintf(&b, "Used memory: %d bytes\n", s.Used)
	fmt.Fprintf(&b, "Free memory: %d bytes\n", s.Free)
	fmt.Fprintf(&b, "Memory utilization: %.2f%%\n", s.UtilizationPct)
	fmt.Fprintf(&b, "Internal fragmentation: %d bytes\n", s.InternalFragBytes)
	fmt.Fprintf(&b, "External fragmentation: %.2f%%\n", s.ExternalFragPct)
	fmt.Fprintf(&b, "Allocation success rate: %.2f%%\n", successRate)
	fmt.Fprintf(&b, "Allocation failure rate: %.2f%%\n", failureRate)
	fmt.Fprintf(&b, "Total allocation requests: %d\n", total)
	return b.String()
}

// StatsBuddy renders buddy.Stats.
func StatsBuddy(s buddy.Stats) string {
	var b strings.Builder
	b.WriteString("=== BUDDY ALLOCATOR STATS ===\n")
	fmt.Fprintf(&b, "Total memory: %d bytes\n", s.MemorySize)
	fmt.Fprintf(&b, "Used memory: %d bytes\n", s.Used)
	fmt.Fprintf(&b, "Free memory: %d bytes\n", s.Free)
	fmt.Fprintf(&b, "Memory utilization: %.2f%%\n", s.UtilizationPct)
	fmt.Fprintf(&b, "Total allocation requests: %d\n", s.AllocSuccess+s.AllocFail)
	return b.String()
}

// StatsCache renders cache.Stats with two fractional digits.
func StatsCache(s cache.Stats) string {
	var b strings.Builder
	b.WriteString("=== CACHE STATS ===\n")
	fmt.Fprintf(&b, "Total accesses: %d\n", s.TotalAccesses)
	fmt.Fprintf(&b, "Cache hits: %d\n", s.Hits)
	fmt.Fprintf(&b, "Hit ratio: %.2f%%\n", s.HitRatioPct)
	return b.String()
}

// StatsMultiLevel renders cache.MultiLevelStats.
func StatsMultiLevel(s cache.MultiLevelStats) string {
	var b strings.Builder
	b.WriteString("=== MULTILEVEL CACHE STATS ===\n")
	fmt.Fprintf(&b, "L1 hits: %d  L1 misses: %d\n", s.L1Hits, s.L1Misses)
	fmt.Fprintf(&b, "L2 hits: %d  L2 misses: %d\n", s.L2Hits, s.L2Misses)
	fmt.Fprintf(&b, "L1 hit ratio: %.2f%%\n", s.L1HitRatioPct)
	fmt.Fprintf(&b, "L2 hit ratio: %.2f%%\n", s.L2HitRatioPct)
	return b.String()
}
