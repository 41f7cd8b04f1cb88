package cache

// MultiLevel composes an L1 and an L2 cache behind one read-path probe:
// on an L1 miss it falls through to L2. Each level installs the address on
// its own miss (Cache.Access does so), so an L1 miss already leaves the
// address resident in L1; the wrapper adds no separate L2-to-L1 promotion
// step on an L2 hit.
type MultiLevel struct {
	l1, l2 *Cache
	time   uint64

	l1Hits, l1Misses uint64
	l2Hits, l2Misses uint64
}

// NewMultiLevel composes two already-constructed caches.
func NewMultiLevel(l1, l2 *Cache) *MultiLevel {
	return &MultiLevel{l1: l1, l2: l2}
}

// MultiLevelStats reports hit/miss counters and ratios for both levels.
type MultiLevelStats struct {
	L1Hits, L1Misses uint64
	L2Hits, L2Misses uint64
	L1HitRatioPct    float64
	L2HitRatioPct    float64
}

// Access queries L1, then L2 on an L1 miss, sharing one logical clock
// between the two sub-accesses. The clock only advances on a full L2 miss.
func (m *MultiLevel) Access(address uint64) Result {
	if m.l1.Access(address, m.time) == Hit {
		m.l1Hits++
		return Hit
	}
	m.l1Misses++

	if m.l2.Access(address, m.time) == Hit {
		m.l2Hits++
		return Hit
	}
	m.l2Misses++
	m.time++
	return Miss
}

// Stats reports the hit/miss counters for both levels.
func (m *MultiLevel) Stats() MultiLevelStats {
	totalL1 := m.l1Hits + m.l1Misses
	totalL2 := m.l2Hits + m.l2Misses

	var l1Ratio, l2Ratio float64
	if totalL1 > 0 {
		l1Ratio = float64(m.l1Hits) / float64(totalL1) * 100
	}
	if totalL2 > 0 {
		l2Ratio = float64(m.l2Hits) / float64(totalL2) * 100
	}

	return MultiLevelStats{
		L1Hits: m.l1Hits, L1Misses: m.l1Misses,
		L2Hits: m.l2Hits, L2Misses: m.l2Misses,
		L1HitRatioPct: l1Ratio, L2HitRatioPct: l2Ratio,
	}
}

// L1 and L2 expose the underlying caches for dump/visualize presentation.
func (m *MultiLevel) L1() *Cache { return m.l1 }
func (m *MultiLevel) L2() *Cache { return m.l2 }
