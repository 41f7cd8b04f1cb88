package cache

// New constructs a cache with num_sets = max(1, totalSize / (blockSize *
// associativity)) sets of associativity lines each, all initially invalid.
func New(totalSize, blockSize, associativity uint64, policy ReplacementPolicy) *Cache {
	numSets := totalSize / (blockSize * associativity)
	if numSets == 0 {
		numSets = 1
	}

	sets := make([][]line, numSets)
	for i := range sets {
		sets[i] = make([]line, associativity)
	}

	return &Cache{
		totalSize:     totalSize,
		blockSize:     blockSize,
		associativity: associativity,
		numSets:       numSets,
		policy:        policy,
		sets:          sets,
	}
}

// Access performs a tag lookup, returning Hit if resident, else installs a
// victim chosen per the active replacement policy and returns Miss.
// timeRef is the caller-supplied logical clock stored in the line's
// lastUsed (visible through Snapshot) and compared for LRU/FIFO ordering
// and LFU tie-breaking.
func (c *Cache) Access(address, timeRef uint64) Result {
	tag := address / c.blockSize
	setIdx := tag % c.numSets
	set := c.sets[setIdx]

	for i := range set {
		if set[i].valid && set[i].tag == tag {
			set[i].freq++
			// FIFO treats lastUsed as install time: it must not move on a
			// hit, or the line would never look "oldest" again.
			if c.policy != FIFO {
				set[i].lastUsed = timeRef
			}
			logger.Debug("hit set=%d tag=%d freq=%d", setIdx, tag, set[i].freq)
			return Hit
		}
	}

	victim := c.selectVictim(set)
	set[victim] = line{valid: true, tag: tag, freq: 1, lastUsed: timeRef}
	logger.Debug("miss set=%d tag=%d victim_way=%d", setIdx, tag, victim)
	return Miss
}

// selectVictim returns the index within set to overwrite: the first
// invalid line if any exists, else the line chosen by the active policy.
// FIFO and LRU compare lastUsed (FIFO never updates it on hit, so it
// doubles as install time); LFU compares freq, ties broken by the oldest
// lastUsed.
func (c *Cache) selectVictim(set []line) int {
	for i := range set {
		if !set[i].valid {
			return i
		}
	}

	best := 0
	for i := 1; i < len(set); i++ {
		if c.worseThan(set[i], set[best]) {
			best = i
		}
	}
	return best
}

// worseThan reports whether candidate is a better eviction choice than
// current under the active policy.
func (c *Cache) worseThan(candidate, current line) bool {
	switch c.policy {
	case LFU:
		if candidate.freq != current.freq {
			return candidate.freq < current.freq
		}
		return candidate.lastUsed < current.lastUsed
	default: // FIFO, LRU: both compare lastUsed, differing only in when it's updated
		return candidate.lastUsed < current.lastUsed
	}
}

// Snapshot returns every set's lines in way order.
func (c *Cache) Snapshot() [][]LineView {
	out := make([][]LineView, len(c.sets))
	for i, set := range c.sets {
		row := make([]LineView, len(set))
		for j, l := range set {
			row[j] = LineView{Valid: l.valid, Tag: l.tag, Freq: l.freq, LastUsed: l.lastUsed}
		}
		out[i] = row
	}
	return out
}

// NumSets returns the derived number of sets.
func (c *Cache) NumSets() uint64 { return c.numSets }

// Policy returns the active replacement policy.
func (c *Cache) Policy() ReplacementPolicy { return c.policy }
