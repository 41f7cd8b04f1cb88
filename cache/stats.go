package cache

// Stats derives total accesses and hits from the freq counters, as
// `spec.md` §4.3 specifies: total is the sum of freq over valid lines,
// hits is the sum of max(0, freq-1) (every access past the first on a
// resident line is a hit).
func (c *Cache) Stats() Stats {
	var total, hits uint64
	for _, set := range c.sets {
		for _, l := range set {
			if !l.valid {
				continue
			}
			total += uint64(l.freq)
			if l.freq > 1 {
				hits += uint64(l.freq - 1)
			}
		}
	}

	var ratio float64
	if total > 0 {
		ratio = float64(hits) / float64(total) * 100
	}

	return Stats{TotalAccesses: total, Hits: hits, HitRatioPct: ratio}
}
