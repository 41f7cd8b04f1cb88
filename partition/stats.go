package partition

// Stats reports the space-utilization and fragmentation figures `spec.md`
// §4.1 defines. External fragmentation is 0 when no free memory exists.
func (a *Allocator) Stats() Stats {
	var used, freeMem, largestFree uint64
	for b := a.head; b != nil; b = b.next {
		if b.free {
			freeMem += b.size
			if b.size > largestFree {
				largestFree = b.size
			}
		} else {
			used += b.size
		}
	}

	var utilization float64
	if a.total > 0 {
		utilization = float64(used) / float64(a.total) * 100
	}

	var extFrag float64
	if freeMem > 0 {
		extFrag = (1 - float64(largestFree)/float64(freeMem)) * 100
	}

	return Stats{
		Total:             a.total,
		Used:              used,
		Free:              freeMem,
		UtilizationPct:    utilization,
		InternalFragBytes: a.internalFrag,
		ExternalFragPct:   extFrag,
		AllocSuccess:      a.allocSuccess,
		AllocFail:         a.allocFail,
	}
}
