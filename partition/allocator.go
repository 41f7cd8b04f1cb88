package partition

// New creates an allocator already initialized with a single free block of
// total bytes. Equivalent to calling Init on a zero Allocator.
func New(total uint64) *Allocator {
	a := &Allocator{}
	a.Init(total)
	return a
}

// Init (re)creates the address space as one free block of total bytes and
// resets every counter, including next id, and the placement policy (back
// to FirstFit). Equivalent to destruction followed by construction.
func (a *Allocator) Init(total uint64) {
	root := &block{start: 0, size: total, free: true, id: freeBlockID}

	a.total = total
	a.policy = FirstFit
	a.head = root
	a.tail = root
	a.byID = make(map[int]*block)
	a.nextID = 1
	a.allocSuccess = 0
	a.allocFail = 0
	a.internalFrag = 0

	logger.Debug("init total=%d", total)
}

// SetPolicy switches the placement policy; no other state changes.
func (a *Allocator) SetPolicy(p Policy) {
	a.policy = p
	logger.Debug("policy=%s", p)
}

func alignUp(size uint64) uint64 {
	return (size + alignment - 1) &^ (alignment - 1)
}

// findFit returns the block chosen by the active placement policy, or nil
// if none qualifies.
func (a *Allocator) findFit(actual uint64) *block {
	switch a.policy {
	case BestFit:
		var best *block
		for b := a.head; b != nil; b = b.next {
			if b.free && b.size >= actual {
				if best == nil || b.size < best.size {
					best = b
				}
			}
		}
		return best
	case WorstFit:
		var worst *block
		for b := a.head; b != nil; b = b.next {
			if b.free && b.size >= actual {
				if worst == nil || b.size > worst.size {
					worst = b
				}
			}
		}
		return worst
	default: // FirstFit
		for b := a.head; b != nil; b = b.next {
			if b.free && b.size >= actual {
				return b
			}
		}
		return nil
	}
}

// insertAfter splices nb immediately after b in the ordered list.
func (a *Allocator) insertAfter(b, nb *block) {
	nb.prev = b
	nb.next = b.next
	if b.next != nil {
		b.next.prev = nb
	} else {
		a.tail = nb
	}
	b.next = nb
}

// remove splices b out of the ordered list.
func (a *Allocator) remove(b *block) {
	if b.prev != nil {
		b.prev.next = b.next
	} else {
		a.head = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	} else {
		a.tail = b.prev
	}
}

// Allocate reserves actual = align_up(requested, 16) bytes using the active
// placement policy, splitting the chosen block if it is larger than
// needed. Returns ErrAllocationFailure (and bumps the fail counter) if no
// free block qualifies; never mutates state on that path.
func (a *Allocator) Allocate(requested uint64) (int, error) {
	actual := alignUp(requested)

	chosen := a.findFit(actual)
	if chosen == nil {
		a.allocFail++
		logger.Error("allocate requested=%d actual=%d: no fit", requested, actual)
		return 0, ErrAllocationFailure
	}

	if chosen.size > actual {
		rem := &block{
			start: chosen.start + actual,
			size:  chosen.size - actual,
			free:  true,
			id:    freeBlockID,
		}
		a.insertAfter(chosen, rem)
		chosen.size = actual
		logger.Debug("split block start=%d actual=%d remainder_size=%d", chosen.start, actual, rem.size)
	}

	id := int(a.nextID)
	a.nextID++

	chosen.free = false
	chosen.id = id
	chosen.requested = requested
	chosen.internalFrag = actual - requested
	a.internalFrag += chosen.internalFrag
	a.byID[id] = chosen

	a.allocSuccess++
	logger.Debug("allocate id=%d start=%d actual=%d requested=%d", id, chosen.start, actual, requested)
	return id, nil
}

// Free releases the block with the given id, then coalesces forward and
// backward with any free neighbor. Returns ErrInvalidBlockID without any
// side effect if id does not name a currently used block.
func (a *Allocator) Free(id int) error {
	b, ok := a.byID[id]
	if !ok {
		logger.Error("free id=%d: invalid id", id)
		return ErrInvalidBlockID
	}

	delete(a.byID, id)
	b.free = true
	b.id = freeBlockID
	b.requested = 0
	b.internalFrag = 0

	if nx := b.next; nx != nil && nx.free {
		b.size += nx.size
		a.remove(nx)
	}

	if pv := b.prev; pv != nil && pv.free {
		pv.size += b.size
		a.remove(b)
	}

	logger.Debug("free id=%d", id)
	return nil
}

// Snapshot returns an ordered, address-ascending copy of every block.
func (a *Allocator) Snapshot() []BlockView {
	views := make([]BlockView, 0)
	for b := a.head; b != nil; b = b.next {
		views = append(views, BlockView{
			Start:        b.start,
			Size:         b.size,
			Free:         b.free,
			ID:           b.id,
			Requested:    b.requested,
			InternalFrag: b.internalFrag,
		})
	}
	return views
}

// Total returns the address space size passed to the last Init.
func (a *Allocator) Total() uint64 { return a.total }

// Policy returns the active placement policy.
func (a *Allocator) Policy() Policy { return a.policy }
