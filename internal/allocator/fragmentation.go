package allocator

// Fragmentation walks the block list and returns a score in [0, 100]: 0
// when free space is a single run (or there is at most one free block,
// or no free bytes at all), rising toward 100 as free space is split
// into many small islands. The formula is 100 - floor(100 * L / F) where
// L is the largest free block's bytes and F is total free bytes.
//
// If traversal reaches a block that fails verification, the walk stops
// early, a Corruption diagnostic is emitted, and the score computed from
// the blocks walked so far is returned — Fragmentation has no error
// channel in the external interface (§6), so corruption here is
// best-effort rather than fatal.
func (p *Pool) Fragmentation() int {
	var (
		freeCount   uintptr
		totalFree   uintptr
		largestFree uintptr
	)

	cur := uintptr(0)

	for {
		b := p.blockAt(cur)
		if err := b.verify(); err != nil {
			p.report("allocator: corruption detected during fragmentation scan: %v", err)

			break
		}

		if b.free() {
			freeCount++
			totalFree += b.size()

			if b.size() > largestFree {
				largestFree = b.size()
			}
		}

		next, hasNext := b.next()
		if !hasNext {
			break
		}

		cur = next
	}

	if freeCount <= 1 || totalFree == 0 {
		return 0
	}

	return 100 - int(100*largestFree/totalFree)
}
