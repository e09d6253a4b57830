package allocator

// BlockView is a read-only snapshot of one block, surfaced by Iterate.
// Consumers (a visualizer, a statistics printer, a demo driver) are
// external observers: BlockView carries no reference back into the
// arena that would let a consumer mutate pool state.
type BlockView struct {
	Address        uintptr
	PayloadAddress uintptr
	Size           uintptr
	Free           bool
}

// Iterate walks the block list from the head in address order, calling
// yield once per block. It stops early if yield returns false, or if
// traversal reaches a block that fails verification — in which case a
// Corruption diagnostic is emitted and iteration ends without yielding
// that block or any block after it. Iterate never mutates pool state.
func (p *Pool) Iterate(yield func(BlockView) bool) {
	cur := uintptr(0)

	for {
		b := p.blockAt(cur)
		if err := b.verify(); err != nil {
			p.report("allocator: corruption detected during iteration: %v", err)

			return
		}

		view := BlockView{
			Address:        b.off,
			PayloadAddress: uintptr(p.refForHeader(b.off)),
			Size:           b.size(),
			Free:           b.free(),
		}

		if !yield(view) {
			return
		}

		next, hasNext := b.next()
		if !hasNext {
			return
		}

		cur = next
	}
}
