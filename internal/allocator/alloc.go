package allocator

import (
	poolerrors "github.com/orizon-lang/poolalloc/internal/errors"
)

// Allocate services a request for n payload bytes using first-fit search
// with tail-splitting.
//
// A zero-size request returns (0, nil): per the design this is not an
// error. If no free block is large enough, Allocate also returns (0,
// nil) — OutOfMemory is an unmet request, not an error — but a
// diagnostic is still emitted. A non-nil error is returned only when
// traversal reaches a block that fails verification (Corruption); in
// that case the pool's state is left untouched.
func (p *Pool) Allocate(n uintptr) (Ref, error) {
	if n == 0 {
		return 0, nil
	}

	need := alignUp(n, p.config.Alignment)

	off, ok, err := p.findFirstFit(need)
	if err != nil {
		return 0, p.reportCorruption(err)
	}

	if !ok {
		p.report("allocator: out of memory: %v", poolerrors.OutOfMemory(need))

		return 0, nil
	}

	b := p.blockAt(off)
	p.splitTail(b, need)

	b.setFree(false)
	b.seal()

	p.totalAllocated += b.size()
	p.totalFree -= b.size()
	p.allocCount++

	return p.refForHeader(off), nil
}

// findFirstFit walks the block list from the head, returning the header
// offset of the first free block whose size is at least need. ok is
// false if no block satisfies the request; err is non-nil if a block
// failed verification during the walk.
func (p *Pool) findFirstFit(need uintptr) (off uintptr, ok bool, err error) {
	cur := uintptr(0)

	for {
		b := p.blockAt(cur)
		if verr := b.verify(); verr != nil {
			return 0, false, verr
		}

		if b.free() && b.size() >= need {
			return cur, true, nil
		}

		next, hasNext := b.next()
		if !hasNext {
			return 0, false, nil
		}

		cur = next
	}
}

// splitTail splits b's tail into a new trailing free block when the
// remainder after serving need bytes is large enough to hold a
// non-degenerate successor (>= headerSize + one alignment unit of
// payload). Otherwise the remainder is absorbed into b as internal
// fragmentation and b's size is left unchanged.
func (p *Pool) splitTail(b block, need uintptr) {
	remainder := b.size() - need
	if remainder < p.headerSize+p.config.Alignment {
		return
	}

	newOff := b.off + p.headerSize + need
	successor := p.blockAt(newOff)
	successor.setMagic(p.config.Magic)
	successor.setSize(remainder - p.headerSize)
	successor.setFree(true)

	next, hasNext := b.next()
	successor.setNext(next, hasNext)
	successor.setPrev(b.off, true)
	successor.seal()

	if hasNext {
		nb := p.blockAt(next)
		nb.setPrev(newOff, true)
		nb.seal()
	}

	b.setNext(newOff, true)
	b.setSize(need)
}
