package allocator

import (
	poolerrors "github.com/orizon-lang/poolalloc/internal/errors"
)

// Free releases a payload reference previously returned by Allocate.
//
// ref == 0 (the none reference) reports NullFree and leaves state
// unchanged. A double free reports DoubleFree and leaves state
// unchanged. Both are warnings, not errors, and Free returns nil for
// them. A non-nil error is returned only for Corruption, detected by
// verifying the block at ref and its address-order neighbors before any
// mutation; state is left untouched in that case too.
//
// On success the block is marked free and immediately coalesced with up
// to two adjacent free neighbors: forward first, then backward, so that
// at most one absorbing merge chain runs per call.
func (p *Pool) Free(ref Ref) error {
	if ref == 0 {
		p.report("allocator: %v", poolerrors.NullFree())

		return nil
	}

	off := p.headerOffsetForRef(ref)
	b := p.blockAt(off)

	if err := b.verify(); err != nil {
		return p.reportCorruption(err)
	}

	if b.free() {
		p.report("allocator: %v", poolerrors.DoubleFree(off))

		return nil
	}

	if next, hasNext := b.next(); hasNext {
		if err := p.blockAt(next).verify(); err != nil {
			return p.reportCorruption(err)
		}
	}

	if prev, hasPrev := b.prev(); hasPrev {
		if err := p.blockAt(prev).verify(); err != nil {
			return p.reportCorruption(err)
		}
	}

	b.setFree(true)
	b.seal()

	p.totalFree += b.size()
	p.totalAllocated -= b.size()
	p.allocCount--

	if err := p.coalesceForward(b); err != nil {
		return p.reportCorruption(err)
	}

	if err := p.coalesceBackward(b); err != nil {
		return p.reportCorruption(err)
	}

	return nil
}

// coalesceForward merges b with its next neighbor c if c exists, verifies,
// and is free: b.size += headerSize + c.size, b.next = c.next, and c.next's
// prev (if any) is repointed at b.
func (p *Pool) coalesceForward(b block) error {
	next, hasNext := b.next()
	if !hasNext {
		return nil
	}

	c := p.blockAt(next)
	if err := c.verify(); err != nil {
		return err
	}

	if !c.free() {
		return nil
	}

	b.setSize(b.size() + p.headerSize + c.size())

	cNext, cHasNext := c.next()
	b.setNext(cNext, cHasNext)

	if cHasNext {
		cn := p.blockAt(cNext)
		cn.setPrev(b.off, true)
		cn.seal()
	}

	b.seal()

	return nil
}

// coalesceBackward merges b into its previous neighbor a if a exists,
// verifies, and is free: a.size += headerSize + b.size, a.next = b.next,
// and b.next's prev (if any) is repointed at a.
func (p *Pool) coalesceBackward(b block) error {
	prev, hasPrev := b.prev()
	if !hasPrev {
		return nil
	}

	a := p.blockAt(prev)
	if err := a.verify(); err != nil {
		return err
	}

	if !a.free() {
		return nil
	}

	a.setSize(a.size() + p.headerSize + b.size())

	bNext, bHasNext := b.next()
	a.setNext(bNext, bHasNext)

	if bHasNext {
		bn := p.blockAt(bNext)
		bn.setPrev(a.off, true)
		bn.seal()
	}

	a.seal()

	return nil
}
