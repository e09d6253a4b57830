package allocator

import (
	"unsafe"

	poolerrors "github.com/orizon-lang/poolalloc/internal/errors"
)

// Byte layout of a header record inside the pool's arena. Fields are
// accessed through direct unsafe.Pointer arithmetic into the arena slice
// rather than by overlaying a Go struct, so that the on-disk layout (and
// the bytes the checksum runs over) never depends on compiler struct
// padding.
const (
	offMagic    = 0  // uint32
	offSize     = 4  // uint32, payload bytes
	offFree     = 8  // uint32, 0 or 1
	offNext     = 12 // int64, header offset of next block, noLink if none
	offPrev     = 20 // int64, header offset of previous block, noLink if none
	offChecksum = 28 // uint32, digest over bytes [0, offChecksum)

	rawHeaderSize = 32 // bytes before alignment rounding
)

// noLink marks the absence of a next/prev neighbor.
const noLink int64 = -1

// block is a cursor over one header record living at byte offset off
// within p.arena. It is a thin view, not a copy: every accessor reads or
// writes the arena directly.
type block struct {
	p   *Pool
	off uintptr
}

func (p *Pool) blockAt(off uintptr) block {
	return block{p: p, off: off}
}

func (b block) u32(fieldOff uintptr) uint32 {
	return *(*uint32)(unsafe.Pointer(&b.p.arena[b.off+fieldOff]))
}

func (b block) setU32(fieldOff uintptr, v uint32) {
	*(*uint32)(unsafe.Pointer(&b.p.arena[b.off+fieldOff])) = v
}

func (b block) i64(fieldOff uintptr) int64 {
	return *(*int64)(unsafe.Pointer(&b.p.arena[b.off+fieldOff]))
}

func (b block) setI64(fieldOff uintptr, v int64) {
	*(*int64)(unsafe.Pointer(&b.p.arena[b.off+fieldOff])) = v
}

func (b block) magic() uint32      { return b.u32(offMagic) }
func (b block) setMagic(v uint32)  { b.setU32(offMagic, v) }
func (b block) size() uintptr      { return uintptr(b.u32(offSize)) }
func (b block) setSize(v uintptr)  { b.setU32(offSize, uint32(v)) }
func (b block) free() bool         { return b.u32(offFree) != 0 }
func (b block) checksum() uint32   { return b.u32(offChecksum) }
func (b block) setChecksum(v uint32) { b.setU32(offChecksum, v) }

func (b block) setFree(v bool) {
	if v {
		b.setU32(offFree, 1)
	} else {
		b.setU32(offFree, 0)
	}
}

// next returns the header offset of the next block in address order and
// whether one exists.
func (b block) next() (uintptr, bool) {
	v := b.i64(offNext)
	if v == noLink {
		return 0, false
	}

	return uintptr(v), true
}

func (b block) setNext(off uintptr, ok bool) {
	if !ok {
		b.setI64(offNext, noLink)

		return
	}

	b.setI64(offNext, int64(off))
}

// prev returns the header offset of the previous block in address order
// and whether one exists.
func (b block) prev() (uintptr, bool) {
	v := b.i64(offPrev)
	if v == noLink {
		return 0, false
	}

	return uintptr(v), true
}

func (b block) setPrev(off uintptr, ok bool) {
	if !ok {
		b.setI64(offPrev, noLink)

		return
	}

	b.setI64(offPrev, int64(off))
}

// digest is a byte-wise unsigned 32-bit sum over the header bytes
// preceding the checksum field. It depends on every covered byte and is
// cheap enough to recompute on every mutation.
func (b block) digest() uint32 {
	var sum uint32

	raw := b.p.arena[b.off : b.off+offChecksum]
	for _, c := range raw {
		sum += uint32(c)
	}

	return sum
}

// seal recomputes and stores the checksum. Must be called after any
// mutation of magic, size, free, next, or prev before the block is
// visible to another operation.
func (b block) seal() {
	b.setChecksum(b.digest())
}

// verify reports whether the block's magic tag and checksum are intact.
// Every operation that dereferences a block reference obtained from the
// caller or from next/prev traversal calls this first, with one
// exception: the block that follows a newly split block or a merged run
// only has its prev link rewritten and is resealed without being
// verified.
func (b block) verify() error {
	if b.magic() != b.p.config.Magic {
		return poolerrors.Corruption(b.off, "bad magic tag")
	}

	if b.checksum() != b.digest() {
		return poolerrors.Corruption(b.off, "checksum mismatch")
	}

	return nil
}
