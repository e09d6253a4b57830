// Package allocator implements a general-purpose byte allocator backed by
// a single fixed-size, contiguous region of process memory. It never
// calls into the host OS after construction: allocation and
// deallocation are serviced entirely out of one pre-sized []byte arena,
// carved into headered blocks tracked by a doubly linked, address-order
// free list.
package allocator

import (
	"fmt"
	"unsafe"
)

// Ref is a payload reference returned by Allocate and consumed by Free:
// the byte offset of a block's payload from the arena's base. The zero
// value means "no reference" — offset 0 can never be a payload address,
// since every block's header occupies at least headerSize bytes starting
// at offset 0.
type Ref uintptr

// Stats is the tuple returned by Pool.Stats.
type Stats struct {
	PoolSize      uintptr
	Allocated     uintptr
	Free          uintptr
	Count         uintptr // live allocation count
	Fragmentation int
	HeaderSize    uintptr
	Alignment     uintptr
}

// Pool is a single-threaded, non-reentrant block allocator over one
// fixed arena. It carries no package-level state; every Pool is
// independent, so an embedder may run as many as it needs.
type Pool struct {
	arena      []byte
	config     *Config
	reporter   Reporter
	headerSize uintptr

	totalAllocated uintptr
	totalFree      uintptr
	allocCount     uintptr
}

// New builds a Pool and installs the single whole-pool free block.
func New(opts ...Option) (*Pool, error) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	if config.PoolSize == 0 {
		return nil, fmt.Errorf("allocator: pool size must be greater than 0")
	}

	if config.Alignment == 0 || config.Alignment&(config.Alignment-1) != 0 {
		return nil, fmt.Errorf("allocator: alignment must be a power of two, got %d", config.Alignment)
	}

	headerSize := alignUp(rawHeaderSize, config.Alignment)
	if config.PoolSize <= headerSize {
		return nil, fmt.Errorf("allocator: pool size %d too small for header size %d", config.PoolSize, headerSize)
	}

	payload := config.PoolSize - headerSize
	if payload%config.Alignment != 0 {
		return nil, fmt.Errorf("allocator: pool size minus header size (%d) must be a multiple of alignment %d", payload, config.Alignment)
	}

	p := &Pool{
		arena:      make([]byte, config.PoolSize),
		config:     config,
		reporter:   config.Reporter,
		headerSize: headerSize,
	}

	p.initialize()

	return p, nil
}

// initialize installs a single Block spanning the whole pool, marked free.
func (p *Pool) initialize() {
	head := p.blockAt(0)
	head.setMagic(p.config.Magic)
	head.setSize(p.config.PoolSize - p.headerSize)
	head.setFree(true)
	head.setNext(0, false)
	head.setPrev(0, false)
	head.seal()

	p.totalAllocated = 0
	p.totalFree = head.size()
	p.allocCount = 0
}

// Deref converts a payload reference into a pointer to its first byte.
// The caller is responsible for not reading or writing past ref's block
// size. Returns nil for the none reference.
func (p *Pool) Deref(ref Ref) unsafe.Pointer {
	if ref == 0 {
		return nil
	}

	return unsafe.Pointer(&p.arena[uintptr(ref)])
}

// refForHeader converts a header's byte offset to the payload reference a
// caller sees.
func (p *Pool) refForHeader(headerOff uintptr) Ref {
	return Ref(headerOff + p.headerSize)
}

// headerOffsetForRef converts a payload reference back to its header's
// byte offset, in constant time.
func (p *Pool) headerOffsetForRef(ref Ref) uintptr {
	return uintptr(ref) - p.headerSize
}

// Stats reports pool-wide accounting: (pool_size, allocated, free, count,
// fragmentation, header_size, alignment).
func (p *Pool) Stats() Stats {
	return Stats{
		PoolSize:      p.config.PoolSize,
		Allocated:     p.totalAllocated,
		Free:          p.totalFree,
		Count:         p.allocCount,
		Fragmentation: p.Fragmentation(),
		HeaderSize:    p.headerSize,
		Alignment:     p.config.Alignment,
	}
}

// reportCorruption emits the Corruption diagnostic the spec calls for
// before returning err unchanged.
func (p *Pool) reportCorruption(err error) error {
	p.report("allocator: corruption detected: %v", err)

	return err
}
