package ringalloc

import "fmt"

// AddressSpaceAllocator is a ring allocator over an abstract address range
// [0, capacity) with no physical backing. It is pure bookkeeping: callers
// use the returned offsets to place data into storage the allocator never
// touches (typically a memory-mapped GPU buffer). Allocation lengths are
// retained in a side table keyed by offset, so Free needs only the offset.
//
// AddressSpaceAllocator is not safe for concurrent use.
type AddressSpaceAllocator struct {
	ring

	// sizes maps each live offset to its allocation length. The address
	// space has no storage to carry an inline header, so the length must
	// live outside the arena.
	sizes map[int]int
}

// NewAddressSpace creates an allocator over the abstract range
// [0, capacity). The capacity is a count of addressable units; any positive
// value is accepted.
func NewAddressSpace(capacity int) (*AddressSpaceAllocator, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d, must be positive", ErrInvalidCapacity, capacity)
	}
	a := &AddressSpaceAllocator{sizes: make(map[int]int)}
	a.init(capacity)
	return a, nil
}

// Capacity returns the fixed size of the managed address range.
func (a *AddressSpaceAllocator) Capacity() int { return a.capacity }

// Allocate reserves a contiguous span of size units and returns its start
// offset. The search is next-fit: it resumes where the previous allocation
// ended and wraps to offset 0 at the arena's end.
//
// A non-positive size returns ErrInvalidSize. If no contiguous free span of
// size units exists (including size > capacity), Allocate returns ErrNoSpace
// and leaves the allocator unchanged.
func (a *AddressSpaceAllocator) Allocate(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	offset, ok := a.allocate(size)
	if !ok {
		return 0, ErrNoSpace
	}
	a.sizes[offset] = size
	return offset, nil
}

// Free returns the span starting at offset to the allocator, merging it
// with any adjacent free spans. The offset must have been returned by a
// previous Allocate and not yet freed; anything else is undefined behavior
// (it panics when detected).
func (a *AddressSpaceAllocator) Free(offset int) {
	size, ok := a.sizes[offset]
	if !ok {
		panic(fmt.Sprintf("ringalloc: free of untracked offset %d", offset))
	}
	delete(a.sizes, offset)
	a.release(offset, size)
}

// IsEmpty reports whether no allocations are live, i.e. the whole arena is
// one free span.
func (a *AddressSpaceAllocator) IsEmpty() bool { return a.empty() }

// IsFull reports whether the live allocations cover the entire capacity.
func (a *AddressSpaceAllocator) IsFull() bool { return a.full() }

// Stats returns a snapshot of the allocator's occupancy.
func (a *AddressSpaceAllocator) Stats() Stats { return a.stats() }
