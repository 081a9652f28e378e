package ringalloc

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the per-allocation bookkeeping overhead of
// [BackedAllocator], in bytes. Each allocation occupies HeaderSize plus the
// requested size inside the arena.
const HeaderSize = 4

// BackedAllocator is a ring allocator that owns a real byte arena. Instead
// of a side table, it stores each allocation's length as a little-endian
// uint32 header directly in front of the data it hands out, so Free needs
// only the data offset. Header and data are always physically contiguous:
// a request with too little room before the arena's end is placed at offset
// 0 instead of being split across the boundary.
//
// The arena capacity must be a power of two, which lets wraparound offset
// arithmetic use a mask instead of a modulo. It must also exceed
// HeaderSize, since a smaller arena could never hold a single allocation.
//
// Callers may write payload bytes anywhere inside [offset, offset+size) of
// a live allocation via Bytes; the allocator interprets nothing in the
// arena beyond its own header words. Explicit byte-order reads and writes
// keep the header layout stable even when the arena aliases memory that is
// also visible to the GPU.
//
// BackedAllocator is not safe for concurrent use.
type BackedAllocator struct {
	ring

	// data is the managed arena. len(data) == capacity.
	data []byte
}

// NewBacked creates a backed allocator over a freshly allocated arena of
// capacity bytes. The capacity must be a power of two greater than
// HeaderSize.
func NewBacked(capacity int) (*BackedAllocator, error) {
	if err := checkBackedCapacity(capacity); err != nil {
		return nil, err
	}
	b := &BackedAllocator{data: make([]byte, capacity)}
	b.init(capacity)
	return b, nil
}

// NewBackedOver creates a backed allocator that manages caller-provided
// storage, such as the mapped range of a GPU staging buffer. The allocator
// takes exclusive ownership of buf for its lifetime; len(buf) must satisfy
// the same power-of-two precondition as NewBacked.
func NewBackedOver(buf []byte) (*BackedAllocator, error) {
	if err := checkBackedCapacity(len(buf)); err != nil {
		return nil, err
	}
	b := &BackedAllocator{data: buf}
	b.init(len(buf))
	return b, nil
}

func checkBackedCapacity(capacity int) error {
	if capacity <= HeaderSize {
		return fmt.Errorf("%w: %d, must exceed the %d-byte header", ErrInvalidCapacity, capacity, HeaderSize)
	}
	if capacity&(capacity-1) != 0 {
		return fmt.Errorf("%w: %d, must be a power of two", ErrInvalidCapacity, capacity)
	}
	return nil
}

// Capacity returns the fixed arena size in bytes.
func (b *BackedAllocator) Capacity() int { return b.capacity }

// Bytes returns the raw arena. Callers may read and write the sub-ranges of
// live allocations; bytes outside them, including the header words, belong
// to the allocator.
func (b *BackedAllocator) Bytes() []byte { return b.data }

// Allocate reserves size bytes and returns the offset of the data inside
// the arena. The allocation occupies size+HeaderSize contiguous bytes; the
// header word in front of the returned offset records the size for Free.
//
// A non-positive size returns ErrInvalidSize. If no contiguous free span of
// size+HeaderSize bytes exists, Allocate returns ErrNoSpace and leaves both
// bookkeeping and arena bytes unchanged.
func (b *BackedAllocator) Allocate(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	// Reject before the header addition: size+HeaderSize could overflow for
	// huge requests, and anything above capacity-HeaderSize can never fit.
	if size > b.capacity-HeaderSize {
		return 0, ErrNoSpace
	}
	start, ok := b.allocate(size + HeaderSize)
	if !ok {
		return 0, ErrNoSpace
	}
	binary.LittleEndian.PutUint32(b.data[start:], uint32(size)) //nolint:gosec // G115: size fits the arena, which a uint32 can address
	return start + HeaderSize, nil
}

// Free returns the allocation whose data starts at offset to the allocator,
// merging the freed span with any adjacent free spans. The size is
// recovered from the header word in front of the offset. The offset must
// have been returned by a previous Allocate and not yet freed; anything
// else is undefined behavior (it panics when detected, but a stale offset
// whose header bytes have been reused can corrupt the allocator silently).
func (b *BackedAllocator) Free(offset int) {
	if offset < HeaderSize || offset > b.capacity {
		panic(fmt.Sprintf("ringalloc: free of offset %d outside arena", offset))
	}
	start := offset - HeaderSize
	size := int(binary.LittleEndian.Uint32(b.data[start:]))
	b.release(start, size+HeaderSize)
}

// IsEmpty reports whether no allocations are live.
func (b *BackedAllocator) IsEmpty() bool { return b.empty() }

// IsFull reports whether the live allocations, headers included, cover the
// entire capacity.
func (b *BackedAllocator) IsFull() bool { return b.full() }

// Stats returns a snapshot of the allocator's occupancy. UsedBytes includes
// one HeaderSize per live allocation.
func (b *BackedAllocator) Stats() Stats { return b.stats() }
