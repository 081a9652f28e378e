package ringalloc

import (
	"container/list"
	"errors"
	"fmt"
)

// Allocation errors.
var (
	// ErrInvalidCapacity is returned by constructors for capacities that
	// violate the variant's preconditions.
	ErrInvalidCapacity = errors.New("ringalloc: invalid capacity")

	// ErrInvalidSize is returned by Allocate for non-positive sizes.
	ErrInvalidSize = errors.New("ringalloc: invalid allocation size")

	// ErrNoSpace is returned by Allocate when no contiguous free span is
	// large enough. This is a routine condition, not a bug: fragmentation
	// can leave only small spans even when the total free space would fit
	// the request. Match with errors.Is.
	ErrNoSpace = errors.New("ringalloc: no contiguous free space")
)

// region is one contiguous span of the arena. The region list covers
// [0, capacity) exactly, in address order, with no overlaps. A region never
// straddles the arena's physical end.
type region struct {
	start  int
	length int
	free   bool
}

// ring is the allocation core shared by both variants. It tracks the region
// list, the rotating search cursor, and occupancy totals. The variants layer
// their bookkeeping strategy (side table or inline header) on top.
type ring struct {
	capacity int

	// regions holds *region entries in ascending start order.
	regions *list.List

	// cursor is where the next search begins. It rotates past the end of
	// each successful allocation and wraps modulo capacity.
	cursor int

	// wrapMask is capacity-1 when capacity is a power of two, letting the
	// cursor wrap with a mask instead of a modulo. Zero otherwise.
	wrapMask int

	// usedBytes and allocs track current occupancy.
	usedBytes int
	allocs    int
}

func (r *ring) init(capacity int) {
	r.capacity = capacity
	r.regions = list.New()
	r.regions.PushBack(&region{start: 0, length: capacity, free: true})
	if capacity&(capacity-1) == 0 {
		r.wrapMask = capacity - 1
	}
}

// advance wraps an offset into [0, capacity).
func (r *ring) advance(offset int) int {
	if r.wrapMask != 0 {
		return offset & r.wrapMask
	}
	return offset % r.capacity
}

// cursorElement returns the list element of the region containing the
// cursor. The region list always covers the full arena, so this never
// returns nil.
func (r *ring) cursorElement() *list.Element {
	for e := r.regions.Front(); e != nil; e = e.Next() {
		reg := e.Value.(*region)
		if r.cursor >= reg.start && r.cursor < reg.start+reg.length {
			return e
		}
	}
	// Unreachable: the region list covers [0, capacity) and the cursor is
	// always wrapped into that range.
	panic(fmt.Sprintf("ringalloc: cursor %d outside region list", r.cursor))
}

// allocate runs the next-fit search for a span of needed bytes.
//
// The scan starts at the region containing the cursor and walks the region
// list in address order, wrapping to the front after the last region, for at
// most one full pass. The first free region at least needed bytes long is
// carved: its head becomes the allocation, any remainder stays free. A
// request issued near the physical end with too little room before the end
// is therefore satisfied at offset 0 rather than split across the boundary.
//
// On failure nothing is mutated and ok is false.
func (r *ring) allocate(needed int) (start int, ok bool) {
	e := r.cursorElement()
	for i := r.regions.Len(); i > 0; i-- {
		reg := e.Value.(*region)
		if reg.free && reg.length >= needed {
			r.carve(e, needed)
			return reg.start, true
		}
		e = e.Next()
		if e == nil {
			e = r.regions.Front()
		}
	}
	return 0, false
}

// carve converts the head of a free region into a used region of exactly
// needed bytes, keeping any tail as a new free region, and advances the
// cursor past the allocation.
func (r *ring) carve(e *list.Element, needed int) {
	reg := e.Value.(*region)
	if tail := reg.length - needed; tail > 0 {
		r.regions.InsertAfter(&region{start: reg.start + needed, length: tail, free: true}, e)
		reg.length = needed
	}
	reg.free = false
	r.usedBytes += needed
	r.allocs++
	r.cursor = r.advance(reg.start + needed)
}

// release returns the used region [start, start+length) to the free list
// and coalesces it with free neighbors so that no two adjacent free regions
// survive. The cursor is left untouched: an offset inside a freed region is
// still a valid scan start point.
//
// Releasing a span that is not a live used region is caller error; release
// panics when it detects one.
func (r *ring) release(start, length int) {
	var e *list.Element
	for e = r.regions.Front(); e != nil; e = e.Next() {
		if e.Value.(*region).start == start {
			break
		}
	}
	if e == nil {
		panic(fmt.Sprintf("ringalloc: free of unallocated offset %d", start))
	}
	reg := e.Value.(*region)
	if reg.free {
		panic(fmt.Sprintf("ringalloc: double free of offset %d", start))
	}
	if reg.length != length {
		panic(fmt.Sprintf("ringalloc: free of offset %d with length %d, allocated %d",
			start, length, reg.length))
	}

	reg.free = true
	r.usedBytes -= reg.length
	r.allocs--

	// Merge the predecessor in, then the successor. Regions never wrap the
	// physical end, so adjacency is purely list order.
	if prev := e.Prev(); prev != nil {
		prevReg := prev.Value.(*region)
		if prevReg.free {
			prevReg.length += reg.length
			r.regions.Remove(e)
			e = prev
			reg = prevReg
		}
	}
	if next := e.Next(); next != nil {
		nextReg := next.Value.(*region)
		if nextReg.free {
			reg.length += nextReg.length
			r.regions.Remove(next)
		}
	}
}

// empty reports whether zero bytes are allocated.
func (r *ring) empty() bool { return r.usedBytes == 0 }

// full reports whether every byte of the arena is allocated.
func (r *ring) full() bool { return r.usedBytes == r.capacity }

// stats gathers occupancy counters from the region list.
func (r *ring) stats() Stats {
	s := Stats{
		CapacityBytes: r.capacity,
		UsedBytes:     r.usedBytes,
		FreeBytes:     r.capacity - r.usedBytes,
		Allocations:   r.allocs,
		Regions:       r.regions.Len(),
	}
	for e := r.regions.Front(); e != nil; e = e.Next() {
		reg := e.Value.(*region)
		if reg.free && reg.length > s.LargestFreeSpan {
			s.LargestFreeSpan = reg.length
		}
	}
	if r.capacity > 0 {
		s.Utilization = float64(r.usedBytes) / float64(r.capacity)
	}
	return s
}
