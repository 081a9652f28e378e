package ringalloc

import "fmt"

// Stats contains a snapshot of an allocator's occupancy.
type Stats struct {
	// CapacityBytes is the fixed arena size.
	CapacityBytes int

	// UsedBytes is the number of currently allocated bytes, including any
	// per-allocation header overhead.
	UsedBytes int

	// FreeBytes is the number of unallocated bytes. Fragmentation may make
	// some of them unusable for a given request; see LargestFreeSpan.
	FreeBytes int

	// Allocations is the number of live allocations.
	Allocations int

	// Regions is the number of tracked free/used spans. Search and free
	// cost scales with this, not with capacity.
	Regions int

	// LargestFreeSpan is the size of the biggest contiguous free span,
	// i.e. the largest request that could currently succeed (before any
	// header overhead).
	LargestFreeSpan int

	// Utilization is the fraction of capacity in use (0.0 to 1.0).
	Utilization float64
}

// String returns a human-readable summary of the stats.
func (s Stats) String() string {
	return fmt.Sprintf("Ring[%.1f%% used, %d/%d bytes, %d allocations, %d regions, largest free %d]",
		s.Utilization*100,
		s.UsedBytes,
		s.CapacityBytes,
		s.Allocations,
		s.Regions,
		s.LargestFreeSpan)
}
