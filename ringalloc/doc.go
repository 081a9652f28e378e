// Package ringalloc provides ring allocators for short-lived GPU-bound data.
//
// A ring allocator hands out contiguous sub-ranges of a fixed-size arena
// using a next-fit search that rotates through the arena and wraps at the
// physical end. Freed ranges are coalesced with their neighbors immediately,
// so a fully drained arena always collapses back to a single free span.
// This suits per-frame vertex, index, and staging data: allocations are
// short-lived, arrive in bursts, and are retired in batches, so the rotating
// cursor naturally chases the oldest live data around the arena without ever
// invoking a general-purpose allocator.
//
// Two variants share the same core algorithm:
//
//   - [AddressSpaceAllocator] is pure bookkeeping over an abstract range
//     [0, capacity). It owns no storage; callers place data into memory they
//     manage themselves using the offsets it returns. Allocation lengths are
//     kept in a side table.
//   - [BackedAllocator] owns a real byte arena and stores each allocation's
//     length in a small header directly in front of the returned data
//     offset, so Free needs nothing beyond the offset itself.
//
// # Error model
//
// Precondition violations (non-positive sizes, invalid capacities) return
// [ErrInvalidSize] or [ErrInvalidCapacity]; they indicate caller bugs.
// Running out of contiguous space is a routine outcome reported as
// [ErrNoSpace], and a failed Allocate never mutates allocator state.
// Callers are expected to match it with errors.Is and recover, typically by
// retiring a frame's allocations and retrying.
//
// # Concurrency
//
// Allocators are NOT safe for concurrent use. The expected usage is a single
// render or upload goroutine; wrap an instance with a mutex at the call site
// if that does not hold. Freeing an offset that is not currently allocated
// is undefined behavior; the implementation panics when it can detect it,
// but detection is best-effort, not a contract.
package ringalloc
