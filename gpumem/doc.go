// Package gpumem connects the ring allocators in ringalloc to GPU buffers.
//
// The central type is [StagingRing]: one long-lived upload buffer whose byte
// range is parceled out by an address-space ring allocator. Per-frame data
// is pushed into the ring, referenced by copy commands during the frame, and
// retired in one batch once the GPU has consumed it:
//
//	ring, err := gpumem.NewStagingRing(device, queue, gpumem.Config{})
//	...
//	alloc, err := ring.Push(vertexData)     // write + suballocate
//	// encode a copy from alloc.Buffer at alloc.Offset
//	token, err := ring.EndFrame()
//	// ... after the frame's fence signals:
//	ring.Retire(token)
//
// [ScratchArena] is the CPU-side counterpart: a byte arena managed by the
// backed ring allocator, used to assemble vertex or index data in place
// before it is pushed.
//
// Like the allocators underneath, neither type locks internally; calls must
// come from one goroutine (typically the render or upload thread).
//
// The package is silent by default. Call [SetLogger] to receive debug-level
// events for buffer lifecycle and frame retirement.
package gpumem
