// Command ringdemo exercises the ring allocators with a synthetic frame
// workload and prints occupancy snapshots.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/KilnGraphics/Blaze4D-sub001/ringalloc"
)

func main() {
	var (
		capacity = flag.Int("capacity", 1<<20, "arena capacity in bytes (power of two)")
		frames   = flag.Int("frames", 120, "number of simulated frames")
		inFlight = flag.Int("inflight", 2, "frames in flight before retirement")
		seed     = flag.Int64("seed", 1, "workload random seed")
	)
	flag.Parse()

	alloc, err := ringalloc.NewBacked(*capacity)
	if err != nil {
		log.Fatalf("create allocator: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	var pending [][]int
	rejected := 0

	for frame := 0; frame < *frames; frame++ {
		var offsets []int
		for i := 0; i < 4+rng.Intn(8); i++ {
			size := 64 << rng.Intn(8) // 64 B .. 8 KiB
			offset, err := alloc.Allocate(size)
			if errors.Is(err, ringalloc.ErrNoSpace) {
				rejected++
				continue
			}
			if err != nil {
				log.Fatalf("frame %d: allocate %d: %v", frame, size, err)
			}
			offsets = append(offsets, offset)
		}
		pending = append(pending, offsets)

		if len(pending) > *inFlight {
			for _, offset := range pending[0] {
				alloc.Free(offset)
			}
			pending = pending[1:]
		}

		if frame%30 == 0 {
			fmt.Printf("frame %3d: %s\n", frame, alloc.Stats())
		}
	}

	for _, offsets := range pending {
		for _, offset := range offsets {
			alloc.Free(offset)
		}
	}

	fmt.Printf("final:     %s\n", alloc.Stats())
	fmt.Printf("rejected allocations: %d (ErrNoSpace is routine under pressure)\n", rejected)
	if !alloc.IsEmpty() {
		log.Fatal("allocator not empty after retiring every frame")
	}
}
