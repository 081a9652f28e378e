package ringalloc

import "testing"

// BenchmarkAddressSpace_FrameChurn measures the steady-state frame pattern:
// allocate a frame's worth of spans, retire the previous frame, repeat.
func BenchmarkAddressSpace_FrameChurn(b *testing.B) {
	sizes := []struct {
		name  string
		sizes []int
	}{
		{"small", []int{64, 128, 256}},
		{"mixed", []int{64, 4096, 512, 16384, 96}},
		{"large", []int{65536, 131072}},
	}

	for _, tt := range sizes {
		b.Run(tt.name, func(b *testing.B) {
			a, err := NewAddressSpace(1 << 22)
			if err != nil {
				b.Fatalf("NewAddressSpace: %v", err)
			}
			var prev []int
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				var cur []int
				for _, size := range tt.sizes {
					h, err := a.Allocate(size)
					if err != nil {
						b.Fatalf("Allocate(%d): %v", size, err)
					}
					cur = append(cur, h)
				}
				for _, h := range prev {
					a.Free(h)
				}
				prev = cur
			}
		})
	}
}

// BenchmarkBacked_AllocateFree measures a tight allocate/free cycle with the
// inline-header variant.
func BenchmarkBacked_AllocateFree(b *testing.B) {
	alloc, err := NewBacked(1 << 20)
	if err != nil {
		b.Fatalf("NewBacked: %v", err)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h, err := alloc.Allocate(252)
		if err != nil {
			b.Fatalf("Allocate: %v", err)
		}
		alloc.Free(h)
	}
}

// BenchmarkBacked_Fragmented measures search cost over a fragmented region
// list, which is what bounds per-frame worst case.
func BenchmarkBacked_Fragmented(b *testing.B) {
	alloc, err := NewBacked(1 << 16)
	if err != nil {
		b.Fatalf("NewBacked: %v", err)
	}
	var handles []int
	for {
		h, err := alloc.Allocate(60)
		if err != nil {
			break
		}
		handles = append(handles, h)
	}
	for i := 0; i < len(handles); i += 2 {
		alloc.Free(handles[i])
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h, err := alloc.Allocate(60)
		if err != nil {
			b.Fatalf("Allocate: %v", err)
		}
		alloc.Free(h)
	}
}
