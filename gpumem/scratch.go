package gpumem

import "github.com/KilnGraphics/Blaze4D-sub001/ringalloc"

// ScratchArena is a CPU-side byte arena for assembling GPU-bound data in
// place before it is pushed to a staging ring. It is a thin view over the
// backed ring allocator: Alloc returns a writable sub-slice of the arena,
// and the allocation length lives in an inline header in front of it, so
// Release needs only the offset.
//
// ScratchArena is not safe for concurrent use.
type ScratchArena struct {
	ring *ringalloc.BackedAllocator
}

// NewScratch creates a scratch arena of capacity bytes. The capacity must
// be a power of two larger than ringalloc.HeaderSize.
func NewScratch(capacity int) (*ScratchArena, error) {
	ring, err := ringalloc.NewBacked(capacity)
	if err != nil {
		return nil, err
	}
	return &ScratchArena{ring: ring}, nil
}

// ScratchOver creates a scratch arena over caller-owned storage, such as a
// persistently mapped buffer range. The same capacity preconditions apply
// to len(buf).
func ScratchOver(buf []byte) (*ScratchArena, error) {
	ring, err := ringalloc.NewBackedOver(buf)
	if err != nil {
		return nil, err
	}
	return &ScratchArena{ring: ring}, nil
}

// Alloc reserves size bytes and returns the writable sub-slice along with
// its offset in the arena. The slice aliases the arena; it is valid until
// the matching Release.
func (s *ScratchArena) Alloc(size int) ([]byte, int, error) {
	offset, err := s.ring.Allocate(size)
	if err != nil {
		return nil, 0, err
	}
	return s.ring.Bytes()[offset : offset+size : offset+size], offset, nil
}

// Release returns the allocation at offset to the arena.
func (s *ScratchArena) Release(offset int) { s.ring.Free(offset) }

// Bytes returns the raw arena backing every allocation.
func (s *ScratchArena) Bytes() []byte { return s.ring.Bytes() }

// IsEmpty reports whether no scratch allocations are live.
func (s *ScratchArena) IsEmpty() bool { return s.ring.IsEmpty() }

// Stats returns the underlying allocator's occupancy snapshot.
func (s *ScratchArena) Stats() ringalloc.Stats { return s.ring.Stats() }
