package gpumem

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/KilnGraphics/Blaze4D-sub001/ringalloc"
)

// Staging errors.
var (
	// ErrClosed is returned when operating on a closed staging ring.
	ErrClosed = errors.New("gpumem: staging ring closed")

	// ErrNilDevice is returned when constructing without a device.
	ErrNilDevice = errors.New("gpumem: device is nil")

	// ErrNilQueue is returned when constructing without a queue.
	ErrNilQueue = errors.New("gpumem: queue is nil")

	// ErrEmptyData is returned by Push for empty payloads.
	ErrEmptyData = errors.New("gpumem: empty payload")

	// ErrUnknownFrame is returned by Retire for a token that is not in
	// flight (never issued, or already retired).
	ErrUnknownFrame = errors.New("gpumem: unknown frame token")
)

// Default staging configuration.
const (
	// DefaultStagingBytes is the default staging buffer size (4 MiB).
	DefaultStagingBytes = 4 << 20

	// DefaultLabel is the debug label given to the staging buffer.
	DefaultLabel = "gpumem_staging_ring"

	// copyAlignment pads every suballocation so that returned offsets stay
	// aligned for buffer-to-buffer and buffer-to-texture copies. WebGPU
	// requires copy offsets and sizes to be multiples of 4.
	copyAlignment = 4
)

// Device is the subset of hal.Device the staging ring needs.
type Device interface {
	CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error)
	DestroyBuffer(buffer hal.Buffer)
}

// Queue is the subset of hal.Queue used for staging writes.
type Queue interface {
	WriteBuffer(buffer hal.Buffer, offset uint64, data []byte) error
}

// Config holds configuration for creating a StagingRing.
type Config struct {
	// SizeBytes is the staging buffer capacity.
	// Defaults to DefaultStagingBytes if <= 0.
	SizeBytes int

	// Label is the debug label for the underlying buffer.
	// Defaults to DefaultLabel if empty.
	Label string
}

// Allocation identifies staged bytes inside the ring's buffer: everything a
// copy command needs to reference them.
type Allocation struct {
	// Buffer is the staging buffer holding the data.
	Buffer hal.Buffer

	// Offset is the byte offset of the data within Buffer.
	Offset uint64

	// Size is the payload size in bytes (excluding alignment padding).
	Size uint64
}

// FrameToken identifies one frame's batch of staged allocations for Retire.
type FrameToken uint64

// StagingRing owns a single long-lived upload buffer and suballocates it
// with an address-space ring allocator. The allocator only accounts for
// offsets; the actual bytes travel through the queue's WriteBuffer, so the
// ring works the same whether the buffer ends up host-visible or behind a
// driver-managed staging path.
//
// Pushes accumulate on the current frame and are freed as one batch when
// that frame is retired. Retire must not be called before the GPU has
// consumed the frame's copies; the ring performs no fence tracking itself.
//
// StagingRing is not safe for concurrent use.
type StagingRing struct {
	device Device
	queue  Queue
	buffer hal.Buffer
	ring   *ringalloc.AddressSpaceAllocator

	// current collects the offsets pushed since the last EndFrame.
	current []int

	// inFlight maps issued frame tokens to their offsets.
	inFlight map[FrameToken][]int

	nextToken FrameToken
	closed    bool
}

// NewStagingRing creates a staging ring with its own upload buffer. The
// buffer is created with CopySrc|MapWrite usage and destroyed by Close.
func NewStagingRing(device Device, queue Queue, config Config) (*StagingRing, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}

	size := config.SizeBytes
	if size <= 0 {
		size = DefaultStagingBytes
	}
	label := config.Label
	if label == "" {
		label = DefaultLabel
	}

	ring, err := ringalloc.NewAddressSpace(size)
	if err != nil {
		return nil, err
	}

	buffer, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(size), //nolint:gosec // G115: size validated positive above
		Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageMapWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("gpumem: create staging buffer: %w", err)
	}

	Logger().Debug("staging ring created", "label", label, "size", size)

	return &StagingRing{
		device:   device,
		queue:    queue,
		buffer:   buffer,
		ring:     ring,
		inFlight: make(map[FrameToken][]int),
	}, nil
}

// Buffer returns the underlying staging buffer.
func (s *StagingRing) Buffer() hal.Buffer { return s.buffer }

// Push stages data into the ring: it reserves a span, writes the payload
// through the queue, and records the span on the current frame.
//
// Running out of ring space is routine when frames are still in flight;
// callers should match ringalloc.ErrNoSpace with errors.Is and either wait
// for a frame to retire or flush outstanding work.
func (s *StagingRing) Push(data []byte) (Allocation, error) {
	if s.closed {
		return Allocation{}, ErrClosed
	}
	if len(data) == 0 {
		return Allocation{}, ErrEmptyData
	}

	// Pad so every returned offset stays copy-aligned.
	padded := (len(data) + copyAlignment - 1) &^ (copyAlignment - 1)
	offset, err := s.ring.Allocate(padded)
	if err != nil {
		return Allocation{}, err
	}

	if err := s.queue.WriteBuffer(s.buffer, uint64(offset), data); err != nil { //nolint:gosec // G115: offset within ring capacity
		// Return the span so a failed write leaves no dangling reservation.
		s.ring.Free(offset)
		return Allocation{}, fmt.Errorf("gpumem: stage payload: %w", err)
	}
	s.current = append(s.current, offset)

	return Allocation{
		Buffer: s.buffer,
		Offset: uint64(offset), //nolint:gosec // G115: offset within ring capacity
		Size:   uint64(len(data)),
	}, nil
}

// EndFrame seals the current batch of pushes and returns the token that
// retires them. An empty frame is valid and retires as a no-op.
func (s *StagingRing) EndFrame() (FrameToken, error) {
	if s.closed {
		return 0, ErrClosed
	}
	token := s.nextToken
	s.nextToken++
	s.inFlight[token] = s.current
	s.current = nil
	return token, nil
}

// Retire frees every span pushed during the given frame, returning the
// space to the ring. Call it once the GPU has consumed the frame's copies
// (typically after its fence signals).
func (s *StagingRing) Retire(token FrameToken) error {
	if s.closed {
		return ErrClosed
	}
	offsets, ok := s.inFlight[token]
	if !ok {
		Logger().Warn("retire of unknown frame token", "token", uint64(token))
		return fmt.Errorf("%w: %d", ErrUnknownFrame, token)
	}
	delete(s.inFlight, token)
	for _, offset := range offsets {
		s.ring.Free(offset)
	}
	Logger().Debug("frame retired", "token", uint64(token), "allocations", len(offsets))
	return nil
}

// InFlight returns the number of sealed frames not yet retired.
func (s *StagingRing) InFlight() int { return len(s.inFlight) }

// Stats returns the ring allocator's occupancy snapshot.
func (s *StagingRing) Stats() ringalloc.Stats { return s.ring.Stats() }

// Close destroys the staging buffer. Allocations handed out earlier must no
// longer be referenced by pending GPU work.
func (s *StagingRing) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.device.DestroyBuffer(s.buffer)
	Logger().Debug("staging ring closed")
}
