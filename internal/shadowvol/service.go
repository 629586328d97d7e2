package shadowvol

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/gpualloc"
	"github.com/voxcore/voxrt/internal/respool"
)

// RingSlots is the staging-ring depth allows (2 or 3).
const RingSlots = 3

// Flatten packs a pyramid's three mip levels back to back into one byte
// slice, mip 0 first. No offset/size table is written; each level's
// length is the product of its Dims.
func Flatten(p *Pyramid) []byte {
	var total int
	for _, m := range p.Mips {
		total += len(m.Data)
	}
	out := make([]byte, total)
	off := 0
	for _, m := range p.Mips {
		copy(out[off:], m.Data)
		off += len(m.Data)
	}
	return out
}

// slot is one staging-buffer/timeline-value pair in the upload ring.
type slot struct {
	staging     *respool.StagingRing
	submittedAt uint64 // timeline value of the last submit using this slot; 0 = idle
	size        uint64
}

// Service owns the GPU-resident occupancy buffer and the N-slot staging
// ring that refreshes it (), grounded on gpu/manager_hiz.go's
// mip-chain/readback bookkeeping shape — here repurposed from a GPU
// downsample-and-read pipeline into a CPU-build-and-upload one, since the
// pyramid itself is cheap enough to rebuild on the CPU every dirty frame.
type Service struct {
	device *wgpu.Device
	alloc  *gpualloc.Allocator
	slots  [RingSlots]slot
	next   int

	GPUBuffer *wgpu.Buffer
}

// New creates a Service with RingSlots staging buffers sized to capacity
// bytes (the largest pyramid this volume will ever produce).
func New(device *wgpu.Device, alloc *gpualloc.Allocator, capacity uint64) (*Service, error) {
	s := &Service{device: device, alloc: alloc}
	for i := range s.slots {
		ring, err := respool.NewStagingRing(device, fmt.Sprintf("ShadowVolumeStaging[%d]", i), capacity)
		if err != nil {
			return nil, fmt.Errorf("shadowvol: slot %d: %w", i, err)
		}
		s.slots[i] = slot{staging: ring, size: capacity}
	}
	return s, nil
}

// SlotWouldBlock reports whether the next slot in round-robin order still
// has an upload in flight as of completedTimeline — the only case
// allows the service to block on.
func (s *Service) SlotWouldBlock(completedTimeline uint64) bool {
	sl := &s.slots[s.next]
	return sl.submittedAt != 0 && sl.submittedAt > completedTimeline
}

// Upload stages the flattened pyramid into the next ring slot and records
// a copy into the GPU-resident occupancy buffer, growing it first if
// needed. currentTimeline is the timeline value this submission will
// complete at; completedTimeline is the most recently-completed value the
// caller has observed (e.g. from a fence/queue poll). Returns whether the
// call had to reuse a slot the GPU had not yet finished with — blocking
// occurs only then — so the caller can account for the stall.
func (s *Service) Upload(encoder *wgpu.CommandEncoder, p *Pyramid, currentTimeline, completedTimeline, framesInFlight uint64) (blocked bool, err error) {
	data := Flatten(p)
	if uint64(len(data)) > s.slots[s.next].size {
		return false, fmt.Errorf("shadowvol: pyramid (%d bytes) exceeds staging slot capacity (%d bytes)", len(data), s.slots[s.next].size)
	}

	idx := s.next
	sl := &s.slots[idx]
	blocked = sl.submittedAt != 0 && sl.submittedAt > completedTimeline

	if err := sl.staging.WriteAt(0, data); err != nil {
		return blocked, fmt.Errorf("shadowvol: staging write: %w", err)
	}
	sl.staging.Unmap()

	// EnsureBuffer is given no data of its own: the actual contents arrive
	// via the staging-ring copy below, not queue.WriteBuffer, so the
	// service's own fence/slot bookkeeping is what gates the transfer
	// rather than wgpu's internal upload queue.
	s.alloc.EnsureBuffer("ShadowVolumeOccupancy", &s.GPUBuffer, nil,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst|wgpu.BufferUsageCopySrc,
		len(data), currentTimeline, int(framesInFlight))
	encoder.CopyBufferToBuffer(sl.staging.Buffer(), 0, s.GPUBuffer, 0, uint64(len(data)))

	sl.submittedAt = currentTimeline
	if err := sl.staging.Remap(); err != nil {
		return blocked, fmt.Errorf("shadowvol: staging remap: %w", err)
	}

	s.next = (s.next + 1) % RingSlots
	return blocked, nil
}

// Release frees every staging slot.
func (s *Service) Release() {
	for i := range s.slots {
		if s.slots[i].staging != nil {
			s.slots[i].staging.Release()
		}
	}
}
