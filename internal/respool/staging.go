package respool

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// StagingRing is a persistently mapped upload buffer sized for the worst
// case (step 1): the caller writes bytes at arbitrary offsets
// any time before the matching copy_buffer is recorded, with no per-write
// map/unmap round trip.
//
// webgpu(-native) doesn't expose a true persistent host pointer the way
// Vulkan does; MapAtCreation plus GetMappedRange gives the same "write
// whenever, no round trip" property until Unmap, which is called once
// right before the copy is recorded. A fixed-size ring never needs to
// grow, so there's no synchronous re-copy-on-grow step to worry about.
type StagingRing struct {
	buf  *wgpu.Buffer
	size uint64
}

// NewStagingRing allocates a mapped-at-creation buffer of the given size.
func NewStagingRing(device *wgpu.Device, label string, size uint64) (*StagingRing, error) {
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            wgpu.BufferUsageCopySrc | wgpu.BufferUsageMapWrite,
		MappedAtCreation: true,
	})
	if err != nil {
		return nil, fmt.Errorf("respool: create staging ring %s: %w", label, err)
	}
	return &StagingRing{buf: buf, size: size}, nil
}

// Buffer returns the underlying GPU buffer for copy_buffer source.
func (r *StagingRing) Buffer() *wgpu.Buffer {
	return r.buf
}

// Size is the ring's total byte capacity.
func (r *StagingRing) Size() uint64 {
	return r.size
}

// WriteAt writes data into the mapped range at byteOffset. Must be called
// before Unmap (i.e. before the frame's copy_buffer is recorded); offset+
// len(data) must not exceed Size.
func (r *StagingRing) WriteAt(byteOffset uint64, data []byte) error {
	if byteOffset+uint64(len(data)) > r.size {
		return fmt.Errorf("respool: staging write [%d,%d) exceeds ring size %d", byteOffset, byteOffset+uint64(len(data)), r.size)
	}
	dst := r.buf.GetMappedRange(uint(byteOffset), uint(len(data)))
	copy(dst, data)
	return nil
}

// Unmap flushes the mapped range so the GPU can read it in a copy_buffer;
// call once per frame after all WriteAt calls for that frame complete.
func (r *StagingRing) Unmap() {
	r.buf.Unmap()
}

// Remap re-maps the buffer for the next frame's writes. webgpu buffers
// created with MapWrite usage and CopySrc can be remapped once the GPU
// has finished consuming the prior frame's copy (the scheduler's in-flight
// fence wait guarantees this before Remap is called).
func (r *StagingRing) Remap() error {
	// MapAsync is asynchronous in general, but immediately-available maps
	// (buffer idle, no pending GPU use per the fence wait above) complete
	// synchronously in practice; callers that need strict async semantics
	// should poll via the device's event loop between Remap and WriteAt.
	done := make(chan error, 1)
	r.buf.MapAsync(wgpu.MapModeWrite, 0, uint(r.size), func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			done <- fmt.Errorf("respool: remap staging buffer failed: %v", status)
			return
		}
		done <- nil
	})
	return <-done
}

// Release destroys the underlying buffer.
func (r *StagingRing) Release() {
	r.buf.Release()
}
