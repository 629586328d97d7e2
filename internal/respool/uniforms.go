package respool

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// FrameUniforms holds one uniform buffer per in-flight slot, each sized
// to the shared PushConstants block (≤256 bytes) that every
// raymarch/temporal pass reads as a prefix. A single buffer updated in
// place each frame would work for one frame in flight, but the
// FRAMES_IN_FLIGHT=2 ping-pong requires one buffer per slot instead of
// one shared buffer, so slot N's in-flight command buffer never reads a
// write meant for slot N+1.
type FrameUniforms struct {
	buffers []*wgpu.Buffer
	size    uint64
}

// NewFrameUniforms allocates framesInFlight uniform buffers of size bytes.
func NewFrameUniforms(device *wgpu.Device, framesInFlight int, size uint64) (*FrameUniforms, error) {
	fu := &FrameUniforms{buffers: make([]*wgpu.Buffer, framesInFlight), size: size}
	for i := range fu.buffers {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            fmt.Sprintf("PushConstants[%d]", i),
			Size:             size,
			Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return nil, fmt.Errorf("respool: create frame uniform buffer %d: %w", i, err)
		}
		fu.buffers[i] = buf
	}
	return fu, nil
}

// Buffer returns the uniform buffer for in_flight_slot.
func (fu *FrameUniforms) Buffer(slot int) *wgpu.Buffer {
	return fu.buffers[slot%len(fu.buffers)]
}

// Write uploads data (must be <= size) into the slot's buffer.
func (fu *FrameUniforms) Write(device *wgpu.Device, slot int, data []byte) {
	device.GetQueue().WriteBuffer(fu.Buffer(slot), 0, data)
}

// Release destroys every slot's buffer.
func (fu *FrameUniforms) Release() {
	for _, b := range fu.buffers {
		if b != nil {
			b.Release()
		}
	}
}
