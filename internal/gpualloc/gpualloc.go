// Package gpualloc is the renderer's single owner of raw WebGPU buffer and
// texture allocation: geometrically-growing storage buffers, and a
// deferred-destroy queue keyed to the frame timeline so a resource freed
// mid-flight isn't released while a prior frame's command buffer might
// still be reading it.
//
// Buffers grow geometrically at 1.5x with CopySrc|CopyDst usage bits and
// a size-safety warning on unexpectedly large requests. Releasing the
// old buffer synchronously right after the copy would be unsafe here:
// a just-replaced buffer may still be read by an in-flight command
// buffer from the previous frame, so destruction goes through a
// pending-destroy queue keyed to the timeline semaphore instead
// (FRAMES_IN_FLIGHT=2).
package gpualloc

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/voxcore/voxrt/internal/logx"
)

// SafeBufferSizeLimit is the warn-but-proceed ceiling on a single buffer
// allocation.
const SafeBufferSizeLimit = 1024 * 1024 * 1024

const logTag = "gpualloc"

// Allocator owns buffer growth and deferred destruction for one device.
// Timeline is advanced once per frame by the caller (the frame scheduler);
// a resource queued for destroy at timeline T is only actually released
// once Retire is called with a timeline >= T+FramesInFlight, guaranteeing
// no in-flight command buffer can still reference it.
type Allocator struct {
	device *wgpu.Device

	pending []pendingFree
}

type pendingFree struct {
	buffer      *wgpu.Buffer
	texture     *wgpu.Texture
	releaseAt   uint64
}

// New returns an allocator bound to device.
func New(device *wgpu.Device) *Allocator {
	return &Allocator{device: device}
}

// EnsureBuffer grows (*buf) in place if it is nil or smaller than
// len(data)+headroom, preserving old contents when data is nil (a resize
// without a simultaneous full rewrite). It returns true if a new buffer
// was allocated. The old buffer, if any, is not released immediately —
// it's handed to queueFree so it survives until the frames that might
// still be reading it have retired.
func (a *Allocator) EnsureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage, headroom int, currentTimeline uint64, framesInFlight int) bool {
	needed := uint64(len(data) + headroom)
	if needed%4 != 0 {
		needed += 4 - (needed % 4)
	}

	current := *buf
	usage = usage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc

	if current == nil || current.GetSize() < needed {
		newSize := needed
		if current != nil {
			growth := uint64(float64(current.GetSize()) * 1.5)
			if growth > newSize {
				newSize = growth
			}
		}
		if newSize > SafeBufferSizeLimit {
			logx.Warnf(logTag, "buffer %s allocation size %d exceeds safety limit %d", name, newSize, SafeBufferSizeLimit)
		}

		newBuf, err := a.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            name,
			Size:             newSize,
			Usage:            usage,
			MappedAtCreation: false,
		})
		if err != nil {
			logx.Errorf(logTag, "create buffer %s: %v", name, err)
			return false
		}

		if current != nil && data == nil {
			a.copyOldContent(current, newBuf)
		}

		if current != nil {
			a.queueFreeBuffer(current, currentTimeline+uint64(framesInFlight))
		}

		*buf = newBuf
		if len(data) > 0 {
			a.device.GetQueue().WriteBuffer(*buf, 0, data)
		}
		return true
	}

	if len(data) > 0 {
		a.device.GetQueue().WriteBuffer(*buf, 0, data)
	}
	return false
}

func (a *Allocator) copyOldContent(old, next *wgpu.Buffer) {
	encoder, err := a.device.CreateCommandEncoder(nil)
	if err != nil {
		logx.Errorf(logTag, "create copy encoder: %v", err)
		return
	}
	encoder.CopyBufferToBuffer(old, 0, next, 0, old.GetSize())
	cmd, err := encoder.Finish(nil)
	if err != nil {
		logx.Errorf(logTag, "finish copy encoder: %v", err)
		return
	}
	a.device.GetQueue().Submit(cmd)
}

// queueFreeBuffer defers buffer destruction until Retire observes a
// timeline at or past releaseAt.
func (a *Allocator) queueFreeBuffer(buf *wgpu.Buffer, releaseAt uint64) {
	a.pending = append(a.pending, pendingFree{buffer: buf, releaseAt: releaseAt})
}

// QueueFreeTexture defers texture destruction the same way, for callers
// replacing render targets on resize.
func (a *Allocator) QueueFreeTexture(tex *wgpu.Texture, currentTimeline uint64, framesInFlight int) {
	a.pending = append(a.pending, pendingFree{texture: tex, releaseAt: currentTimeline + uint64(framesInFlight)})
}

// Retire releases every pending resource whose releaseAt timeline has
// passed. Call once per frame after the frame's fence/timeline value is
// known to have been reached by the GPU.
func (a *Allocator) Retire(timeline uint64) {
	if len(a.pending) == 0 {
		return
	}
	remaining := a.pending[:0]
	for _, p := range a.pending {
		if timeline < p.releaseAt {
			remaining = append(remaining, p)
			continue
		}
		if p.buffer != nil {
			p.buffer.Release()
		}
		if p.texture != nil {
			p.texture.Release()
		}
	}
	a.pending = remaining
}

// PendingCount reports how many resources are still awaiting retirement.
func (a *Allocator) PendingCount() int {
	return len(a.pending)
}

// CreateTexture is a thin, validating wrapper around device.CreateTexture
// so every pass module goes through one place for texture creation.
func (a *Allocator) CreateTexture(desc *wgpu.TextureDescriptor) (*wgpu.Texture, error) {
	tex, err := a.device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("gpualloc: create texture %s: %w", desc.Label, err)
	}
	return tex, nil
}
