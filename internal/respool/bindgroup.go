package respool

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// BindGroupCache memoizes *wgpu.BindGroup objects by caller-supplied key
// so passes can ask for "the bind group for this layout plus these
// resources" every frame without re-creating it when nothing changed.
// The spec's chunk/vobj-atlas/shadow-mip resources can be resized at
// runtime, so bind groups referencing them must be rebuildable on demand
// rather than built once and fixed for the program's lifetime.
type BindGroupCache struct {
	device  *wgpu.Device
	entries map[string]*wgpu.BindGroup
}

// NewBindGroupCache returns an empty cache bound to device.
func NewBindGroupCache(device *wgpu.Device) *BindGroupCache {
	return &BindGroupCache{device: device, entries: make(map[string]*wgpu.BindGroup)}
}

// GetOrCreate returns the cached bind group for key, creating it via
// desc() if absent or if invalidate is set (the caller detected one of
// the bound resources was recreated, e.g. after a buffer grew).
func (c *BindGroupCache) GetOrCreate(key string, invalidate bool, desc func() *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	if bg, ok := c.entries[key]; ok && !invalidate {
		return bg, nil
	}
	bg, err := c.device.CreateBindGroup(desc())
	if err != nil {
		return nil, err
	}
	if old, ok := c.entries[key]; ok && old != nil {
		old.Release()
	}
	c.entries[key] = bg
	return bg, nil
}

// Invalidate drops a single cached entry, forcing recreation next request.
func (c *BindGroupCache) Invalidate(key string) {
	if bg, ok := c.entries[key]; ok {
		bg.Release()
		delete(c.entries, key)
	}
}

// Clear releases and drops every cached bind group.
func (c *BindGroupCache) Clear() {
	for _, bg := range c.entries {
		bg.Release()
	}
	c.entries = make(map[string]*wgpu.BindGroup)
}
