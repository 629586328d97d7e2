// Package respool pools the renderer's per-frame GPU resources: a generic
// free-list slot allocator, persistently-mapped staging rings for chunk/
// object uploads, per-frame uniform buffers, and a bind-group cache.
package respool

// SlotAllocator hands out small integer slot indices from a free list
// before growing the tail, so freed slots (e.g. a destroyed voxel object)
// get reused before the backing array grows.
type SlotAllocator struct {
	tail uint32
	free []uint32
}

// Alloc returns a free slot, preferring a released one over growing tail.
func (a *SlotAllocator) Alloc() uint32 {
	if len(a.free) > 0 {
		idx := a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
		return idx
	}
	idx := a.tail
	a.tail++
	return idx
}

// Free returns a slot to the pool for reuse.
func (a *SlotAllocator) Free(idx uint32) {
	a.free = append(a.free, idx)
}

// Tail is one past the highest slot ever handed out; callers use it to
// size backing arrays/buffers.
func (a *SlotAllocator) Tail() uint32 {
	return a.tail
}

// InUse reports how many slots are currently allocated (tail minus free).
func (a *SlotAllocator) InUse() int {
	return int(a.tail) - len(a.free)
}
