package scheduler

// StateCache tracks the last bound pipeline and bind groups per recording
// scope so redundant bind calls can be skipped. RecordFrame calls Reset at
// the start of every frame, so nothing is compared across frames. The
// pass modules in internal/passes bind their pipeline and bind groups
// directly in Record and do not consult this cache.
type StateCache struct {
	lastPipeline any
	lastBound    map[uint32]any
}

// NewStateCache returns an empty cache; call Reset at the start of each
// command buffer (recording is not re-entrant).
func NewStateCache() *StateCache {
	return &StateCache{lastBound: make(map[uint32]any)}
}

// Reset clears all tracked state, for the start of a new command buffer.
func (c *StateCache) Reset() {
	c.lastPipeline = nil
	for k := range c.lastBound {
		delete(c.lastBound, k)
	}
}

// TrackPipeline reports whether pipeline differs from the last one bound
// in this scope, and records it as current either way.
func (c *StateCache) TrackPipeline(pipeline any) bool {
	changed := pipeline != c.lastPipeline
	c.lastPipeline = pipeline
	return changed
}

// TrackBindGroup reports whether the bind group at index differs from the
// last one bound at that index, and records it as current either way.
func (c *StateCache) TrackBindGroup(index uint32, group any) bool {
	changed := c.lastBound[index] != group
	c.lastBound[index] = group
	return changed
}
