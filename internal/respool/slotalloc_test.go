package respool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotAllocatorGrowsTail(t *testing.T) {
	var a SlotAllocator
	assert.Equal(t, uint32(0), a.Alloc())
	assert.Equal(t, uint32(1), a.Alloc())
	assert.Equal(t, uint32(2), a.Alloc())
	assert.Equal(t, uint32(3), a.Tail())
}

func TestSlotAllocatorReusesFreedSlots(t *testing.T) {
	var a SlotAllocator
	s0 := a.Alloc()
	s1 := a.Alloc()
	a.Free(s0)
	got := a.Alloc()
	assert.Equal(t, s0, got)
	assert.Equal(t, uint32(2), a.Tail())
	_ = s1
}

func TestSlotAllocatorInUse(t *testing.T) {
	var a SlotAllocator
	a.Alloc()
	a.Alloc()
	s := a.Alloc()
	a.Free(s)
	assert.Equal(t, 2, a.InUse())
}
