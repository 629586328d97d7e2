package vobjatlas

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxcore/voxrt/internal/object"
)

func TestAssignReturnsDistinctSlotsAndMarksDirty(t *testing.T) {
	a := NewAtlas()
	obj1 := object.NewVoxelObject(1.0)
	obj2 := object.NewVoxelObject(1.0)

	s1 := a.Assign(obj1)
	s2 := a.Assign(obj2)

	require.NotEqual(t, -1, s1)
	require.NotEqual(t, -1, s2)
	require.NotEqual(t, s1, s2)
	require.Equal(t, 2, a.DirtyCount())
}

func TestAssignFailsWhenFull(t *testing.T) {
	a := NewAtlas()
	for i := 0; i < MaxObjects; i++ {
		require.NotEqual(t, -1, a.Assign(object.NewVoxelObject(1.0)))
	}
	require.Equal(t, -1, a.Assign(object.NewVoxelObject(1.0)))
}

func TestReleaseFreesSlotForReuse(t *testing.T) {
	a := NewAtlas()
	obj := object.NewVoxelObject(1.0)
	slot := a.Assign(obj)
	a.MarkUploaded([]int{slot})
	require.Equal(t, 0, a.DirtyCount())

	a.Release(slot)
	require.Equal(t, 0, a.DirtyCount())

	obj2 := object.NewVoxelObject(1.0)
	reused := a.Assign(obj2)
	require.Equal(t, slot, reused)
}

func TestSelectDirtyBudgetCapsAtK(t *testing.T) {
	a := NewAtlas()
	for i := 0; i < DirtyBudgetPerFrame+5; i++ {
		a.Assign(object.NewVoxelObject(1.0))
	}

	budget := a.SelectDirtyBudget()
	require.Len(t, budget, DirtyBudgetPerFrame)
	require.Equal(t, DirtyBudgetPerFrame+5, a.DirtyCount())
}

func TestMarkUploadedClearsOnlyGivenSlots(t *testing.T) {
	a := NewAtlas()
	obj := object.NewVoxelObject(1.0)
	slot := a.Assign(obj)

	a.MarkUploaded([]int{slot})
	require.Equal(t, 0, a.DirtyCount())

	a.MarkDirty(slot)
	require.Equal(t, 1, a.DirtyCount())
}

func TestUsedBoundTracksHighestAssignedSlot(t *testing.T) {
	a := NewAtlas()
	require.Equal(t, 0, a.UsedBound())

	s1 := a.Assign(object.NewVoxelObject(1.0))
	require.Equal(t, s1+1, a.UsedBound())

	a.Release(s1)
	require.Equal(t, 0, a.UsedBound())
}

func TestMetadataRecordIsFixedSize(t *testing.T) {
	obj := object.NewVoxelObject(1.0)
	rec := MetadataRecord(3, obj, true)
	require.Len(t, rec, MetadataRecordSize)
}

func TestMetadataRecordNilObjectIsZeroed(t *testing.T) {
	rec := MetadataRecord(0, nil, true)
	require.Len(t, rec, MetadataRecordSize)
	for _, b := range rec {
		require.Equal(t, byte(0), b)
	}
}

func TestMetadataRecordInvisibleClearsActive(t *testing.T) {
	obj := object.NewVoxelObject(1.0)
	visible := MetadataRecord(0, obj, true)
	culled := MetadataRecord(0, obj, false)
	require.Equal(t, byte(1), visible[168])
	require.Equal(t, byte(0), culled[168])
}
