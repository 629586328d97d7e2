package renderer

import (
	"fmt"

	"github.com/voxcore/voxrt/internal/object"
)

// AddVoxelObject registers obj with the scene and assigns it an atlas
// slot — InitVoxelObjects/MarkVobjDirty presuppose objects already exist
// somewhere, and this is that somewhere. Returns the atlas slot index,
// or an error if every slot is in use.
func (r *Renderer) AddVoxelObject(obj *object.VoxelObject) (int, error) {
	slot := r.sched.VoxelObjects.Atlas.Assign(obj)
	if slot < 0 {
		return -1, fmt.Errorf("renderer: add_voxel_object: atlas full")
	}
	r.scene.AddObject(obj)
	return slot, nil
}

// RemoveVoxelObject releases obj's atlas slot and drops it from the scene.
func (r *Renderer) RemoveVoxelObject(obj *object.VoxelObject, slot int) {
	r.sched.VoxelObjects.Atlas.Release(slot)
	r.scene.RemoveObject(obj)
}

// MarkVobjDirty flags the object in atlas slot i as needing a
// voxel-content re-upload.
func (r *Renderer) MarkVobjDirty(i int) {
	r.sched.VoxelObjects.Atlas.MarkDirty(i)
}
