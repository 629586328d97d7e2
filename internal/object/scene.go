package object

import (
	"github.com/voxcore/voxrt/internal/bvh"
	"github.com/voxcore/voxrt/internal/mathx"
)

// Scene owns the renderer's voxel objects and lights, and rebuilds the
// per-frame visible set and TLAS.
type Scene struct {
	Objects        []*VoxelObject
	VisibleObjects []*VoxelObject
	BVHNodes       []byte
	Lights         []Light
	TargetVoxelSize float32
}

// NewScene returns an empty scene with a default target voxel size.
func NewScene(targetVoxelSize float32) *Scene {
	return &Scene{TargetVoxelSize: targetVoxelSize}
}

func (s *Scene) AddObject(obj *VoxelObject) {
	s.Objects = append(s.Objects, obj)
}

func (s *Scene) RemoveObject(obj *VoxelObject) {
	for i, o := range s.Objects {
		if o == obj {
			s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
			return
		}
	}
}

// Commit recomputes world AABBs, performs frustum (and, when an occlusion
// predicate is supplied, occlusion) culling, and rebuilds the TLAS over
// the surviving objects. occluded may be nil to skip occlusion culling
// (e.g. the first frame, before a Hi-Z mip exists).
func (s *Scene) Commit(frustum mathx.Frustum, occluded func(mathx.AABB) bool) {
	for _, obj := range s.Objects {
		obj.UpdateWorldAABB()
	}

	s.VisibleObjects = s.VisibleObjects[:0]
	for _, obj := range s.Objects {
		if !obj.Active {
			continue
		}
		aabb, ok := obj.WorldAABB()
		if !ok {
			continue
		}
		if !frustum.Intersects(aabb) {
			continue
		}
		if occluded != nil && occluded(aabb) {
			continue
		}
		s.VisibleObjects = append(s.VisibleObjects, obj)
	}

	if len(s.VisibleObjects) == 0 {
		s.BVHNodes = make([]byte, 64)
		return
	}

	aabbs := make([]mathx.AABB, len(s.VisibleObjects))
	for i, obj := range s.VisibleObjects {
		wa, _ := obj.WorldAABB()
		aabbs[i] = wa
	}
	builder := &bvh.TLASBuilder{}
	s.BVHNodes = builder.Build(aabbs)
}
