package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// worldOf converts an integer voxel-grid coordinate to the world position
// SetAt expects, honoring the volume's origin and voxel size.
func worldOf(v *VoxelVolume, x, y, z int) mgl32.Vec3 {
	return v.BoundsMin.Add(mgl32.Vec3{
		(float32(x) + 0.5) * v.VoxelSize,
		(float32(y) + 0.5) * v.VoxelSize,
		(float32(z) + 0.5) * v.VoxelSize,
	})
}

// Sphere fills a sphere of voxel-grid radius around center.
func Sphere(v *VoxelVolume, center mgl32.Vec3, radius float32, mat uint8) {
	r2 := radius * radius
	minB := [3]int{
		int(math.Floor(float64(center.X() - radius))),
		int(math.Floor(float64(center.Y() - radius))),
		int(math.Floor(float64(center.Z() - radius))),
	}
	maxB := [3]int{
		int(math.Ceil(float64(center.X() + radius))),
		int(math.Ceil(float64(center.Y() + radius))),
		int(math.Ceil(float64(center.Z() + radius))),
	}
	for x := minB[0]; x <= maxB[0]; x++ {
		for y := minB[1]; y <= maxB[1]; y++ {
			for z := minB[2]; z <= maxB[2]; z++ {
				dx := float32(x) - center.X() + 0.5
				dy := float32(y) - center.Y() + 0.5
				dz := float32(z) - center.Z() + 0.5
				if dx*dx+dy*dy+dz*dz <= r2 {
					v.SetAt(worldOf(v, x, y, z), mat)
				}
			}
		}
	}
}

// Cube fills an axis-aligned box given in voxel-grid coordinates.
func Cube(v *VoxelVolume, minB, maxB mgl32.Vec3, mat uint8) {
	minI := [3]int{int(math.Floor(float64(minB.X()))), int(math.Floor(float64(minB.Y()))), int(math.Floor(float64(minB.Z())))}
	maxI := [3]int{int(math.Floor(float64(maxB.X()))), int(math.Floor(float64(maxB.Y()))), int(math.Floor(float64(maxB.Z())))}
	for x := minI[0]; x <= maxI[0]; x++ {
		for y := minI[1]; y <= maxI[1]; y++ {
			for z := minI[2]; z <= maxI[2]; z++ {
				v.SetAt(worldOf(v, x, y, z), mat)
			}
		}
	}
}

// Cone fills a cone from base (circle center) to tip (apex), both in
// voxel-grid coordinates.
func Cone(v *VoxelVolume, base, tip mgl32.Vec3, radius float32, mat uint8) {
	heightVec := tip.Sub(base)
	height := heightVec.Len()
	if height < 1e-5 {
		return
	}
	axis := heightVec.Normalize()

	maxDim := float32(math.Max(float64(radius), float64(height)))
	center := base.Add(tip).Mul(0.5)
	minB := [3]int{int(math.Floor(float64(center.X() - maxDim))), int(math.Floor(float64(center.Y() - maxDim))), int(math.Floor(float64(center.Z() - maxDim)))}
	maxB := [3]int{int(math.Ceil(float64(center.X() + maxDim))), int(math.Ceil(float64(center.Y() + maxDim))), int(math.Ceil(float64(center.Z() + maxDim)))}

	for x := minB[0]; x <= maxB[0]; x++ {
		for y := minB[1]; y <= maxB[1]; y++ {
			for z := minB[2]; z <= maxB[2]; z++ {
				p := mgl32.Vec3{float32(x) + 0.5, float32(y) + 0.5, float32(z) + 0.5}
				d := p.Sub(base)
				distOnAxis := d.Dot(axis)
				if distOnAxis < 0 || distOnAxis > height {
					continue
				}
				radiusAtDist := radius * (1.0 - distOnAxis/height)
				distToAxis2 := d.LenSqr() - distOnAxis*distOnAxis
				if distToAxis2 <= radiusAtDist*radiusAtDist {
					v.SetAt(worldOf(v, x, y, z), mat)
				}
			}
		}
	}
}

// Pyramid fills a square pyramid from base to tip, both in voxel-grid
// coordinates, with base edge length size.
func Pyramid(v *VoxelVolume, base, tip mgl32.Vec3, size float32, mat uint8) {
	heightVec := tip.Sub(base)
	height := heightVec.Len()
	if height < 1e-5 {
		return
	}
	axis := heightVec.Normalize()

	up := mgl32.Vec3{0, 1, 0}
	if math.Abs(float64(axis.Dot(up))) > 0.99 {
		up = mgl32.Vec3{1, 0, 0}
	}
	right := axis.Cross(up).Normalize()
	forward := right.Cross(axis).Normalize()

	maxDim := float32(math.Max(float64(size), float64(height)))
	center := base.Add(tip).Mul(0.5)
	minB := [3]int{int(math.Floor(float64(center.X() - maxDim))), int(math.Floor(float64(center.Y() - maxDim))), int(math.Floor(float64(center.Z() - maxDim)))}
	maxB := [3]int{int(math.Ceil(float64(center.X() + maxDim))), int(math.Ceil(float64(center.Y() + maxDim))), int(math.Ceil(float64(center.Z() + maxDim)))}

	halfSize := size * 0.5

	for x := minB[0]; x <= maxB[0]; x++ {
		for y := minB[1]; y <= maxB[1]; y++ {
			for z := minB[2]; z <= maxB[2]; z++ {
				p := mgl32.Vec3{float32(x) + 0.5, float32(y) + 0.5, float32(z) + 0.5}
				d := p.Sub(base)
				distOnAxis := d.Dot(axis)
				if distOnAxis < 0 || distOnAxis > height {
					continue
				}
				scale := 1.0 - distOnAxis/height
				s := halfSize * scale
				dx := d.Dot(right)
				dz := d.Dot(forward)
				if math.Abs(float64(dx)) <= float64(s) && math.Abs(float64(dz)) <= float64(s) {
					v.SetAt(worldOf(v, x, y, z), mat)
				}
			}
		}
	}
}

// Point fills a single voxel-grid cell.
func Point(v *VoxelVolume, x, y, z int, mat uint8) {
	v.SetAt(worldOf(v, x, y, z), mat)
}
