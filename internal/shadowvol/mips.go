// Package shadowvol maintains the 3-level coarse occupancy mip pyramid
// built for empty-space skipping, and the N-slot staging ring that
// uploads it. The uploaded buffer is not bound by any shader pass,
// Shadow-Raymarch included.
//
// The mip chain is built by successive halving and all levels are packed
// back to back into one GPU buffer, but unlike a GPU Hi-Z chain built by downsampling a depth
// texture, this occupancy pyramid is a cheap CPU-side max-pool over
// per-chunk solid_count straight from VoxelVolume headers — only the
// ring/level bookkeeping shape needs a GPU-side counterpart here.
package shadowvol

import "github.com/voxcore/voxrt/internal/volume"

// Levels is the mip chain depth: mip 0, 1, 2.
const Levels = 3

// Mip is one level of the occupancy pyramid: Dims is [x,y,z] chunk
// counts at this level, Data is one byte per cell, row-major (x fastest).
type Mip struct {
	Dims [3]int
	Data []byte
}

func (m Mip) index(x, y, z int) int {
	return z*m.Dims[1]*m.Dims[0] + y*m.Dims[0] + x
}

func (m Mip) at(x, y, z int) byte {
	if x < 0 || y < 0 || z < 0 || x >= m.Dims[0] || y >= m.Dims[1] || z >= m.Dims[2] {
		return 0
	}
	return m.Data[m.index(x, y, z)]
}

// Pyramid is the full 3-level mip chain.
type Pyramid struct {
	Mips [Levels]Mip
}

// Build derives mip 0 from the volume's per-chunk solid_count
// (clamped to min(solid_count, 255)), then max-pools mips 1 and 2 from
// the previous level over non-overlapping 2x2x2 blocks.
func Build(v *volume.VoxelVolume) *Pyramid {
	p := &Pyramid{}
	p.Mips[0] = buildMip0(v)
	for level := 1; level < Levels; level++ {
		p.Mips[level] = maxPool(p.Mips[level-1])
	}
	return p
}

func buildMip0(v *volume.VoxelVolume) Mip {
	dims := v.ChunksDim
	data := make([]byte, dims[0]*dims[1]*dims[2])
	for z := 0; z < dims[2]; z++ {
		for y := 0; y < dims[1]; y++ {
			for x := 0; x < dims[0]; x++ {
				c := v.ChunkAt(x, y, z)
				count := c.Header.SolidCount
				if count > 255 {
					count = 255
				}
				data[z*dims[1]*dims[0]+y*dims[0]+x] = byte(count)
			}
		}
	}
	return Mip{Dims: dims, Data: data}
}

// OrInPlace ORs an external coarse-occupancy contribution (voxel-object
// or particle bounds) into mip 0 at the given chunk coordinate, keeping
// the higher of the two values (both are "how occupied", not a bitmask,
// so max is the correct merge).
func (p *Pyramid) OrInPlace(x, y, z int, value byte) {
	m := &p.Mips[0]
	if x < 0 || y < 0 || z < 0 || x >= m.Dims[0] || y >= m.Dims[1] || z >= m.Dims[2] {
		return
	}
	idx := m.index(x, y, z)
	if value > m.Data[idx] {
		m.Data[idx] = value
	}
}

func maxPool(prev Mip) Mip {
	next := Mip{
		Dims: [3]int{
			ceilDiv2(prev.Dims[0]),
			ceilDiv2(prev.Dims[1]),
			ceilDiv2(prev.Dims[2]),
		},
	}
	next.Data = make([]byte, next.Dims[0]*next.Dims[1]*next.Dims[2])

	for z := 0; z < next.Dims[2]; z++ {
		for y := 0; y < next.Dims[1]; y++ {
			for x := 0; x < next.Dims[0]; x++ {
				var maxV byte
				for dz := 0; dz < 2; dz++ {
					for dy := 0; dy < 2; dy++ {
						for dx := 0; dx < 2; dx++ {
							v := prev.at(x*2+dx, y*2+dy, z*2+dz)
							if v > maxV {
								maxV = v
							}
						}
					}
				}
				next.Data[next.index(x, y, z)] = maxV
			}
		}
	}
	return next
}

func ceilDiv2(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 1) / 2
}
