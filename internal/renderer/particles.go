package renderer

import "github.com/go-gl/mathgl/mgl32"

// ParticleInstance mirrors particle_raster.wgsl's ParticleInstance struct
// (group(1) binding(0), std430 layout): pos/size pack into one vec4-aligned
// 16 bytes, color is a second 16-byte vec4.
type ParticleInstance struct {
	Pos   mgl32.Vec3
	Size  float32
	Color [4]float32
}

// Bytes serializes the instance to its 32-byte wire layout.
func (p ParticleInstance) Bytes() []byte {
	buf := make([]byte, 32)
	putF32(buf[0:], p.Pos[0])
	putF32(buf[4:], p.Pos[1])
	putF32(buf[8:], p.Pos[2])
	putF32(buf[12:], p.Size)
	putF32(buf[16:], p.Color[0])
	putF32(buf[20:], p.Color[1])
	putF32(buf[24:], p.Color[2])
	putF32(buf[28:], p.Color[3])
	return buf
}
