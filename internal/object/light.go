package object

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// LightKind discriminates the light types the GPU-side Light record can
// represent.
type LightKind uint32

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

// Light is the GPU representation of a light, packed as four vec4s:
// position (w unused for directional), direction, color+intensity, and
// range/cone/kind parameters.
type Light struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
	Range     float32
	ConeCos   float32
	Kind      LightKind
}

// NewDirectionalLight returns the single directional light the deferred
// lighting pass always samples.
func NewDirectionalLight(direction mgl32.Vec3, color mgl32.Vec3, intensity float32) Light {
	return Light{
		Direction: direction.Normalize(),
		Color:     color,
		Intensity: intensity,
		Kind:      LightDirectional,
	}
}

// Bytes packs the light into a 64-byte GPU record: four vec4s (position,
// direction, color+intensity, params).
func (l Light) Bytes() []byte {
	out := make([]byte, 64)
	putVec4(out[0:], l.Position, 0)
	putVec4(out[16:], l.Direction, 0)
	putVec4(out[32:], l.Color, l.Intensity)
	binary.LittleEndian.PutUint32(out[48:], math.Float32bits(l.Range))
	binary.LittleEndian.PutUint32(out[52:], math.Float32bits(l.ConeCos))
	binary.LittleEndian.PutUint32(out[56:], uint32(l.Kind))
	return out
}

func putVec4(dst []byte, v mgl32.Vec3, w float32) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(v.X()))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(v.Y()))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(v.Z()))
	binary.LittleEndian.PutUint32(dst[12:16], math.Float32bits(w))
}
