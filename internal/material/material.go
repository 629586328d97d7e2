// Package material holds the fixed-size MaterialDescriptor and the
// 256-entry palette uploaded once at scene load.
package material

import (
	"encoding/binary"
	"fmt"
	"math"
)

// MaxPalette is the hard cap on material ids; id 0 is reserved for empty.
const MaxPalette = 256

// Flag bits for MaterialDescriptor.Flags.
const (
	FlagSolid = 1 << iota
	FlagTransparent
	FlagLiquid
	FlagFlammable
)

// Descriptor is the fixed-size per-material record. Packed to 64 bytes
// to give the GPU-side array a fixed, predictable stride.
type Descriptor struct {
	Color        [3]float32
	Emissive     float32
	Roughness    float32
	Metallic     float32
	Flags        uint32
	Transparency float32
	IOR          float32
	Absorption   [3]float32
}

// Default returns a neutral white, fully rough, opaque solid material.
func Default() Descriptor {
	return Descriptor{
		Color:     [3]float32{1, 1, 1},
		Roughness: 1.0,
		Flags:     FlagSolid,
		IOR:       1.0,
	}
}

// Palette is the upload-once material table. Index 0 must stay the empty
// sentinel; callers populate 1..255.
type Palette struct {
	Entries [MaxPalette]Descriptor
}

// NewPalette returns a palette with every slot defaulted so an uninitialized
// id never reads garbage on the GPU.
func NewPalette() *Palette {
	p := &Palette{}
	for i := range p.Entries {
		p.Entries[i] = Default()
	}
	p.Entries[0] = Descriptor{} // empty: zero color, zero everything
	return p
}

// Set installs a descriptor at id, id must be in (0, MaxPalette).
func (p *Palette) Set(id uint8, d Descriptor) error {
	if id == 0 {
		return fmt.Errorf("material: id 0 is reserved for empty")
	}
	p.Entries[id] = d
	return nil
}

// Bytes packs the whole palette into the 64-byte-per-entry layout consumed
// by the material storage buffer, matching gpu.GpuBufferManager's
// rgbaToVec4/float32ToBytes packing order (color, emissive, roughness,
// metallic, ior, transparency, absorption, flags, then 16 bytes of zero
// padding).
func (p *Palette) Bytes() []byte {
	out := make([]byte, MaxPalette*64)
	for i, d := range p.Entries {
		off := i * 64
		putVec3(out[off:], d.Color)
		binary.LittleEndian.PutUint32(out[off+12:], math.Float32bits(d.Emissive))
		binary.LittleEndian.PutUint32(out[off+16:], math.Float32bits(d.Roughness))
		binary.LittleEndian.PutUint32(out[off+20:], math.Float32bits(d.Metallic))
		binary.LittleEndian.PutUint32(out[off+24:], math.Float32bits(d.IOR))
		binary.LittleEndian.PutUint32(out[off+28:], math.Float32bits(d.Transparency))
		putVec3(out[off+32:], d.Absorption)
		binary.LittleEndian.PutUint32(out[off+44:], d.Flags)
		// off+48..64 reserved padding, left zero.
	}
	return out
}

func putVec3(dst []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(v[2]))
}
