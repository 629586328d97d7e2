// Package bvh builds a top-level acceleration structure over voxel-object
// world AABBs for the optional voxel-object ray acceleration path: a
// bucketed, surface-area-weighted split over AABB centroids, falling back
// to an even split when the buckets can't discriminate.
package bvh

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxcore/voxrt/internal/mathx"
)

// Node mirrors the WGSL BVHNode layout: two vec4s (aabb_min/max, w unused)
// plus four i32 fields, 64 bytes total.
type Node struct {
	Min       mgl32.Vec3
	Max       mgl32.Vec3
	Left      int32
	Right     int32
	LeafFirst int32
	LeafCount int32
}

// Bytes packs the node into its 64-byte GPU layout.
func (n *Node) Bytes() []byte {
	buf := make([]byte, 64)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(n.Min.X()))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(n.Min.Y()))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(n.Min.Z()))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(n.Max.X()))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(n.Max.Y()))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(n.Max.Z()))
	binary.LittleEndian.PutUint32(buf[32:36], uint32(n.Left))
	binary.LittleEndian.PutUint32(buf[36:40], uint32(n.Right))
	binary.LittleEndian.PutUint32(buf[40:44], uint32(n.LeafFirst))
	binary.LittleEndian.PutUint32(buf[44:48], uint32(n.LeafCount))
	return buf
}

type item struct {
	bounds   mathx.AABB
	centroid mgl32.Vec3
	index    int
}

// splitBuckets is the number of centroid buckets tried per axis when
// picking a split plane; more buckets approximate full SAH more closely
// at the cost of a few extra union passes over a handful of AABBs, which
// is never the bottleneck for a scene's worth of voxel objects.
const splitBuckets = 8

// TLASBuilder builds a top-level BVH over a flat list of world AABBs,
// identified by their index in the input slice (the caller's visible-object
// order). Internal splits are chosen by bucketing AABB centroids along
// each axis and picking the axis/plane with the lowest surface-area-times-
// count cost, the way a binned SAH build does; when every item's centroid
// coincides on all three axes (no bucket layout can discriminate), it
// falls back to an even split of the slice so the recursion still makes
// progress.
type TLASBuilder struct{}

// Build returns the packed node array, or a single empty 64-byte node if
// aabbs is empty.
func (b *TLASBuilder) Build(aabbs []mathx.AABB) []byte {
	if len(aabbs) == 0 {
		return make([]byte, 64)
	}

	items := make([]item, len(aabbs))
	for i, bnd := range aabbs {
		items[i] = item{
			bounds:   bnd,
			centroid: bnd.Min.Add(bnd.Max).Mul(0.5),
			index:    i,
		}
	}

	var nodes []Node
	b.build(items, &nodes)

	out := make([]byte, 0, len(nodes)*64)
	for i := range nodes {
		out = append(out, nodes[i].Bytes()...)
	}
	return out
}

func (b *TLASBuilder) build(items []item, nodes *[]Node) int32 {
	idx := int32(len(*nodes))
	*nodes = append(*nodes, Node{Left: -1, Right: -1, LeafFirst: -1, LeafCount: 0})

	bounds := mathx.Empty()
	for _, it := range items {
		bounds = bounds.Union(it.bounds)
	}
	(*nodes)[idx].Min = bounds.Min
	(*nodes)[idx].Max = bounds.Max

	if len(items) == 1 {
		(*nodes)[idx].LeafFirst = int32(items[0].index)
		(*nodes)[idx].LeafCount = 1
		return idx
	}

	mid, ok := bestBucketSplit(items)
	if !ok {
		mid = len(items) / 2
	}

	left := b.build(items[:mid], nodes)
	right := b.build(items[mid:], nodes)
	(*nodes)[idx].Left = left
	(*nodes)[idx].Right = right
	return idx
}

// bestBucketSplit partitions items in place so that items[:mid] and
// items[mid:] are the two sides of the lowest-cost axis/bucket-boundary
// split found across all three axes. ok is false when no axis has enough
// centroid spread to produce a non-degenerate bucketing (every item's
// centroid coincides along all three axes), in which case the caller
// should fall back to an even split.
func bestBucketSplit(items []item) (mid int, ok bool) {
	bestCost := float32(math.Inf(1))
	bestAxis := -1
	bestBucket := 0

	for axis := 0; axis < 3; axis++ {
		lo := centroidAxis(items[0], axis)
		hi := lo
		for _, it := range items[1:] {
			c := centroidAxis(it, axis)
			lo = min32(lo, c)
			hi = max32(hi, c)
		}
		extent := hi - lo
		if extent <= 1e-6 {
			continue
		}

		var bucketBounds [splitBuckets]mathx.AABB
		var bucketCount [splitBuckets]int
		for i := range bucketBounds {
			bucketBounds[i] = mathx.Empty()
		}
		for _, it := range items {
			bi := bucketIndex(centroidAxis(it, axis), lo, extent)
			bucketBounds[bi] = bucketBounds[bi].Union(it.bounds)
			bucketCount[bi]++
		}

		leftBounds := mathx.Empty()
		leftCount := 0
		for split := 0; split < splitBuckets-1; split++ {
			leftBounds = leftBounds.Union(bucketBounds[split])
			leftCount += bucketCount[split]
			if leftCount == 0 {
				continue
			}
			rightBounds := mathx.Empty()
			rightCount := 0
			for k := split + 1; k < splitBuckets; k++ {
				rightBounds = rightBounds.Union(bucketBounds[k])
				rightCount += bucketCount[k]
			}
			if rightCount == 0 {
				continue
			}
			cost := float32(leftCount)*surfaceArea(leftBounds) + float32(rightCount)*surfaceArea(rightBounds)
			if cost < bestCost {
				bestCost = cost
				bestAxis = axis
				bestBucket = split
			}
		}
	}

	if bestAxis < 0 {
		return 0, false
	}

	lo := centroidAxis(items[0], bestAxis)
	hi := lo
	for _, it := range items[1:] {
		c := centroidAxis(it, bestAxis)
		lo = min32(lo, c)
		hi = max32(hi, c)
	}
	extent := hi - lo

	left := items[:0:0]
	right := items[:0:0]
	for _, it := range items {
		if bucketIndex(centroidAxis(it, bestAxis), lo, extent) <= bestBucket {
			left = append(left, it)
		} else {
			right = append(right, it)
		}
	}
	copy(items, left)
	copy(items[len(left):], right)
	return len(left), true
}

func centroidAxis(it item, axis int) float32 {
	switch axis {
	case 0:
		return it.centroid.X()
	case 1:
		return it.centroid.Y()
	default:
		return it.centroid.Z()
	}
}

func bucketIndex(v, lo, extent float32) int {
	bi := int(((v - lo) / extent) * splitBuckets)
	if bi < 0 {
		bi = 0
	}
	if bi >= splitBuckets {
		bi = splitBuckets - 1
	}
	return bi
}

// surfaceArea returns the half-surface-area (wx*wy + wy*wz + wz*wx) of an
// AABB, the standard SAH proxy: actual surface area differs by a factor
// of 2 that cancels out when only comparing costs.
func surfaceArea(b mathx.AABB) float32 {
	if !b.Valid() {
		return 0
	}
	d := b.Max.Sub(b.Min)
	return d.X()*d.Y() + d.Y()*d.Z() + d.Z()*d.X()
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
