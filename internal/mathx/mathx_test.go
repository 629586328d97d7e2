package mathx

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFrustumCulling(t *testing.T) {
	// Camera at origin looking down -Z, 90 deg FOV, near 1, far 100.
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1.0, 1.0, 100.0)
	view := mgl32.LookAtV(
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 0, -1},
		mgl32.Vec3{0, 1, 0},
	)
	frustum := ExtractFrustum(proj.Mul4(view))

	tests := []struct {
		name     string
		min, max mgl32.Vec3
		want     bool
	}{
		{
			name: "inside center",
			min:  mgl32.Vec3{-1, -1, -10}, max: mgl32.Vec3{1, 1, -5},
			want: true,
		},
		{
			name: "outside left",
			min:  mgl32.Vec3{-20, -1, -10}, max: mgl32.Vec3{-15, 1, -5},
			want: false,
		},
		{
			name: "outside right",
			min:  mgl32.Vec3{15, -1, -10}, max: mgl32.Vec3{20, 1, -5},
			want: false,
		},
		{
			name: "outside behind near plane",
			min:  mgl32.Vec3{-1, -1, 2}, max: mgl32.Vec3{1, 1, 5},
			want: false,
		},
		{
			name: "intersecting left plane",
			min:  mgl32.Vec3{-15, -1, -10}, max: mgl32.Vec3{-5, 1, -5},
			want: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := frustum.Intersects(AABB{Min: tc.min, Max: tc.max})
			if got != tc.want {
				t.Errorf("Intersects(%v, %v) = %v, want %v", tc.min, tc.max, got, tc.want)
			}
		})
	}
}

func TestFrustumCullingOrtho(t *testing.T) {
	proj := mgl32.Ortho(-10, 10, -10, 10, 0, 20)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	frustum := ExtractFrustum(proj.Mul4(view))

	box := AABB{Min: mgl32.Vec3{-1, -1, -6}, Max: mgl32.Vec3{1, 1, -4}}
	if !frustum.Intersects(box) {
		t.Error("ortho: box at (0,0,-5) should be inside the view volume")
	}
}

func TestEmptyIsUnionIdentity(t *testing.T) {
	e := Empty()
	box := AABB{Min: mgl32.Vec3{1, 2, 3}, Max: mgl32.Vec3{4, 5, 6}}
	got := e.Union(box)
	if got != box {
		t.Errorf("Empty().Union(box) = %v, want %v", got, box)
	}
}

func TestUnionGrowsToCoverBoth(t *testing.T) {
	a := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	b := AABB{Min: mgl32.Vec3{-1, 2, -1}, Max: mgl32.Vec3{5, 3, 0.5}}
	got := a.Union(b)
	want := AABB{Min: mgl32.Vec3{-1, 0, -1}, Max: mgl32.Vec3{5, 3, 1}}
	if got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
}

func TestUnionPointExpandsBounds(t *testing.T) {
	a := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	got := a.UnionPoint(mgl32.Vec3{-2, 0.5, 10})
	want := AABB{Min: mgl32.Vec3{-2, 0, 0}, Max: mgl32.Vec3{1, 1, 10}}
	if got != want {
		t.Errorf("UnionPoint = %v, want %v", got, want)
	}
}

func TestValidRejectsInvertedBounds(t *testing.T) {
	if Empty().Valid() {
		t.Error("Empty() should not be Valid (min > max on every axis)")
	}
	box := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	if !box.Valid() {
		t.Error("a well-formed box should be Valid")
	}
}

func TestTransformOfIdentityIsUnchanged(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -2, -3}, Max: mgl32.Vec3{4, 5, 6}}
	got := box.Transform(mgl32.Ident4())
	if got.Min != box.Min || got.Max != box.Max {
		t.Errorf("Transform(identity) = %v, want %v", got, box)
	}
}

func TestTransformTranslatesBounds(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	got := box.Transform(mgl32.Translate3D(10, 0, 0))
	want := AABB{Min: mgl32.Vec3{10, 0, 0}, Max: mgl32.Vec3{11, 1, 1}}
	if got != want {
		t.Errorf("Transform(translate) = %v, want %v", got, want)
	}
}

func TestCornersReturnsAllEightPoints(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	corners := box.Corners()
	seen := map[mgl32.Vec3]bool{}
	for _, c := range corners {
		seen[c] = true
	}
	if len(seen) != 8 {
		t.Errorf("Corners() produced %d distinct points, want 8", len(seen))
	}
}
