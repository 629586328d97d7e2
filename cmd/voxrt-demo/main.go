// Command voxrt-demo is the external host collaborator the renderer
// itself excludes: a glfw window, an input loop, and a small
// procedurally-filled demo volume driving internal/renderer.
package main

import (
	"math"
	"runtime"

	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxcore/voxrt/internal/config"
	"github.com/voxcore/voxrt/internal/logx"
	"github.com/voxcore/voxrt/internal/material"
	"github.com/voxcore/voxrt/internal/renderer"
	"github.com/voxcore/voxrt/internal/scheduler"
	"github.com/voxcore/voxrt/internal/volume"
)

const tag = "demo"

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	width, height := 1280, 720
	window, err := glfw.CreateWindow(width, height, "voxrt demo", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	profile, err := config.Load(config.DefaultDir())
	if err != nil {
		logx.Errorf(tag, "load config: %v", err)
		profile = config.Default()
	}

	r, err := renderer.Create(wgpuglfw.GetSurfaceDescriptor(window), uint32(width), uint32(height))
	if err != nil {
		panic(err)
	}
	defer r.Release()

	applyProfile(r, profile)

	if err := r.InitVolume(demoVolumeDesc()); err != nil {
		panic(err)
	}
	uploadDemoMaterials(r)

	cam := &orbitCamera{distance: 80, yaw: 0.6, pitch: 0.4}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, fw, fh int) {
		if fw == 0 || fh == 0 {
			return
		}
		if err := r.Resize(uint32(fw), uint32(fh)); err != nil {
			logx.Errorf(tag, "resize: %v", err)
		}
		width, height = fw, fh
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		cam.distance -= float32(yoff) * 4
		if cam.distance < 5 {
			cam.distance = 5
		}
	})

	lastX, lastY := 0.0, 0.0
	dragging := false
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		dragging = action == glfw.Press
		lastX, lastY = w.GetCursorPos()
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !dragging {
			return
		}
		cam.yaw += float32(xpos-lastX) * 0.005
		cam.pitch += float32(ypos-lastY) * 0.005
		lastX, lastY = xpos, ypos
	})

	budget := 0
	if profile.NUploadBudget > 0 {
		budget = profile.NUploadBudget
	}

	for !window.ShouldClose() {
		glfw.PollEvents()

		r.UploadDirtyChunks(budget)

		view, proj := cam.matrices(float32(width) / float32(height))
		r.SetCamera(view, proj, cam.eye(), false)

		if err := r.RenderFrame(); err != nil {
			logx.Errorf(tag, "render frame: %v", err)
		}
	}
}

func applyProfile(r *renderer.Renderer, p config.Profile) {
	r.SetQuality(scheduler.QualityRT, p.QualityRT)
	r.SetQuality(scheduler.QualityShadow, p.QualityShadow)
	r.SetQuality(scheduler.QualityAO, p.QualityAO)
	r.SetQuality(scheduler.QualityReflection, p.QualityReflection)
	r.SetQuality(scheduler.QualityLOD, p.QualityLOD)
	r.SetQuality(scheduler.QualityGI, p.QualityGI)
	r.SetQuality(scheduler.QualityTAA, p.QualityTAA)
	r.SetQuality(scheduler.QualityDenoise, p.QualityDenoise)
}

func demoVolumeDesc() renderer.VolumeDesc {
	dims := [3]int{8, 8, 8}
	if hint, ok := config.SceneHint(); ok && hint == "large" {
		dims = [3]int{16, 16, 16}
	}
	const voxelSize = float32(1.0)
	extent := float32(dims[0]*volume.ChunkSize) * voxelSize
	half := extent / 2
	return renderer.VolumeDesc{
		BoundsMin: mgl32.Vec3{-half, -half, -half},
		BoundsMax: mgl32.Vec3{half, half, half},
		VoxelSize: voxelSize,
		ChunksDim: dims,
	}
}

func uploadDemoMaterials(r *renderer.Renderer) {
	descriptors := map[uint8]material.Descriptor{
		0: material.Default(),
		1: {Color: [3]float32{0.8, 0.2, 0.2}, Roughness: 0.6, Flags: material.FlagSolid, IOR: 1.0},
		2: {Color: [3]float32{0.2, 0.6, 0.9}, Roughness: 0.2, Metallic: 1, Flags: material.FlagSolid, IOR: 1.0},
	}
	if err := r.UploadMaterialPalette(descriptors); err != nil {
		logx.Errorf(tag, "upload material palette: %v", err)
	}
}

// orbitCamera is the demo's only input-driven state; the renderer itself
// has no camera concept beyond the view/projection SetCamera receives.
type orbitCamera struct {
	yaw, pitch, distance float32
}

func (c *orbitCamera) eye() mgl32.Vec3 {
	x := c.distance * cosf(c.pitch) * sinf(c.yaw)
	y := c.distance * sinf(c.pitch)
	z := c.distance * cosf(c.pitch) * cosf(c.yaw)
	return mgl32.Vec3{x, y, z}
}

func (c *orbitCamera) matrices(aspect float32) (view, proj mgl32.Mat4) {
	eye := c.eye()
	view = mgl32.LookAtV(eye, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	proj = mgl32.Perspective(mgl32.DegToRad(60), aspect, 0.05, 1e5)
	return view, proj
}

func sinf(v float32) float32 { return float32(math.Sin(float64(v))) }
func cosf(v float32) float32 { return float32(math.Cos(float64(v))) }
