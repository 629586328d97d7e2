package scheduler

import "github.com/go-gl/mathgl/mgl32"

// FramesInFlight bounds per-slot resources (the per-frame uniform
// buffers), which live in arrays of this length, selected by
// frame_index mod FramesInFlight.
const FramesInFlight = 2

// CameraTeleportDistance is the camera-position delta between
// consecutive SetCamera calls past which the jump is treated as a
// teleport rather than ordinary frame-to-frame motion, invalidating
// temporal history for the next frame. Tuned well above a fast orbit or
// fly-through's per-frame displacement at typical framerates, so normal
// movement never trips it.
const CameraTeleportDistance = 64.0

// QualityField names a tunable quality dimension (set_quality).
type QualityField int

const (
	QualityRT QualityField = iota
	QualityShadow
	QualityAO
	QualityReflection
	QualityLOD
	QualityGI
	QualityTAA
	QualityDenoise
	qualityFieldCount
)

// QualitySettings is the levels snapshot carried in FrameState. Each
// level is 0..3; 0 disables the pass.
type QualitySettings [qualityFieldCount]int

// Level returns field's current level.
func (q QualitySettings) Level(field QualityField) int {
	return q[field]
}

// Set clamps level to [0,3] and stores it.
func (q *QualitySettings) Set(field QualityField, level int) {
	if level < 0 {
		level = 0
	}
	if level > 3 {
		level = 3
	}
	q[field] = level
}

// FrameState is the scheduler's only mutable per-frame state: no
// channels, tasks, or futures are required to drive a frame through
// Begin/End.
type FrameState struct {
	FrameIndex   uint64
	InFlightSlot int

	View, Projection         mgl32.Mat4
	PrevView, PrevProjection mgl32.Mat4
	CameraPos                mgl32.Vec3
	IsOrthographic           bool

	Quality QualitySettings

	// HistoryValid is false on the first frame after a resize or camera
	// teleport; temporal resolves must fall back to the current-frame
	// sample in that case.
	HistoryValid bool

	historyInvalidatedThisFrame bool
}

// NewFrameState returns a fresh state with identity history (no previous
// frame exists yet, so HistoryValid starts false).
func NewFrameState() *FrameState {
	fs := &FrameState{
		View:       mgl32.Ident4(),
		Projection: mgl32.Ident4(),
	}
	fs.PrevView = fs.View
	fs.PrevProjection = fs.Projection
	return fs
}

// SetCamera updates the current view/projection (set_camera). A jump in
// pos past CameraTeleportDistance since the last call invalidates history
// for the next frame, the same way Resize does; ordinary motion leaves
// history alone. Begin is what actually rotates prev_view/prev_projection
// and resolves history_valid from any invalidation recorded since.
func (fs *FrameState) SetCamera(view, projection mgl32.Mat4, pos mgl32.Vec3, isOrthographic bool) {
	if fs.FrameIndex > 0 && pos.Sub(fs.CameraPos).Len() > CameraTeleportDistance {
		fs.InvalidateHistory()
	}
	fs.View = view
	fs.Projection = projection
	fs.CameraPos = pos
	fs.IsOrthographic = isOrthographic
}

// SetQuality updates one quality field (set_quality).
func (fs *FrameState) SetQuality(field QualityField, level int) {
	fs.Quality.Set(field, level)
}

// InvalidateHistory forces history_valid = 0 for exactly the next frame
// (invariant 6): call on resize or a camera teleport.
func (fs *FrameState) InvalidateHistory() {
	fs.historyInvalidatedThisFrame = true
}

// Begin advances the frame counter and in-flight slot, and resolves
// history_valid for this frame from any InvalidateHistory call made since
// the last Begin.
func (fs *FrameState) Begin() {
	fs.InFlightSlot = int(fs.FrameIndex % FramesInFlight)
	if fs.historyInvalidatedThisFrame {
		fs.HistoryValid = false
		fs.historyInvalidatedThisFrame = false
	} else if fs.FrameIndex > 0 {
		fs.HistoryValid = true
	}
}

// End records prev_view/prev_projection for the next frame's
// reprojection and advances frame_index.
func (fs *FrameState) End() {
	fs.PrevView = fs.View
	fs.PrevProjection = fs.Projection
	fs.FrameIndex++
}
